package bases

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/ParthPrakashSaini/military-asset-management-system/internal/repository"
	custom_error "github.com/ParthPrakashSaini/military-asset-management-system/pkg/errors"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/models"
)

type BaseRepository interface {
	GetBases() ([]models.Base, error)
	GetBase(id int) (*models.Base, error)
	PersistBase(base *models.Base) error
	UpdateBase(id int, req UpdateBaseRequest) (*models.Base, error)
	RemoveBase(id int) error
}

type baseRepository struct {
	Repo *repository.Repository
}

func NewBaseRepository(r *repository.Repository) BaseRepository {
	return &baseRepository{Repo: r}
}

type UpdateBaseRequest struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

func (r *baseRepository) GetBases() ([]models.Base, error) {
	var bases = []models.Base{}

	query := r.Repo.Goqu.Select("id", "name", "location").From("bases").Order(goqu.I("name").Asc())
	if err := query.Executor().ScanStructs(&bases); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return bases, nil
}

func (r *baseRepository) GetBase(id int) (*models.Base, error) {
	var base models.Base

	query := r.Repo.Goqu.Select("id", "name", "location").From("bases").Where(goqu.Ex{"id": id})
	found, err := query.Executor().ScanStruct(&base)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &base, nil
}

func (r *baseRepository) PersistBase(base *models.Base) error {
	query := r.Repo.Goqu.Insert("bases").
		Rows(goqu.Record{
			"name":     base.Name,
			"location": base.Location,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&base.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Base name already registered", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert base record: %w", err)
	}

	return nil
}

func (r *baseRepository) UpdateBase(id int, req UpdateBaseRequest) (*models.Base, error) {
	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Location != nil {
		updates["location"] = *req.Location
	}
	if len(updates) == 0 {
		return nil, fmt.Errorf("no fields to update")
	}

	query := r.Repo.Goqu.
		Update("bases").
		Set(updates).
		Where(goqu.Ex{"id": id}).
		Returning("id", "name", "location")

	var base models.Base
	found, err := query.Executor().ScanStruct(&base)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Base name already registered", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update base: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("base %d not found", id)
	}

	return &base, nil
}

func (r *baseRepository) RemoveBase(id int) error {
	result, err := r.Repo.Goqu.Delete("bases").Where(goqu.Ex{"id": id}).Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Base is referenced by ledger entries", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete base: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("base %d not found", id)
	}

	return nil
}
