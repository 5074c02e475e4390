package assets

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/ParthPrakashSaini/military-asset-management-system/internal/repository"
	custom_error "github.com/ParthPrakashSaini/military-asset-management-system/pkg/errors"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/models"
)

type AssetRepository interface {
	GetAssets(conditions repository.QueryBuilder) ([]models.Asset, error)
	PersistAsset(asset *models.Asset) error
	UpdateAsset(id int, req UpdateAssetRequest) (*models.Asset, error)
	RemoveAsset(id int) error
}

type assetRepository struct {
	Repo *repository.Repository
}

func NewAssetRepository(r *repository.Repository) AssetRepository {
	return &assetRepository{Repo: r}
}

// UpdateAssetRequest allows cosmetic renames only; type and unit are frozen
// once ledger entries may reference the asset.
type UpdateAssetRequest struct {
	Name *string `json:"name"`
}

func (r *assetRepository) GetAssets(conditions repository.QueryBuilder) ([]models.Asset, error) {
	var assets = []models.Asset{}

	query := r.Repo.Goqu.Select("id", "name", "type", "unit").From("assets").Order(goqu.I("name").Asc())

	if conditions != nil && conditions.HasConditions() {
		query = query.Where(conditions.BuildConditions(nil))
	}

	if err := query.Executor().ScanStructs(&assets); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return assets, nil
}

func (r *assetRepository) PersistAsset(asset *models.Asset) error {
	if asset.Unit == "" {
		asset.Unit = "units"
	}

	query := r.Repo.Goqu.Insert("assets").
		Rows(goqu.Record{
			"name": asset.Name,
			"type": asset.Type,
			"unit": asset.Unit,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&asset.ID); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Asset name already registered", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert asset record: %w", err)
	}

	return nil
}

func (r *assetRepository) UpdateAsset(id int, req UpdateAssetRequest) (*models.Asset, error) {
	if req.Name == nil {
		return nil, fmt.Errorf("no fields to update")
	}

	query := r.Repo.Goqu.
		Update("assets").
		Set(goqu.Record{"name": *req.Name}).
		Where(goqu.Ex{"id": id}).
		Returning("id", "name", "type", "unit")

	var asset models.Asset
	found, err := query.Executor().ScanStruct(&asset)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return nil, custom_error.WrapDBError("Asset name already registered", string(pqErr.Code))
		}
		return nil, fmt.Errorf("failed to update asset: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("asset %d not found", id)
	}

	return &asset, nil
}

func (r *assetRepository) RemoveAsset(id int) error {
	result, err := r.Repo.Goqu.Delete("assets").Where(goqu.Ex{"id": id}).Executor().Exec()
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Asset is referenced by ledger entries", string(pqErr.Code))
		}
		return fmt.Errorf("failed to delete asset: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not retrieve rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("asset %d not found", id)
	}

	return nil
}
