package users

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/lib/pq"

	"github.com/ParthPrakashSaini/military-asset-management-system/internal/repository"
	custom_error "github.com/ParthPrakashSaini/military-asset-management-system/pkg/errors"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/models"
)

type UserRepository interface {
	PersistUser(req models.CreateUserRequest, hashedPassword []byte) error
	GetUser(id int) (*models.User, error)
	GetUsers() ([]models.User, error)
}

type userRepository struct {
	Repo *repository.Repository
}

func NewUserRepository(r *repository.Repository) UserRepository {
	return &userRepository{Repo: r}
}

func (r *userRepository) PersistUser(req models.CreateUserRequest, hashedPassword []byte) error {
	query := r.Repo.Goqu.Insert("users").
		Rows(goqu.Record{
			"username":      req.Username,
			"fullname":      req.Fullname,
			"password_hash": string(hashedPassword),
			"role":          req.Role,
		})

	if _, err := query.Executor().Exec(); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return custom_error.WrapDBError("Username already registered", string(pqErr.Code))
		}
		return fmt.Errorf("failed to insert user record: %w", err)
	}

	return nil
}

func (r *userRepository) GetUser(id int) (*models.User, error) {
	var user models.User

	query := r.Repo.Goqu.
		Select("id", "username", "fullname", "role").
		From("users").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&user)
	if err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &user, nil
}

func (r *userRepository) GetUsers() ([]models.User, error) {
	var users = []models.User{}

	query := r.Repo.Goqu.
		Select("id", "username", "fullname", "role").
		From("users").
		Order(goqu.I("username").Asc())

	if err := query.Executor().ScanStructs(&users); err != nil {
		return nil, fmt.Errorf("unable to execute SQL: %w", err)
	}

	return users, nil
}
