package cmd

import (
	"database/sql"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/doug-martin/goqu/v9"

	"github.com/ParthPrakashSaini/military-asset-management-system/internal/repository"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/roles"
)

// Seed creates the bootstrap admin account and a small catalog so a fresh
// deployment is usable. Existing rows are left alone.
func Seed(db *sql.DB, logger *zap.Logger) error {
	repo := repository.NewRepository(db)

	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		password = "changeme123"
		logger.Warn("SEED_ADMIN_PASSWORD not set, using the default password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	return repository.WithTransaction(repo.Goqu, func(tx *goqu.TxDatabase) error {
		insertUser := tx.Insert("users").
			Rows(goqu.Record{
				"username":      "admin",
				"fullname":      "Administrator",
				"password_hash": string(hash),
				"role":          roles.Admin.String(),
			}).
			OnConflict(goqu.DoNothing())
		if _, err := insertUser.Executor().Exec(); err != nil {
			return err
		}

		insertBases := tx.Insert("bases").
			Rows(
				goqu.Record{"name": "Base Alpha", "location": "Northern Command"},
				goqu.Record{"name": "Base Bravo", "location": "Eastern Command"},
			).
			OnConflict(goqu.DoNothing())
		if _, err := insertBases.Executor().Exec(); err != nil {
			return err
		}

		insertAssets := tx.Insert("assets").
			Rows(
				goqu.Record{"name": "Rifle", "type": "Weapon", "unit": "units"},
				goqu.Record{"name": "5.56mm Ammunition", "type": "Ammunition", "unit": "rounds"},
				goqu.Record{"name": "Diesel", "type": "Fuel", "unit": "liters"},
			).
			OnConflict(goqu.DoNothing())
		if _, err := insertAssets.Executor().Exec(); err != nil {
			return err
		}

		logger.Info("Seed data inserted")
		return nil
	})
}
