package ledger

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/ParthPrakashSaini/military-asset-management-system/internal/repository"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/models"
)

// BalanceRepository is the only code path that touches inventory rows. Every
// method takes the engine's transaction; balances are never read or written
// outside one.
type BalanceRepository interface {
	LockBalance(tx *goqu.TxDatabase, baseID, assetID int) (*models.Inventory, error)
	LockOrCreateBalance(tx *goqu.TxDatabase, baseID, assetID int) (*models.Inventory, error)
	UpdateClosingBalance(tx *goqu.TxDatabase, inventoryID, closingBalance int) error
}

type balanceRepository struct {
	Repo *repository.Repository
}

func NewBalanceRepository(r *repository.Repository) BalanceRepository {
	return &balanceRepository{Repo: r}
}

// LockBalance acquires a row lock on the (base, asset) balance and returns
// the committed values, or nil if no row exists yet. The lock is held until
// the surrounding transaction commits or rolls back, so a concurrent
// sufficiency check on the same pair waits here.
func (r *balanceRepository) LockBalance(tx *goqu.TxDatabase, baseID, assetID int) (*models.Inventory, error) {
	var inventory models.Inventory

	query := tx.From("inventory").
		Select("id", "base_id", "asset_id", "opening_balance", "closing_balance").
		Where(goqu.Ex{"base_id": baseID, "asset_id": assetID}).
		ForUpdate(exp.Wait)

	found, err := query.Executor().ScanStruct(&inventory)
	if err != nil {
		return nil, fmt.Errorf("failed to lock inventory row: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &inventory, nil
}

// LockOrCreateBalance inserts the balance row with a zero opening balance if
// the pair has never been seen, then locks it. Creation happens inside the
// same transaction as the mutation, so no reader ever observes a fresh row
// without its first entry.
func (r *balanceRepository) LockOrCreateBalance(tx *goqu.TxDatabase, baseID, assetID int) (*models.Inventory, error) {
	insert := tx.Insert("inventory").
		Rows(goqu.Record{
			"base_id":         baseID,
			"asset_id":        assetID,
			"opening_balance": 0,
			"closing_balance": 0,
		}).
		OnConflict(goqu.DoNothing())

	if _, err := insert.Executor().Exec(); err != nil {
		return nil, fmt.Errorf("failed to upsert inventory row: %w", err)
	}

	inventory, err := r.LockBalance(tx, baseID, assetID)
	if err != nil {
		return nil, err
	}
	if inventory == nil {
		return nil, fmt.Errorf("inventory row for base %d asset %d vanished after upsert", baseID, assetID)
	}

	return inventory, nil
}

func (r *balanceRepository) UpdateClosingBalance(tx *goqu.TxDatabase, inventoryID, closingBalance int) error {
	query := tx.Update("inventory").
		Set(goqu.Record{"closing_balance": closingBalance}).
		Where(goqu.Ex{"id": inventoryID})

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to update closing balance: %w", err)
	}

	return nil
}
