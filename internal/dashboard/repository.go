package dashboard

import (
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/ParthPrakashSaini/military-asset-management-system/internal/repository"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/models"
)

// Scope narrows the metrics to one base and/or one asset. Zero value means
// system-wide totals.
type Scope struct {
	BaseID  *int
	AssetID *int
}

type MetricsRepository interface {
	SumBalances(tx *goqu.TxDatabase, scope Scope) (opening int, closing int, err error)
	SumPurchases(tx *goqu.TxDatabase, scope Scope) (int, error)
	SumTransfersIn(tx *goqu.TxDatabase, scope Scope) (int, error)
	SumTransfersOut(tx *goqu.TxDatabase, scope Scope) (int, error)
	SumAssignments(tx *goqu.TxDatabase, scope Scope, expendedOnly bool) (int, error)
}

type metricsRepository struct {
	Repo *repository.Repository
}

func NewMetricsRepository(r *repository.Repository) MetricsRepository {
	return &metricsRepository{Repo: r}
}

func (r *metricsRepository) SumBalances(tx *goqu.TxDatabase, scope Scope) (int, int, error) {
	var sums struct {
		Opening int `db:"total_opening"`
		Closing int `db:"total_closing"`
	}

	query := tx.From("inventory").
		Select(
			goqu.COALESCE(goqu.SUM("opening_balance"), 0).As("total_opening"),
			goqu.COALESCE(goqu.SUM("closing_balance"), 0).As("total_closing"),
		)

	if scope.BaseID != nil {
		query = query.Where(goqu.Ex{"base_id": *scope.BaseID})
	}
	if scope.AssetID != nil {
		query = query.Where(goqu.Ex{"asset_id": *scope.AssetID})
	}

	if _, err := query.Executor().ScanStruct(&sums); err != nil {
		return 0, 0, fmt.Errorf("failed to sum balances: %w", err)
	}

	return sums.Opening, sums.Closing, nil
}

func (r *metricsRepository) SumPurchases(tx *goqu.TxDatabase, scope Scope) (int, error) {
	return r.sumQuantity(tx, goqu.Ex{"entry_type": models.EntryPurchase}, "dest_base_id", scope)
}

// Transfer quantity is counted once on the destination side and once on the
// source side. System-wide the two sums are equal; under a base scope they
// diverge into that base's gross in and out.
func (r *metricsRepository) SumTransfersIn(tx *goqu.TxDatabase, scope Scope) (int, error) {
	return r.sumQuantity(tx, goqu.Ex{"entry_type": models.EntryTransfer}, "dest_base_id", scope)
}

func (r *metricsRepository) SumTransfersOut(tx *goqu.TxDatabase, scope Scope) (int, error) {
	return r.sumQuantity(tx, goqu.Ex{"entry_type": models.EntryTransfer}, "source_base_id", scope)
}

func (r *metricsRepository) SumAssignments(tx *goqu.TxDatabase, scope Scope, expendedOnly bool) (int, error) {
	conditions := goqu.Ex{"entry_type": models.EntryAssignment}
	if expendedOnly {
		conditions["expended"] = true
	}
	return r.sumQuantity(tx, conditions, "source_base_id", scope)
}

func (r *metricsRepository) sumQuantity(tx *goqu.TxDatabase, conditions goqu.Ex, baseColumn string, scope Scope) (int, error) {
	var total int

	query := tx.From("ledger_entries").
		Select(goqu.COALESCE(goqu.SUM("quantity"), 0)).
		Where(conditions)

	if scope.BaseID != nil {
		query = query.Where(goqu.Ex{baseColumn: *scope.BaseID})
	}
	if scope.AssetID != nil {
		query = query.Where(goqu.Ex{"asset_id": *scope.AssetID})
	}

	if _, err := query.Executor().ScanVal(&total); err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries: %w", err)
	}

	return total, nil
}
