package dashboard

import (
	"context"

	"github.com/doug-martin/goqu/v9"
)

// Metrics is the dashboard payload. NetMovement is closing minus opening;
// the movement details carry the gross breakdown for the modal, and the
// components reconcile: closing - opening ==
// purchases + transfers_in - transfers_out - consumed.
type Metrics struct {
	OpeningBalance  int             `json:"opening_balance"`
	ClosingBalance  int             `json:"closing_balance"`
	NetMovement     int             `json:"net_movement"`
	MovementDetails MovementDetails `json:"movement_details"`
	TotalAssigned   int             `json:"total_assigned"`
	TotalExpended   int             `json:"total_expended"`
}

type MovementDetails struct {
	Purchases    int `json:"purchases"`
	TransfersIn  int `json:"transfers_in"`
	TransfersOut int `json:"transfers_out"`
	Consumed     int `json:"consumed"`
}

// SnapshotRunner provides the single consistent snapshot the aggregation
// reads from. Satisfied by repository.Repository.
type SnapshotRunner interface {
	InReadOnlyTransaction(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error
}

type Service struct {
	runner SnapshotRunner
	repo   MetricsRepository
}

func NewService(runner SnapshotRunner, repo MetricsRepository) *Service {
	return &Service{runner: runner, repo: repo}
}

// ComputeMetrics aggregates committed state only. Everything is read inside
// one read-only transaction so a transfer's two balance changes are either
// both visible or neither.
func (s *Service) ComputeMetrics(ctx context.Context, scope Scope) (*Metrics, error) {
	var metrics Metrics

	err := s.runner.InReadOnlyTransaction(ctx, func(tx *goqu.TxDatabase) error {
		opening, closing, err := s.repo.SumBalances(tx, scope)
		if err != nil {
			return err
		}

		purchases, err := s.repo.SumPurchases(tx, scope)
		if err != nil {
			return err
		}

		transfersIn, err := s.repo.SumTransfersIn(tx, scope)
		if err != nil {
			return err
		}

		transfersOut, err := s.repo.SumTransfersOut(tx, scope)
		if err != nil {
			return err
		}

		consumed, err := s.repo.SumAssignments(tx, scope, false)
		if err != nil {
			return err
		}

		expended, err := s.repo.SumAssignments(tx, scope, true)
		if err != nil {
			return err
		}

		metrics = Metrics{
			OpeningBalance: opening,
			ClosingBalance: closing,
			NetMovement:    closing - opening,
			MovementDetails: MovementDetails{
				Purchases:    purchases,
				TransfersIn:  transfersIn,
				TransfersOut: transfersOut,
				Consumed:     consumed,
			},
			TotalAssigned: consumed - expended,
			TotalExpended: expended,
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return &metrics, nil
}
