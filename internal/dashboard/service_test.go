package dashboard

import (
	"context"
	"errors"
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type fakeSnapshotRunner struct{}

func (f *fakeSnapshotRunner) InReadOnlyTransaction(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error {
	return fn(nil)
}

type MockMetricsRepository struct {
	mock.Mock
}

func (m *MockMetricsRepository) SumBalances(tx *goqu.TxDatabase, scope Scope) (int, int, error) {
	args := m.Called(tx, scope)
	return args.Int(0), args.Int(1), args.Error(2)
}

func (m *MockMetricsRepository) SumPurchases(tx *goqu.TxDatabase, scope Scope) (int, error) {
	args := m.Called(tx, scope)
	return args.Int(0), args.Error(1)
}

func (m *MockMetricsRepository) SumTransfersIn(tx *goqu.TxDatabase, scope Scope) (int, error) {
	args := m.Called(tx, scope)
	return args.Int(0), args.Error(1)
}

func (m *MockMetricsRepository) SumTransfersOut(tx *goqu.TxDatabase, scope Scope) (int, error) {
	args := m.Called(tx, scope)
	return args.Int(0), args.Error(1)
}

func (m *MockMetricsRepository) SumAssignments(tx *goqu.TxDatabase, scope Scope, expendedOnly bool) (int, error) {
	args := m.Called(tx, scope, expendedOnly)
	return args.Int(0), args.Error(1)
}

func TestComputeMetrics(t *testing.T) {
	repo := new(MockMetricsRepository)
	service := NewService(&fakeSnapshotRunner{}, repo)

	scope := Scope{}
	repo.On("SumBalances", mock.Anything, scope).Return(1000, 1150, nil)
	repo.On("SumPurchases", mock.Anything, scope).Return(500, nil)
	repo.On("SumTransfersIn", mock.Anything, scope).Return(200, nil)
	repo.On("SumTransfersOut", mock.Anything, scope).Return(200, nil)
	repo.On("SumAssignments", mock.Anything, scope, false).Return(350, nil)
	repo.On("SumAssignments", mock.Anything, scope, true).Return(150, nil)

	metrics, err := service.ComputeMetrics(context.Background(), scope)

	assert.NoError(t, err)
	assert.Equal(t, 150, metrics.NetMovement)
	assert.Equal(t, 200, metrics.TotalAssigned)
	assert.Equal(t, 150, metrics.TotalExpended)

	// The components must reconcile with the balance delta.
	details := metrics.MovementDetails
	assert.Equal(t,
		metrics.ClosingBalance-metrics.OpeningBalance,
		details.Purchases+details.TransfersIn-details.TransfersOut-details.Consumed,
	)
}

func TestComputeMetricsIsReadOnly(t *testing.T) {
	repo := new(MockMetricsRepository)
	service := NewService(&fakeSnapshotRunner{}, repo)

	scope := Scope{}
	repo.On("SumBalances", mock.Anything, scope).Return(100, 100, nil)
	repo.On("SumPurchases", mock.Anything, scope).Return(0, nil)
	repo.On("SumTransfersIn", mock.Anything, scope).Return(0, nil)
	repo.On("SumTransfersOut", mock.Anything, scope).Return(0, nil)
	repo.On("SumAssignments", mock.Anything, scope, mock.Anything).Return(0, nil)

	first, err := service.ComputeMetrics(context.Background(), scope)
	assert.NoError(t, err)

	second, err := service.ComputeMetrics(context.Background(), scope)
	assert.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestComputeMetricsScoped(t *testing.T) {
	repo := new(MockMetricsRepository)
	service := NewService(&fakeSnapshotRunner{}, repo)

	baseID := 3
	scope := Scope{BaseID: &baseID}
	repo.On("SumBalances", mock.Anything, scope).Return(0, 250, nil)
	repo.On("SumPurchases", mock.Anything, scope).Return(300, nil)
	repo.On("SumTransfersIn", mock.Anything, scope).Return(50, nil)
	repo.On("SumTransfersOut", mock.Anything, scope).Return(80, nil)
	repo.On("SumAssignments", mock.Anything, scope, false).Return(20, nil)
	repo.On("SumAssignments", mock.Anything, scope, true).Return(5, nil)

	metrics, err := service.ComputeMetrics(context.Background(), scope)

	assert.NoError(t, err)
	assert.Equal(t, 250, metrics.NetMovement)
	assert.Equal(t, 50, metrics.MovementDetails.TransfersIn)
	assert.Equal(t, 80, metrics.MovementDetails.TransfersOut)
	repo.AssertExpectations(t)
}

func TestComputeMetricsRepositoryError(t *testing.T) {
	repo := new(MockMetricsRepository)
	service := NewService(&fakeSnapshotRunner{}, repo)

	scope := Scope{}
	repo.On("SumBalances", mock.Anything, scope).Return(0, 0, errors.New("relation does not exist"))

	metrics, err := service.ComputeMetrics(context.Background(), scope)

	assert.Error(t, err)
	assert.Nil(t, metrics)
	repo.AssertNotCalled(t, "SumPurchases", mock.Anything, mock.Anything)
}
