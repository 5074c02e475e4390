package ledger

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ParthPrakashSaini/military-asset-management-system/internal/repository"
	custom_error "github.com/ParthPrakashSaini/military-asset-management-system/pkg/errors"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/models"
)

type fakeTxRunner struct {
	beginErr error
}

func (f *fakeTxRunner) InTransaction(fn func(tx *goqu.TxDatabase) error) error {
	if f.beginErr != nil {
		return f.beginErr
	}
	return fn(nil)
}

type MockBalanceRepository struct {
	mock.Mock
}

func (m *MockBalanceRepository) LockBalance(tx *goqu.TxDatabase, baseID, assetID int) (*models.Inventory, error) {
	args := m.Called(tx, baseID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *MockBalanceRepository) LockOrCreateBalance(tx *goqu.TxDatabase, baseID, assetID int) (*models.Inventory, error) {
	args := m.Called(tx, baseID, assetID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Inventory), args.Error(1)
}

func (m *MockBalanceRepository) UpdateClosingBalance(tx *goqu.TxDatabase, inventoryID, closingBalance int) error {
	args := m.Called(tx, inventoryID, closingBalance)
	return args.Error(0)
}

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) InsertEntry(tx *goqu.TxDatabase, entry *models.LedgerEntry) error {
	args := m.Called(tx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) BaseExists(tx *goqu.TxDatabase, baseID int) (bool, error) {
	args := m.Called(tx, baseID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepository) AssetExists(tx *goqu.TxDatabase, assetID int) (bool, error) {
	args := m.Called(tx, assetID)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepository) GetEntries(entryType models.EntryType, conditions repository.QueryBuilder) ([]FlatEntry, error) {
	args := m.Called(entryType, conditions)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]FlatEntry), args.Error(1)
}

func newTestEngine() (*Engine, *MockBalanceRepository, *MockEntryRepository) {
	balances := new(MockBalanceRepository)
	entries := new(MockEntryRepository)
	engine := NewEngine(&fakeTxRunner{}, balances, entries)
	return engine, balances, entries
}

func TestRecordPurchase(t *testing.T) {
	engine, balances, entries := newTestEngine()

	entries.On("AssetExists", mock.Anything, 2).Return(true, nil).Once()
	entries.On("BaseExists", mock.Anything, 1).Return(true, nil).Once()
	balances.On("LockOrCreateBalance", mock.Anything, 1, 2).
		Return(&models.Inventory{ID: 7, BaseID: 1, AssetID: 2, OpeningBalance: 0, ClosingBalance: 0}, nil).Once()
	balances.On("UpdateClosingBalance", mock.Anything, 7, 500).Return(nil).Once()
	entries.On("InsertEntry", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.LedgerEntry).ID = 42
		}).
		Return(nil).Once()

	entry, err := engine.RecordPurchase(models.PurchaseRequest{
		BaseID:   1,
		AssetID:  2,
		Quantity: 500,
		UserID:   9,
	})

	assert.NoError(t, err)
	assert.Equal(t, 42, entry.ID)
	assert.Equal(t, models.EntryPurchase, entry.Type)
	assert.Equal(t, 500, entry.Quantity)
	assert.Nil(t, entry.SourceBaseID)
	assert.Equal(t, 1, *entry.DestBaseID)
	assert.Equal(t, 9, entry.UserID)

	balances.AssertExpectations(t)
	entries.AssertExpectations(t)
}

func TestRecordPurchaseInvalidQuantity(t *testing.T) {
	engine, balances, entries := newTestEngine()

	for _, quantity := range []int{0, -10} {
		_, err := engine.RecordPurchase(models.PurchaseRequest{
			BaseID:   1,
			AssetID:  2,
			Quantity: quantity,
			UserID:   9,
		})

		var invalidQuantity *custom_error.InvalidQuantityError
		assert.ErrorAs(t, err, &invalidQuantity)
		assert.Equal(t, quantity, invalidQuantity.Quantity)
	}

	balances.AssertNotCalled(t, "LockOrCreateBalance", mock.Anything, mock.Anything, mock.Anything)
	entries.AssertNotCalled(t, "InsertEntry", mock.Anything, mock.Anything)
}

func TestRecordPurchaseUnknownAsset(t *testing.T) {
	engine, balances, entries := newTestEngine()

	entries.On("AssetExists", mock.Anything, 99).Return(false, nil).Once()

	_, err := engine.RecordPurchase(models.PurchaseRequest{
		BaseID:   1,
		AssetID:  99,
		Quantity: 10,
		UserID:   9,
	})

	var unknownReference *custom_error.UnknownReferenceError
	assert.ErrorAs(t, err, &unknownReference)
	assert.Equal(t, "asset", unknownReference.Resource)
	assert.Equal(t, 99, unknownReference.ID)

	balances.AssertNotCalled(t, "LockOrCreateBalance", mock.Anything, mock.Anything, mock.Anything)
	entries.AssertExpectations(t)
}

func TestRecordPurchaseExplicitOccurredAt(t *testing.T) {
	engine, balances, entries := newTestEngine()

	occurredAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	entries.On("AssetExists", mock.Anything, 2).Return(true, nil).Once()
	entries.On("BaseExists", mock.Anything, 1).Return(true, nil).Once()
	balances.On("LockOrCreateBalance", mock.Anything, 1, 2).
		Return(&models.Inventory{ID: 7, ClosingBalance: 100}, nil).Once()
	balances.On("UpdateClosingBalance", mock.Anything, 7, 150).Return(nil).Once()
	entries.On("InsertEntry", mock.Anything, mock.Anything).Return(nil).Once()

	entry, err := engine.RecordPurchase(models.PurchaseRequest{
		BaseID:     1,
		AssetID:    2,
		Quantity:   50,
		OccurredAt: &occurredAt,
		UserID:     9,
	})

	assert.NoError(t, err)
	assert.Equal(t, occurredAt, entry.OccurredAt)
}

func TestRecordTransfer(t *testing.T) {
	engine, balances, entries := newTestEngine()

	entries.On("AssetExists", mock.Anything, 2).Return(true, nil).Once()
	entries.On("BaseExists", mock.Anything, 1).Return(true, nil).Once()
	entries.On("BaseExists", mock.Anything, 3).Return(true, nil).Once()
	balances.On("LockBalance", mock.Anything, 1, 2).
		Return(&models.Inventory{ID: 7, ClosingBalance: 500}, nil).Once()
	balances.On("UpdateClosingBalance", mock.Anything, 7, 300).Return(nil).Once()
	balances.On("LockOrCreateBalance", mock.Anything, 3, 2).
		Return(&models.Inventory{ID: 8, ClosingBalance: 0}, nil).Once()
	balances.On("UpdateClosingBalance", mock.Anything, 8, 200).Return(nil).Once()
	entries.On("InsertEntry", mock.Anything, mock.Anything).Return(nil).Once()

	entry, err := engine.RecordTransfer(models.TransferRequest{
		SourceBaseID: 1,
		DestBaseID:   3,
		AssetID:      2,
		Quantity:     200,
		UserID:       9,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.EntryTransfer, entry.Type)
	assert.Equal(t, 1, *entry.SourceBaseID)
	assert.Equal(t, 3, *entry.DestBaseID)
	assert.Equal(t, models.TransferCompleted, *entry.Status)

	balances.AssertExpectations(t)
	entries.AssertExpectations(t)
}

func TestRecordTransferSameBase(t *testing.T) {
	engine, balances, entries := newTestEngine()

	_, err := engine.RecordTransfer(models.TransferRequest{
		SourceBaseID: 1,
		DestBaseID:   1,
		AssetID:      2,
		Quantity:     200,
		UserID:       9,
	})

	var sameBase *custom_error.SameBaseError
	assert.ErrorAs(t, err, &sameBase)

	balances.AssertNotCalled(t, "LockBalance", mock.Anything, mock.Anything, mock.Anything)
	entries.AssertNotCalled(t, "InsertEntry", mock.Anything, mock.Anything)
}

func TestRecordTransferInsufficientStock(t *testing.T) {
	engine, balances, entries := newTestEngine()

	entries.On("AssetExists", mock.Anything, 2).Return(true, nil).Once()
	entries.On("BaseExists", mock.Anything, 1).Return(true, nil).Once()
	entries.On("BaseExists", mock.Anything, 3).Return(true, nil).Once()
	balances.On("LockBalance", mock.Anything, 1, 2).
		Return(&models.Inventory{ID: 7, ClosingBalance: 100}, nil).Once()

	_, err := engine.RecordTransfer(models.TransferRequest{
		SourceBaseID: 1,
		DestBaseID:   3,
		AssetID:      2,
		Quantity:     150,
		UserID:       9,
	})

	var insufficientStock *custom_error.InsufficientStockError
	assert.ErrorAs(t, err, &insufficientStock)
	assert.Equal(t, 100, insufficientStock.Available)
	assert.Equal(t, 150, insufficientStock.Requested)

	balances.AssertNotCalled(t, "UpdateClosingBalance", mock.Anything, mock.Anything, mock.Anything)
	entries.AssertNotCalled(t, "InsertEntry", mock.Anything, mock.Anything)
}

// Two transfers crossing in opposite directions must lock rows in the same
// global order. The delta set is sorted by (base, asset), so the lower base
// id is locked first no matter which direction the transfer goes.
func TestRecordTransferLockOrdering(t *testing.T) {
	engine, balances, entries := newTestEngine()

	var lockedBases []int

	entries.On("AssetExists", mock.Anything, 2).Return(true, nil).Once()
	entries.On("BaseExists", mock.Anything, 5).Return(true, nil).Once()
	entries.On("BaseExists", mock.Anything, 3).Return(true, nil).Once()
	balances.On("LockOrCreateBalance", mock.Anything, 3, 2).
		Run(func(args mock.Arguments) { lockedBases = append(lockedBases, 3) }).
		Return(&models.Inventory{ID: 8, ClosingBalance: 0}, nil).Once()
	balances.On("LockBalance", mock.Anything, 5, 2).
		Run(func(args mock.Arguments) { lockedBases = append(lockedBases, 5) }).
		Return(&models.Inventory{ID: 7, ClosingBalance: 500}, nil).Once()
	balances.On("UpdateClosingBalance", mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()
	entries.On("InsertEntry", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := engine.RecordTransfer(models.TransferRequest{
		SourceBaseID: 5,
		DestBaseID:   3,
		AssetID:      2,
		Quantity:     200,
		UserID:       9,
	})

	assert.NoError(t, err)
	assert.Equal(t, []int{3, 5}, lockedBases)
}

func TestRecordAssignment(t *testing.T) {
	engine, balances, entries := newTestEngine()

	entries.On("AssetExists", mock.Anything, 2).Return(true, nil).Once()
	entries.On("BaseExists", mock.Anything, 1).Return(true, nil).Once()
	balances.On("LockBalance", mock.Anything, 1, 2).
		Return(&models.Inventory{ID: 7, ClosingBalance: 100}, nil).Once()
	balances.On("UpdateClosingBalance", mock.Anything, 7, 60).Return(nil).Once()
	entries.On("InsertEntry", mock.Anything, mock.Anything).Return(nil).Once()

	entry, err := engine.RecordAssignment(models.AssignmentRequest{
		BaseID:        1,
		AssetID:       2,
		Quantity:      40,
		PersonnelName: "Sgt. Carter",
		Expended:      true,
		UserID:        9,
	})

	assert.NoError(t, err)
	assert.Equal(t, models.EntryAssignment, entry.Type)
	assert.Equal(t, "Sgt. Carter", *entry.PersonnelName)
	assert.True(t, *entry.Expended)
	assert.Equal(t, 1, *entry.SourceBaseID)

	balances.AssertExpectations(t)
	entries.AssertExpectations(t)
}

func TestRecordAssignmentNoBalanceRow(t *testing.T) {
	engine, balances, entries := newTestEngine()

	entries.On("AssetExists", mock.Anything, 2).Return(true, nil).Once()
	entries.On("BaseExists", mock.Anything, 1).Return(true, nil).Once()
	balances.On("LockBalance", mock.Anything, 1, 2).Return(nil, nil).Once()

	_, err := engine.RecordAssignment(models.AssignmentRequest{
		BaseID:        1,
		AssetID:       2,
		Quantity:      40,
		PersonnelName: "Sgt. Carter",
		UserID:        9,
	})

	var insufficientStock *custom_error.InsufficientStockError
	assert.ErrorAs(t, err, &insufficientStock)
	assert.Equal(t, 0, insufficientStock.Available)

	balances.AssertNotCalled(t, "UpdateClosingBalance", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecordPurchaseStorageFailure(t *testing.T) {
	engine, balances, entries := newTestEngine()

	entries.On("AssetExists", mock.Anything, 2).Return(true, nil).Once()
	entries.On("BaseExists", mock.Anything, 1).Return(true, nil).Once()
	balances.On("LockOrCreateBalance", mock.Anything, 1, 2).
		Return(&models.Inventory{ID: 7, ClosingBalance: 0}, nil).Once()
	balances.On("UpdateClosingBalance", mock.Anything, 7, 500).Return(nil).Once()
	entries.On("InsertEntry", mock.Anything, mock.Anything).
		Return(errors.New("connection reset")).Once()

	_, err := engine.RecordPurchase(models.PurchaseRequest{
		BaseID:   1,
		AssetID:  2,
		Quantity: 500,
		UserID:   9,
	})

	var storageFailure *custom_error.StorageError
	assert.ErrorAs(t, err, &storageFailure)
	assert.False(t, custom_error.IsLedgerError(err))
}

// contendedPair simulates one inventory row under FOR UPDATE contention: the
// mutex stands in for the row lock and is held for the whole transaction, and
// a staged write only becomes the committed balance when fn returns nil.
type contendedPair struct {
	mu        sync.Mutex
	committed int
	staged    *int
}

func (p *contendedPair) InTransaction(fn func(tx *goqu.TxDatabase) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.staged = nil
	if err := fn(nil); err != nil {
		return err
	}
	if p.staged != nil {
		p.committed = *p.staged
	}
	return nil
}

func (p *contendedPair) LockBalance(tx *goqu.TxDatabase, baseID, assetID int) (*models.Inventory, error) {
	return &models.Inventory{ID: 1, BaseID: baseID, AssetID: assetID, ClosingBalance: p.committed}, nil
}

func (p *contendedPair) LockOrCreateBalance(tx *goqu.TxDatabase, baseID, assetID int) (*models.Inventory, error) {
	return p.LockBalance(tx, baseID, assetID)
}

func (p *contendedPair) UpdateClosingBalance(tx *goqu.TxDatabase, inventoryID, closingBalance int) error {
	staged := closingBalance
	p.staged = &staged
	return nil
}

type countingEntries struct {
	mu       sync.Mutex
	inserted int
}

func (c *countingEntries) InsertEntry(tx *goqu.TxDatabase, entry *models.LedgerEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inserted++
	entry.ID = c.inserted
	return nil
}

func (c *countingEntries) BaseExists(tx *goqu.TxDatabase, baseID int) (bool, error) {
	return true, nil
}

func (c *countingEntries) AssetExists(tx *goqu.TxDatabase, assetID int) (bool, error) {
	return true, nil
}

func (c *countingEntries) GetEntries(entryType models.EntryType, conditions repository.QueryBuilder) ([]FlatEntry, error) {
	return nil, nil
}

// Two concurrent withdrawals that together exceed the balance: whichever
// transaction locks the row second must see the winner's committed balance
// and fail its sufficiency check. Exactly one entry lands in the ledger.
func TestConcurrentAssignmentsExactlyOneWinner(t *testing.T) {
	pair := &contendedPair{committed: 100}
	entries := &countingEntries{}
	engine := NewEngine(pair, pair, entries)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = engine.RecordAssignment(models.AssignmentRequest{
				BaseID:        1,
				AssetID:       2,
				Quantity:      70,
				PersonnelName: "Sgt. Carter",
				UserID:        9,
			})
		}(i)
	}
	wg.Wait()

	var failures int
	for _, err := range results {
		if err == nil {
			continue
		}
		var insufficientStock *custom_error.InsufficientStockError
		assert.ErrorAs(t, err, &insufficientStock)
		assert.Equal(t, 30, insufficientStock.Available)
		failures++
	}

	assert.Equal(t, 1, failures)
	assert.Equal(t, 30, pair.committed)
	assert.Equal(t, 1, entries.inserted)
}

func TestRecordTransferBeginFailure(t *testing.T) {
	balances := new(MockBalanceRepository)
	entries := new(MockEntryRepository)
	engine := NewEngine(&fakeTxRunner{beginErr: errors.New("too many connections")}, balances, entries)

	_, err := engine.RecordTransfer(models.TransferRequest{
		SourceBaseID: 1,
		DestBaseID:   3,
		AssetID:      2,
		Quantity:     200,
		UserID:       9,
	})

	var storageFailure *custom_error.StorageError
	assert.ErrorAs(t, err, &storageFailure)
}
