package ledger

import (
	"sort"
	"time"

	"github.com/doug-martin/goqu/v9"

	custom_error "github.com/ParthPrakashSaini/military-asset-management-system/pkg/errors"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/models"
)

// TxRunner demarcates the engine's atomic unit. Satisfied by
// repository.Repository.
type TxRunner interface {
	InTransaction(fn func(tx *goqu.TxDatabase) error) error
}

// Engine records the three transaction kinds against the inventory ledger.
// All three operations share one shape: validate, then mutate one or two
// balances and append one immutable entry, as a single all-or-nothing unit.
type Engine struct {
	runner   TxRunner
	balances BalanceRepository
	entries  EntryRepository
}

func NewEngine(runner TxRunner, balances BalanceRepository, entries EntryRepository) *Engine {
	return &Engine{
		runner:   runner,
		balances: balances,
		entries:  entries,
	}
}

// balanceDelta is one signed quantity change against a (base, asset) pair.
type balanceDelta struct {
	BaseID   int
	AssetID  int
	Quantity int
}

// RecordPurchase adds quantity at a base, creating the balance row on first
// use, and appends a purchase entry.
func (e *Engine) RecordPurchase(req models.PurchaseRequest) (*models.LedgerEntry, error) {
	if req.Quantity <= 0 {
		return nil, &custom_error.InvalidQuantityError{Quantity: req.Quantity}
	}

	baseID := req.BaseID
	entry := &models.LedgerEntry{
		Type:       models.EntryPurchase,
		AssetID:    req.AssetID,
		Quantity:   req.Quantity,
		DestBaseID: &baseID,
		UserID:     req.UserID,
		OccurredAt: occurredAt(req.OccurredAt),
	}

	deltas := []balanceDelta{
		{BaseID: req.BaseID, AssetID: req.AssetID, Quantity: req.Quantity},
	}

	if err := e.apply(entry, deltas); err != nil {
		return nil, err
	}

	return entry, nil
}

// RecordTransfer moves quantity between two bases. The source decrement and
// destination increment commit together or not at all.
func (e *Engine) RecordTransfer(req models.TransferRequest) (*models.LedgerEntry, error) {
	if req.SourceBaseID == req.DestBaseID {
		return nil, &custom_error.SameBaseError{BaseID: req.SourceBaseID}
	}
	if req.Quantity <= 0 {
		return nil, &custom_error.InvalidQuantityError{Quantity: req.Quantity}
	}

	sourceID := req.SourceBaseID
	destID := req.DestBaseID
	status := models.TransferCompleted
	entry := &models.LedgerEntry{
		Type:         models.EntryTransfer,
		AssetID:      req.AssetID,
		Quantity:     req.Quantity,
		SourceBaseID: &sourceID,
		DestBaseID:   &destID,
		Status:       &status,
		UserID:       req.UserID,
		OccurredAt:   occurredAt(req.OccurredAt),
	}

	deltas := []balanceDelta{
		{BaseID: req.SourceBaseID, AssetID: req.AssetID, Quantity: -req.Quantity},
		{BaseID: req.DestBaseID, AssetID: req.AssetID, Quantity: req.Quantity},
	}

	if err := e.apply(entry, deltas); err != nil {
		return nil, err
	}

	return entry, nil
}

// RecordAssignment hands quantity out of a base, either checked out to
// personnel or expended for good.
func (e *Engine) RecordAssignment(req models.AssignmentRequest) (*models.LedgerEntry, error) {
	if req.Quantity <= 0 {
		return nil, &custom_error.InvalidQuantityError{Quantity: req.Quantity}
	}

	baseID := req.BaseID
	personnelName := req.PersonnelName
	expended := req.Expended
	entry := &models.LedgerEntry{
		Type:          models.EntryAssignment,
		AssetID:       req.AssetID,
		Quantity:      req.Quantity,
		SourceBaseID:  &baseID,
		PersonnelName: &personnelName,
		Expended:      &expended,
		UserID:        req.UserID,
		OccurredAt:    occurredAt(req.OccurredAt),
	}

	deltas := []balanceDelta{
		{BaseID: req.BaseID, AssetID: req.AssetID, Quantity: -req.Quantity},
	}

	if err := e.apply(entry, deltas); err != nil {
		return nil, err
	}

	return entry, nil
}

// apply is the single primitive behind all three operations. Deltas are
// locked in (base, asset) order so two transfers crossing in opposite
// directions cannot deadlock. Any error rolls the whole unit back; errors
// that are not part of the ledger taxonomy surface as StorageError so the
// caller can tell "fix the request" from "retry the same request".
func (e *Engine) apply(entry *models.LedgerEntry, deltas []balanceDelta) error {
	sort.Slice(deltas, func(i, j int) bool {
		if deltas[i].BaseID != deltas[j].BaseID {
			return deltas[i].BaseID < deltas[j].BaseID
		}
		return deltas[i].AssetID < deltas[j].AssetID
	})

	err := e.runner.InTransaction(func(tx *goqu.TxDatabase) error {
		if err := e.checkReferences(tx, entry); err != nil {
			return err
		}

		for _, delta := range deltas {
			if err := e.applyDelta(tx, delta); err != nil {
				return err
			}
		}

		return e.entries.InsertEntry(tx, entry)
	})

	if err != nil && !custom_error.IsLedgerError(err) {
		return &custom_error.StorageError{Err: err}
	}

	return err
}

func (e *Engine) applyDelta(tx *goqu.TxDatabase, delta balanceDelta) error {
	var balance *models.Inventory
	var err error

	if delta.Quantity > 0 {
		balance, err = e.balances.LockOrCreateBalance(tx, delta.BaseID, delta.AssetID)
	} else {
		balance, err = e.balances.LockBalance(tx, delta.BaseID, delta.AssetID)
	}
	if err != nil {
		return err
	}

	available := 0
	if balance != nil {
		available = balance.ClosingBalance
	}
	if balance == nil || available+delta.Quantity < 0 {
		return &custom_error.InsufficientStockError{
			BaseID:    delta.BaseID,
			AssetID:   delta.AssetID,
			Available: available,
			Requested: -delta.Quantity,
		}
	}

	return e.balances.UpdateClosingBalance(tx, balance.ID, available+delta.Quantity)
}

func (e *Engine) checkReferences(tx *goqu.TxDatabase, entry *models.LedgerEntry) error {
	ok, err := e.entries.AssetExists(tx, entry.AssetID)
	if err != nil {
		return err
	}
	if !ok {
		return &custom_error.UnknownReferenceError{Resource: "asset", ID: entry.AssetID}
	}

	for _, baseID := range []*int{entry.SourceBaseID, entry.DestBaseID} {
		if baseID == nil {
			continue
		}
		ok, err := e.entries.BaseExists(tx, *baseID)
		if err != nil {
			return err
		}
		if !ok {
			return &custom_error.UnknownReferenceError{Resource: "base", ID: *baseID}
		}
	}

	return nil
}

func occurredAt(t *time.Time) time.Time {
	if t != nil {
		return *t
	}
	return time.Now()
}
