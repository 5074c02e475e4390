package custom_error

import (
	"errors"
	"fmt"
)

// The ledger engine reports three kinds of failures: validation errors
// (caller mistake), InsufficientStock (reflects committed state), and
// StorageError (infrastructure fault, safe to retry the whole operation).
// Every kind rolls the transaction back completely.

type InvalidQuantityError struct {
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be a positive integer, got %d", e.Quantity)
}

type SameBaseError struct {
	BaseID int
}

func (e *SameBaseError) Error() string {
	return fmt.Sprintf("source and destination base cannot be the same (base %d)", e.BaseID)
}

type UnknownReferenceError struct {
	Resource string // "base" or "asset"
	ID       int
}

func (e *UnknownReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Resource, e.ID)
}

type InsufficientStockError struct {
	BaseID    int
	AssetID   int
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock of asset %d at base %d: have %d, need %d",
		e.AssetID, e.BaseID, e.Available, e.Requested)
}

type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsLedgerError reports whether err is one of the deterministic ledger
// failure kinds, as opposed to an infrastructure fault.
func IsLedgerError(err error) bool {
	var invalidQty *InvalidQuantityError
	var sameBase *SameBaseError
	var unknownRef *UnknownReferenceError
	var insufficient *InsufficientStockError
	return errors.As(err, &invalidQty) ||
		errors.As(err, &sameBase) ||
		errors.As(err, &unknownRef) ||
		errors.As(err, &insufficient)
}
