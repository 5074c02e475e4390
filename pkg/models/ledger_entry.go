package models

import "time"

type EntryType string

const (
	EntryPurchase   EntryType = "purchase"
	EntryTransfer   EntryType = "transfer"
	EntryAssignment EntryType = "assignment"
)

// Transfer statuses kept on the entry for the audit trail.
const (
	TransferPending   = "Pending"
	TransferInTransit = "In-Transit"
	TransferCompleted = "Completed"
	TransferCancelled = "Cancelled"
)

// LedgerEntry is one immutable fact in the transaction log. The three entry
// kinds share a single tagged record: purchases carry only a destination
// base, assignments only a source base plus personnel/expended, transfers
// carry both bases and a status.
type LedgerEntry struct {
	ID            int       `json:"id" db:"id"`
	Type          EntryType `json:"type" db:"entry_type"`
	AssetID       int       `json:"asset_id" db:"asset_id"`
	Quantity      int       `json:"quantity" db:"quantity"`
	SourceBaseID  *int      `json:"source_base_id,omitempty" db:"source_base_id"`
	DestBaseID    *int      `json:"dest_base_id,omitempty" db:"dest_base_id"`
	PersonnelName *string   `json:"personnel_name,omitempty" db:"personnel_name"`
	Expended      *bool     `json:"expended,omitempty" db:"expended"`
	Status        *string   `json:"status,omitempty" db:"status"`
	UserID        int       `json:"user_id" db:"user_id"`
	OccurredAt    time.Time `json:"occurred_at" db:"occurred_at"`
}

func (e *LedgerEntry) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   e.ID,
		ResourceType: string(e.Type),
	}
}
