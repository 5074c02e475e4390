package models

// Inventory is the current stock balance for one (base, asset) pair.
// Rows appear lazily on the first ledger entry touching the pair and are
// never deleted. OpeningBalance is fixed at creation; ClosingBalance is
// mutated only by the ledger engine, inside its transaction.
type Inventory struct {
	ID             int `json:"id" db:"id"`
	BaseID         int `json:"base_id" db:"base_id"`
	AssetID        int `json:"asset_id" db:"asset_id"`
	OpeningBalance int `json:"opening_balance" db:"opening_balance"`
	ClosingBalance int `json:"closing_balance" db:"closing_balance"`
}
