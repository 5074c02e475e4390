package ledger

import (
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/ParthPrakashSaini/military-asset-management-system/internal/repository"
	"github.com/ParthPrakashSaini/military-asset-management-system/pkg/models"
)

type EntryRepository interface {
	InsertEntry(tx *goqu.TxDatabase, entry *models.LedgerEntry) error
	BaseExists(tx *goqu.TxDatabase, baseID int) (bool, error)
	AssetExists(tx *goqu.TxDatabase, assetID int) (bool, error)
	GetEntries(entryType models.EntryType, conditions repository.QueryBuilder) ([]FlatEntry, error)
}

type entryRepository struct {
	Repo *repository.Repository
}

func NewEntryRepository(r *repository.Repository) EntryRepository {
	return &entryRepository{Repo: r}
}

// FlatEntry is a ledger entry row joined with its display names for the
// list endpoints.
type FlatEntry struct {
	ID             int       `json:"id" db:"id"`
	Type           string    `json:"type" db:"entry_type"`
	AssetID        int       `json:"asset_id" db:"asset_id"`
	AssetName      string    `json:"asset_name" db:"asset_name"`
	AssetUnit      string    `json:"asset_unit" db:"asset_unit"`
	Quantity       int       `json:"quantity" db:"quantity"`
	SourceBaseID   *int      `json:"source_base_id,omitempty" db:"source_base_id"`
	SourceBaseName *string   `json:"source_base_name,omitempty" db:"source_base_name"`
	DestBaseID     *int      `json:"dest_base_id,omitempty" db:"dest_base_id"`
	DestBaseName   *string   `json:"dest_base_name,omitempty" db:"dest_base_name"`
	PersonnelName  *string   `json:"personnel_name,omitempty" db:"personnel_name"`
	Expended       *bool     `json:"expended,omitempty" db:"expended"`
	Status         *string   `json:"status,omitempty" db:"status"`
	UserID         int       `json:"user_id" db:"user_id"`
	Username       string    `json:"username" db:"username"`
	OccurredAt     time.Time `json:"occurred_at" db:"occurred_at"`
}

// InsertEntry appends one immutable fact to the ledger. It must run in the
// same transaction as the balance mutation it describes.
func (r *entryRepository) InsertEntry(tx *goqu.TxDatabase, entry *models.LedgerEntry) error {
	query := tx.Insert("ledger_entries").
		Rows(goqu.Record{
			"entry_type":     entry.Type,
			"asset_id":       entry.AssetID,
			"quantity":       entry.Quantity,
			"source_base_id": entry.SourceBaseID,
			"dest_base_id":   entry.DestBaseID,
			"personnel_name": entry.PersonnelName,
			"expended":       entry.Expended,
			"status":         entry.Status,
			"user_id":        entry.UserID,
			"occurred_at":    entry.OccurredAt,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&entry.ID); err != nil {
		return fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	return nil
}

func (r *entryRepository) BaseExists(tx *goqu.TxDatabase, baseID int) (bool, error) {
	return r.exists(tx, "bases", baseID)
}

func (r *entryRepository) AssetExists(tx *goqu.TxDatabase, assetID int) (bool, error) {
	return r.exists(tx, "assets", assetID)
}

func (r *entryRepository) exists(tx *goqu.TxDatabase, table string, id int) (bool, error) {
	var found int
	query := tx.From(table).Select("id").Where(goqu.Ex{"id": id})

	ok, err := query.Executor().ScanVal(&found)
	if err != nil {
		return false, fmt.Errorf("failed to check %s %d: %w", table, id, err)
	}

	return ok, nil
}

func (r *entryRepository) GetEntries(entryType models.EntryType, conditions repository.QueryBuilder) ([]FlatEntry, error) {
	var entries []FlatEntry

	query := r.Repo.Goqu.
		Select(
			goqu.I("e.id").As("id"),
			goqu.I("e.entry_type").As("entry_type"),
			goqu.I("e.asset_id").As("asset_id"),
			goqu.I("a.name").As("asset_name"),
			goqu.I("a.unit").As("asset_unit"),
			goqu.I("e.quantity").As("quantity"),
			goqu.I("e.source_base_id").As("source_base_id"),
			goqu.I("b1.name").As("source_base_name"),
			goqu.I("e.dest_base_id").As("dest_base_id"),
			goqu.I("b2.name").As("dest_base_name"),
			goqu.I("e.personnel_name").As("personnel_name"),
			goqu.I("e.expended").As("expended"),
			goqu.I("e.status").As("status"),
			goqu.I("e.user_id").As("user_id"),
			goqu.I("u.username").As("username"),
			goqu.I("e.occurred_at").As("occurred_at"),
		).
		From(goqu.T("ledger_entries").As("e")).
		Join(
			goqu.T("assets").As("a"),
			goqu.On(goqu.Ex{"e.asset_id": goqu.I("a.id")}),
		).
		Join(
			goqu.T("users").As("u"),
			goqu.On(goqu.Ex{"e.user_id": goqu.I("u.id")}),
		).
		LeftJoin(
			goqu.T("bases").As("b1"),
			goqu.On(goqu.Ex{"e.source_base_id": goqu.I("b1.id")}),
		).
		LeftJoin(
			goqu.T("bases").As("b2"),
			goqu.On(goqu.Ex{"e.dest_base_id": goqu.I("b2.id")}),
		).
		Where(goqu.Ex{"e.entry_type": entryType}).
		Order(goqu.I("e.occurred_at").Desc(), goqu.I("e.id").Desc())

	if conditions != nil && conditions.HasConditions() {
		aliases := map[string]string{
			"asset_id":       "e.asset_id",
			"source_base_id": "e.source_base_id",
			"dest_base_id":   "e.dest_base_id",
			"expended":       "e.expended",
		}

		query = query.Where(conditions.BuildConditions(aliases))
	}

	if err := query.Executor().ScanStructs(&entries); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	return entries, nil
}
