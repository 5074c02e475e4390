package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres" // register postgres dialect
)

type Repository struct {
	DB   *sql.DB
	Goqu *goqu.Database
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		DB:   db,
		Goqu: goqu.New("postgres", db),
	}
}

// InTransaction runs fn inside a read-write transaction.
func (r *Repository) InTransaction(fn func(tx *goqu.TxDatabase) error) error {
	return WithTransaction(r.Goqu, fn)
}

// InReadOnlyTransaction runs fn against a single consistent snapshot. The
// dashboard aggregation uses this so it never observes half a transfer.
// REPEATABLE READ is required: under READ COMMITTED each statement would get
// its own snapshot and a commit between two sums would skew the breakdown.
func (r *Repository) InReadOnlyTransaction(ctx context.Context, fn func(tx *goqu.TxDatabase) error) error {
	tx, err := r.Goqu.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return fmt.Errorf("failed to start read-only transaction: %w", err)
	}
	return runInTx(tx, fn)
}

func WithTransaction(db *goqu.Database, fn func(tx *goqu.TxDatabase) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	return runInTx(tx, fn)
}

func runInTx(tx *goqu.TxDatabase, fn func(tx *goqu.TxDatabase) error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)
	return
}
