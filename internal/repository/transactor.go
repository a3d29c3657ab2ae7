package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type transactor struct {
	db *sqlx.DB
}

func newTransactor(db *sqlx.DB) *transactor {
	return &transactor{db: db}
}

// WithinTx runs fn inside a transaction, committing on success and rolling
// back on error or panic. Panics are rethrown.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) (err error) {
	tx, err := t.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx failed: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		if cerr := tx.Commit(); cerr != nil {
			err = fmt.Errorf("commit tx failed: %w", cerr)
		}
	}()

	return fn(ctx, tx)
}
