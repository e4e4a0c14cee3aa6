package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the stores use.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxManager runs functions inside a transaction, retrying the whole
// transaction on transient conflicts.
type TxManager struct {
	db      DB
	retrier *Retrier
}

// NewTxManager creates a new TxManager.
func NewTxManager(db DB, retrier *Retrier) *TxManager {
	return &TxManager{db: db, retrier: retrier}
}

// WithTx runs fn in a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise.
func (m *TxManager) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return m.retrier.Retry(ctx, func() error {
		tx, err := m.db.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin: %w", err)
		}

		if err := fn(tx); err != nil {
			_ = tx.Rollback(ctx)
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit: %w", err)
		}
		return nil
	})
}
