package store

import (
	"context"
	"database/sql"
	"fmt"
)

// Querier is satisfied by both *sql.DB and *sql.Tx so every repository
// method works inside and outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PersistError is a transactional write failure. It is caught at the
// per-variant boundary and never aborts a run.
type PersistError struct {
	Op  string
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistError) Unwrap() error {
	return e.Err
}

type queries struct {
	q Querier
}

// Store exposes the local commerce platform schema.
type Store struct {
	queries
	db *sql.DB
}

// Tx is a Store view bound to one open transaction.
type Tx struct {
	queries
}

func New(db *sql.DB) *Store {
	return &Store{queries: queries{q: db}, db: db}
}

// WithinTx runs fn inside one transaction; an error from fn rolls back
// every write.
func (s *Store) WithinTx(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &PersistError{Op: "begin", Err: err}
	}

	if err := fn(&Tx{queries{q: tx}}); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return &PersistError{Op: "commit", Err: err}
	}

	return nil
}
