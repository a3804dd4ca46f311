package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/edusuite/colegio/internal/academics"
)

// Store implements academics.Store over PostgreSQL. Each logical operation
// that touches more than one row runs inside a single transaction.
type Store struct {
	db *sql.DB
}

var _ academics.Store = (*Store)(nil)

func NewStore(database *sql.DB) *Store {
	return &Store{db: database}
}

// DB exposes the underlying handle for health checks.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

const pgUniqueViolation = "23505"

// mapErr translates driver errors into the engine's taxonomy: missing rows
// to ErrNotFound, unique violations to a validation error with a readable
// reason.
func mapErr(err error, notFoundMsg, conflictMsg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", notFoundMsg, academics.ErrNotFound)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation && conflictMsg != "" {
		return &academics.ValidationError{Reason: conflictMsg}
	}
	return err
}
