package record

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Session is the explicit store handle passed to every persistence
// operation. There is no ambient global state: whoever owns a Session owns
// the connection it wraps.
type Session struct {
	db *sqlx.DB
}

// NewSession wraps an open sqlx handle.
func NewSession(db *sqlx.DB) *Session {
	return &Session{db: db}
}

// DB exposes the underlying handle for callers that manage their own SQL.
func (s *Session) DB() *sqlx.DB { return s.db }

// Transact runs fn inside one begin/commit-or-rollback unit of work. Any
// error from fn rolls the unit back and is returned to the caller.
func (s *Session) Transact(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// NextID draws the next value from the table's monotonically increasing
// sequence row, creating the row on first use. Must run inside the same
// unit of work as the insert consuming the key.
func NextID(ctx context.Context, tx *sqlx.Tx, table string) (int64, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE sequence SET last_value = last_value + 1 WHERE name = ?", table)
	if err != nil {
		return 0, fmt.Errorf("advancing sequence for %s: %w", table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("advancing sequence for %s: %w", table, err)
	}
	if n == 0 {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sequence (name, last_value) VALUES (?, 1)", table); err != nil {
			return 0, fmt.Errorf("creating sequence for %s: %w", table, err)
		}
	}
	var id int64
	if err := tx.QueryRowxContext(ctx,
		"SELECT last_value FROM sequence WHERE name = ?", table).Scan(&id); err != nil {
		return 0, fmt.Errorf("reading sequence for %s: %w", table, err)
	}
	return id, nil
}
