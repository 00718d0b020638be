// Package repository implements the data-access layer: one repo per
// entity, raw SQL over sqlx, every write wrapped in its own transaction.
// Uniqueness violations from the storage engine are converted to
// ErrConflict here so handlers never see driver errors.
package repository

import (
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound means the requested entity or key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a uniqueness constraint (power_name, username,
	// or the character_power pair) was violated. The attempted write is
	// rolled back before this is returned.
	ErrConflict = errors.New("conflict")
)

// isUniqueViolation reports whether err is a SQLite unique or primary
// key constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
		sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
}

// inTx runs fn inside a transaction, rolling back on any error.
func inTx(db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.Beginx()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Pagination defaults for collection reads.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// clampLimit normalizes offset/limit to their documented defaults.
func clampLimit(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return offset, limit
}
