package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// ErrSchemaMissing means the connection works but `advisor migrate` has not
// created the history tables yet.
var ErrSchemaMissing = errors.New("history schema missing, run advisor migrate")

const historyTable = "recommendations"

func (db *DB) tableExists(ctx context.Context, table string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = current_schema()
			AND table_name = $1
		)`
	if err := db.QueryRowContext(ctx, query, table).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to look up table %s: %w", table, err)
	}
	return exists, nil
}

// CheckHistory pings the pool and confirms the history table exists.
func (db *DB) CheckHistory(ctx context.Context) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}
	ok, err := db.tableExists(ctx, historyTable)
	if err != nil {
		return err
	}
	if !ok {
		return ErrSchemaMissing
	}
	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique_violation.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
