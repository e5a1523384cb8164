package repositories

import (
	"context"
	"database/sql"
)

// SQLExecutor abstracts *sql.DB and *sql.Tx so repository methods run either
// standalone or inside a caller-managed transaction.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// checkAffectedRows maps a zero-row update/delete to the given not-found
// sentinel.
func checkAffectedRows(result sql.Result, notFoundErr error) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return notFoundErr
	}
	return nil
}
