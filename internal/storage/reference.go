package storage

import (
	"context"
	"database/sql"
	"fmt"

	"stdsdb/internal/dbclient"
	"stdsdb/internal/domain"
)

// IsReferenced reports whether table holds a row whose column equals value.
// An absent reference (any component empty) is vacuously satisfied; a table
// that does not exist satisfies nothing.
func (db *DB) IsReferenced(ctx context.Context, table, column string, value any) (bool, error) {
	return isReferenced(ctx, db.conn, db.dialect, table, column, value)
}

func isReferenced(ctx context.Context, q dbclient.Queryer, d dbclient.Dialect, table, column string, value any) (bool, error) {
	if table == "" || column == "" || domain.IsFalsy(value) {
		return true, nil
	}
	if !dbclient.ValidIdentifier(table) {
		return false, nil
	}
	if !dbclient.ValidIdentifier(column) {
		return false, fmt.Errorf("invalid reference column %q", column)
	}
	exists, err := dbclient.TableExists(ctx, q, d, table)
	if err != nil || !exists {
		return false, err
	}

	query := fmt.Sprintf("SELECT id FROM %s WHERE %s = %s LIMIT 1",
		d.Quote(table), d.Quote(column), d.Placeholder(1))
	var id any
	err = q.QueryRowContext(ctx, query, value).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup %s.%s: %w", table, column, err)
	}
	return true, nil
}
