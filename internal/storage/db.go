package storage

import (
	"context"
	"database/sql"
	"fmt"

	"stdsdb/internal/dbclient"
	"stdsdb/internal/domain"
)

// DB wraps the reference database connection and its SQL dialect.
type DB struct {
	conn    *sql.DB
	dialect dbclient.Dialect
}

// Open connects to the configured database and creates the bookkeeping tables.
func Open(ctx context.Context, conn domain.DatabaseConnection) (*DB, error) {
	sqlDB, dialect, err := dbclient.Open(conn)
	if err != nil {
		return nil, err
	}
	db := &DB{conn: sqlDB, dialect: dialect}
	if err := db.migrate(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn returns the underlying database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Dialect returns the SQL dialect of the connected engine.
func (db *DB) Dialect() dbclient.Dialect {
	return db.dialect
}

// TableExists reports whether table is materialized in the store.
func (db *DB) TableExists(ctx context.Context, table string) (bool, error) {
	return dbclient.TableExists(ctx, db.conn, db.dialect, table)
}

// Introspect lists the materialized tables with their columns.
func (db *DB) Introspect(ctx context.Context) (*dbclient.SchemaInfo, error) {
	return dbclient.Introspect(ctx, db.conn, db.dialect)
}

func (db *DB) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS pipeline_runs (
			id VARCHAR(36) PRIMARY KEY,
			kind TEXT NOT NULL,
			run_trigger TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			records_read INTEGER NOT NULL DEFAULT 0,
			records_written INTEGER NOT NULL DEFAULT 0,
			records_rejected INTEGER NOT NULL DEFAULT 0,
			files_written INTEGER NOT NULL DEFAULT 0,
			error TEXT
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", m[:40], err)
		}
	}
	return nil
}
