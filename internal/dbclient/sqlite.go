package dbclient

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"stdsdb/internal/domain"

	_ "modernc.org/sqlite"
)

// openSQLite opens (or creates) the SQLite file at conn.Path.
func openSQLite(conn domain.DatabaseConnection) (*sql.DB, Dialect, error) {
	path := conn.Path
	if path == "" {
		path = "openstudio_standards.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create db directory: %w", err)
		}
	}
	db, err := openSQL("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, nil, err
	}
	return db, sqliteDialect{}, nil
}

type sqliteDialect struct{}

func (sqliteDialect) Driver() domain.DatabaseDriver { return domain.DatabaseDriverSQLite }

func (sqliteDialect) Placeholder(int) string { return "?" }

func (sqliteDialect) Quote(ident string) string { return `"` + ident + `"` }

func (sqliteDialect) IDColumn() string { return "id INTEGER PRIMARY KEY AUTOINCREMENT" }

func (sqliteDialect) ColumnType(kind domain.ColumnKind) string {
	switch kind {
	case domain.KindNumeric:
		return "NUMERIC"
	case domain.KindInteger:
		return "INTEGER"
	default:
		return "TEXT"
	}
}

func (sqliteDialect) TableExistsQuery() string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`
}

func (sqliteDialect) ListTablesQuery() string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
}
