package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"stdsdb/internal/domain"
)

// SchemaInfo describes the tables currently materialized in the store.
type SchemaInfo struct {
	Tables []TableInfo `json:"tables"`
}

// TableInfo describes a table.
type TableInfo struct {
	Name    string       `json:"name"`
	Columns []ColumnInfo `json:"columns"`
}

// ColumnInfo describes a column.
type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Queryer is satisfied by both *sql.DB and *sql.Tx, so introspection and
// existence checks can run inside an open insert transaction.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Dialect hides the SQL differences between the supported engines.
type Dialect interface {
	Driver() domain.DatabaseDriver

	// Placeholder returns the bind marker for the n-th (1-based) parameter.
	Placeholder(n int) string

	// Quote quotes an identifier. Callers must validate it first.
	Quote(ident string) string

	// IDColumn is the auto-assigned integer row id column definition.
	IDColumn() string

	// ColumnType maps a declared column kind to the engine's type name.
	ColumnType(kind domain.ColumnKind) string

	// TableExistsQuery selects the table name given one bound table name.
	TableExistsQuery() string

	// ListTablesQuery lists user tables ordered by name.
	ListTablesQuery() string
}

// Leading digits are allowed (e.g. 0_to_10_percent_oa) as long as the name is
// not purely numeric; callers always quote.
var identPattern = regexp.MustCompile(`^[0-9]*[A-Za-z_][A-Za-z0-9_]*$`)

// ValidIdentifier reports whether s is safe to splice into SQL as a table or
// column name.
func ValidIdentifier(s string) bool {
	return identPattern.MatchString(s)
}

// Open connects to the database described by conn and returns the handle with
// the matching dialect.
func Open(conn domain.DatabaseConnection) (*sql.DB, Dialect, error) {
	switch conn.Driver {
	case domain.DatabaseDriverSQLite, "":
		return openSQLite(conn)
	case domain.DatabaseDriverPostgres:
		db, err := openSQL("postgres", buildPostgresDSN(conn))
		return db, postgresDialect{}, err
	case domain.DatabaseDriverMySQL:
		db, err := openSQL("mysql", buildMySQLDSN(conn))
		return db, mysqlDialect{}, err
	default:
		return nil, nil, fmt.Errorf("unsupported driver: %s", conn.Driver)
	}
}

// DialectFor returns the dialect of a driver without opening a connection.
func DialectFor(driver domain.DatabaseDriver) (Dialect, error) {
	switch driver {
	case domain.DatabaseDriverSQLite, "":
		return sqliteDialect{}, nil
	case domain.DatabaseDriverPostgres:
		return postgresDialect{}, nil
	case domain.DatabaseDriverMySQL:
		return mysqlDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}
}

func openSQL(driverName, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driverName, err)
	}
	// One writer at a time; the pipeline never issues concurrent statements.
	db.SetMaxOpenConns(1)
	return db, nil
}
