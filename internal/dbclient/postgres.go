package dbclient

import (
	"fmt"
	"strconv"

	"stdsdb/internal/domain"

	_ "github.com/lib/pq"
)

// buildPostgresDSN constructs a Postgres connection string from a DatabaseConnection.
func buildPostgresDSN(conn domain.DatabaseConnection) string {
	port := conn.Port
	if port == 0 {
		port = 5432
	}
	sslMode := conn.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		conn.Host, port, conn.Username, conn.Password, conn.Database, sslMode,
	)
}

type postgresDialect struct{}

func (postgresDialect) Driver() domain.DatabaseDriver { return domain.DatabaseDriverPostgres }

func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (postgresDialect) Quote(ident string) string { return `"` + ident + `"` }

func (postgresDialect) IDColumn() string { return "id SERIAL PRIMARY KEY" }

func (postgresDialect) ColumnType(kind domain.ColumnKind) string {
	switch kind {
	case domain.KindNumeric:
		return "DOUBLE PRECISION"
	case domain.KindInteger:
		return "BIGINT"
	default:
		return "TEXT"
	}
}

func (postgresDialect) TableExistsQuery() string {
	return `SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name = $1`
}

func (postgresDialect) ListTablesQuery() string {
	return `SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() ORDER BY table_name`
}
