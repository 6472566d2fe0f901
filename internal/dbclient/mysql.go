package dbclient

import (
	"fmt"

	"stdsdb/internal/domain"

	_ "github.com/go-sql-driver/mysql"
)

// buildMySQLDSN constructs a MySQL DSN from a DatabaseConnection.
func buildMySQLDSN(conn domain.DatabaseConnection) string {
	port := conn.Port
	if port == 0 {
		port = 3306
	}
	// Format: user:password@tcp(host:port)/dbname?parseTime=true
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4",
		conn.Username, conn.Password, conn.Host, port, conn.Database,
	)
	if conn.SSLMode == "require" {
		dsn += "&tls=true"
	}
	return dsn
}

type mysqlDialect struct{}

func (mysqlDialect) Driver() domain.DatabaseDriver { return domain.DatabaseDriverMySQL }

func (mysqlDialect) Placeholder(int) string { return "?" }

func (mysqlDialect) Quote(ident string) string { return "`" + ident + "`" }

func (mysqlDialect) IDColumn() string { return "id INT AUTO_INCREMENT PRIMARY KEY" }

func (mysqlDialect) ColumnType(kind domain.ColumnKind) string {
	switch kind {
	case domain.KindNumeric:
		return "DOUBLE"
	case domain.KindInteger:
		return "BIGINT"
	default:
		return "TEXT"
	}
}

func (mysqlDialect) TableExistsQuery() string {
	return `SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() AND table_name = ?`
}

func (mysqlDialect) ListTablesQuery() string {
	return `SELECT table_name FROM information_schema.tables
		WHERE table_schema = DATABASE() ORDER BY table_name`
}
