package dbclient

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stdsdb/internal/domain"
)

// TableExists reports whether table is present in the connected database.
func TableExists(ctx context.Context, q Queryer, d Dialect, table string) (bool, error) {
	var name string
	err := q.QueryRowContext(ctx, d.TableExistsQuery(), table).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check table %s: %w", table, err)
	}
	return true, nil
}

// ListTables returns the user tables, ordered by name.
func ListTables(ctx context.Context, q Queryer, d Dialect) ([]string, error) {
	rows, err := q.QueryContext(ctx, d.ListTablesQuery())
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Introspect lists every table with its columns.
func Introspect(ctx context.Context, q Queryer, d Dialect) (*SchemaInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	tableNames, err := ListTables(ctx, q, d)
	if err != nil {
		return nil, err
	}

	schema := &SchemaInfo{}
	for _, tbl := range tableNames {
		var cols []ColumnInfo
		if d.Driver() == domain.DatabaseDriverSQLite {
			cols, err = sqliteColumns(ctx, q, tbl)
		} else {
			cols, err = infoSchemaColumns(ctx, q, d, tbl)
		}
		if err != nil {
			schema.Tables = append(schema.Tables, TableInfo{Name: tbl})
			continue
		}
		schema.Tables = append(schema.Tables, TableInfo{Name: tbl, Columns: cols})
	}
	return schema, nil
}

// sqliteColumns uses PRAGMA table_info.
func sqliteColumns(ctx context.Context, q Queryer, table string) ([]ColumnInfo, error) {
	if !ValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	rows, err := q.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info('%s')", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols = append(cols, ColumnInfo{Name: name, Type: colType})
	}
	return cols, rows.Err()
}

// infoSchemaColumns works for MySQL and Postgres via INFORMATION_SCHEMA.
func infoSchemaColumns(ctx context.Context, q Queryer, d Dialect, table string) ([]ColumnInfo, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT column_name, data_type FROM information_schema.columns
		 WHERE table_name = `+d.Placeholder(1)+` ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnInfo
	for rows.Next() {
		var ci ColumnInfo
		if err := rows.Scan(&ci.Name, &ci.Type); err != nil {
			return nil, err
		}
		cols = append(cols, ci)
	}
	return cols, rows.Err()
}

// NormalizeValue converts a scanned database value into the plain Go value
// used by records: nil, string, int64 or float64. kind steers how textual
// driver output (MySQL text protocol, Postgres numerics) is interpreted.
func NormalizeValue(kind domain.ColumnKind, v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case []byte:
		return normalizeText(kind, string(val))
	case string:
		return normalizeText(kind, val)
	case int:
		return int64(val)
	case int32:
		return int64(val)
	case float32:
		return float64(val)
	case bool:
		if val {
			return int64(1)
		}
		return int64(0)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return val
	}
}

func normalizeText(kind domain.ColumnKind, s string) any {
	if !kind.IsNumeric() {
		return s
	}
	t := strings.TrimSpace(s)
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}
	return s
}
