package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"stdsdb/internal/dbclient"
	"stdsdb/internal/domain"
)

// Table is the generic record store for one declared schema. It holds no
// mutable state; everything lives in the backing store.
type Table struct {
	db     *DB
	schema Schema

	createSQL string
	insertSQL string
	selectSQL string
}

// NewTable builds the statements for s in the dialect of db.
func NewTable(db *DB, s Schema) (*Table, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	d := db.dialect

	defs := []string{d.IDColumn()}
	cols := make([]string, len(s.Columns))
	marks := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		defs = append(defs, d.Quote(c.Name)+" "+d.ColumnType(c.Kind))
		cols[i] = d.Quote(c.Name)
		marks[i] = d.Placeholder(i + 1)
	}
	name := d.Quote(s.Name)

	return &Table{
		db:     db,
		schema: s,
		createSQL: fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
			name, strings.Join(defs, ",\n\t")),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			name, strings.Join(cols, ", "), strings.Join(marks, ", ")),
		selectSQL: fmt.Sprintf("SELECT id, %s FROM %s", strings.Join(cols, ", "), name),
	}, nil
}

// Name returns the table name.
func (t *Table) Name() string { return t.schema.Name }

// Schema returns the declaration the table was built from.
func (t *Table) Schema() Schema { return t.schema }

// CreateSchema materializes the table. Repeated calls are no-ops.
func (t *Table) CreateSchema(ctx context.Context) error {
	if _, err := t.db.conn.ExecContext(ctx, t.createSQL); err != nil {
		return fmt.Errorf("create %s: %w", t.schema.Name, err)
	}
	return nil
}

// DropSchema removes the table and its rows, used before a full reload.
func (t *Table) DropSchema(ctx context.Context) error {
	if _, err := t.db.conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+t.db.dialect.Quote(t.schema.Name)); err != nil {
		return fmt.Errorf("drop %s: %w", t.schema.Name, err)
	}
	return nil
}

// Insert validates rec, resolves every declared weak reference against the
// current store state, then inserts and commits. A type mismatch returns
// (false, *ValidationError); an unresolved reference returns (false, nil).
// Neither issues the insert statement.
func (t *Table) Insert(ctx context.Context, rec domain.Record) (bool, error) {
	if err := Validate(t.schema, rec); err != nil {
		return false, err
	}

	tx, err := t.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ok, err := t.referencesResolve(ctx, tx, rec)
	if err != nil || !ok {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, t.insertSQL, t.Preprocess(rec)...); err != nil {
		return false, fmt.Errorf("insert %s: %w", t.schema.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit %s: %w", t.schema.Name, err)
	}
	return true, nil
}

// Update applies partial to the row with the given id. Keys outside the
// record template are ignored; the merged row is validated and its references
// resolved exactly as on insert. It returns false when no row has that id or
// a reference does not resolve.
func (t *Table) Update(ctx context.Context, id int64, partial domain.Record) (bool, error) {
	merged, found, err := t.FetchByID(ctx, id)
	if err != nil || !found {
		return false, err
	}

	var changed []Column
	for _, c := range t.schema.Columns {
		if v, ok := partial[c.Name]; ok {
			merged[c.Name] = v
			changed = append(changed, c)
		}
	}
	if len(changed) == 0 {
		return true, nil
	}
	if err := Validate(t.schema, merged); err != nil {
		return false, err
	}

	tx, err := t.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	ok, err := t.referencesResolve(ctx, tx, merged)
	if err != nil || !ok {
		return false, err
	}

	d := t.db.dialect
	sets := make([]string, len(changed))
	args := make([]any, 0, len(changed)+1)
	for i, c := range changed {
		sets[i] = d.Quote(c.Name) + " = " + d.Placeholder(i+1)
		args = append(args, columnValue(c, merged[c.Name]))
	}
	args = append(args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s",
		d.Quote(t.schema.Name), strings.Join(sets, ", "), d.Placeholder(len(changed)+1))

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return false, fmt.Errorf("update %s: %w", t.schema.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit %s: %w", t.schema.Name, err)
	}
	return true, nil
}

func (t *Table) referencesResolve(ctx context.Context, q dbclient.Queryer, rec domain.Record) (bool, error) {
	for _, ref := range t.schema.References {
		table, column, value := ref.Resolve(rec)
		if c, ok := t.schema.Column(ref.ValueField); ok {
			value = columnValue(c, value)
		}
		ok, err := isReferenced(ctx, q, t.db.dialect, table, column, value)
		if err != nil {
			return false, fmt.Errorf("%s reference %s.%s: %w", t.schema.Name, table, column, err)
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// Preprocess turns rec into insert arguments in column declaration order.
// Missing, nil and empty-string fields take the column default; numeric
// literals given as text are bound as numbers.
func (t *Table) Preprocess(rec domain.Record) []any {
	args := make([]any, len(t.schema.Columns))
	for i, c := range t.schema.Columns {
		args[i] = columnValue(c, rec[c.Name])
	}
	return args
}

func columnValue(c Column, v any) any {
	switch val := v.(type) {
	case nil:
		return c.Default
	case string:
		if val == "" {
			return c.Default
		}
	}
	if c.Kind.IsNumeric() {
		return toNumber(v)
	}
	return v
}

// toNumber keeps integral values as int64 so they export without a
// fractional part.
func toNumber(v any) any {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64, float64:
		return n
	case float32:
		return float64(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return v
}

// ── Reads ──────────────────────────────────────────────────

// FetchAll returns every row keyed by column name, including id, in id order.
func (t *Table) FetchAll(ctx context.Context) ([]domain.Record, error) {
	return t.query(ctx, t.selectSQL+" ORDER BY id")
}

// FetchWhere returns the rows whose columns equal every value in where, in id
// order. Column names are checked against the declaration.
func (t *Table) FetchWhere(ctx context.Context, where map[string]any) ([]domain.Record, error) {
	if len(where) == 0 {
		return t.FetchAll(ctx)
	}
	keys := make([]string, 0, len(where))
	for k := range where {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	d := t.db.dialect
	conds := make([]string, len(keys))
	args := make([]any, len(keys))
	for i, k := range keys {
		v := where[k]
		if k != "id" {
			c, ok := t.schema.Column(k)
			if !ok {
				return nil, fmt.Errorf("%s: unknown column %q", t.schema.Name, k)
			}
			v = columnValue(c, v)
		}
		conds[i] = d.Quote(k) + " = " + d.Placeholder(i+1)
		args[i] = v
	}
	return t.query(ctx, t.selectSQL+" WHERE "+strings.Join(conds, " AND ")+" ORDER BY id", args...)
}

// FetchByID returns the row with the given id.
func (t *Table) FetchByID(ctx context.Context, id int64) (domain.Record, bool, error) {
	rows, err := t.FetchWhere(ctx, map[string]any{"id": id})
	if err != nil || len(rows) == 0 {
		return nil, false, err
	}
	return rows[0], true, nil
}

// FetchByKey returns the rows whose natural key equals value.
func (t *Table) FetchByKey(ctx context.Context, value any) ([]domain.Record, error) {
	if t.schema.Key == "" {
		return nil, fmt.Errorf("%s: no natural key declared", t.schema.Name)
	}
	return t.FetchWhere(ctx, map[string]any{t.schema.Key: value})
}

// Count returns the number of stored rows.
func (t *Table) Count(ctx context.Context) (int, error) {
	var n int
	err := t.db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.db.dialect.Quote(t.schema.Name)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t.schema.Name, err)
	}
	return n, nil
}

func (t *Table) query(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	rows, err := t.db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", t.schema.Name, err)
	}
	defer rows.Close()

	n := len(t.schema.Columns) + 1
	var out []domain.Record
	for rows.Next() {
		values := make([]any, n)
		ptrs := make([]any, n)
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.schema.Name, err)
		}
		rec := make(domain.Record, n)
		rec["id"] = dbclient.NormalizeValue(domain.KindInteger, values[0])
		for i, c := range t.schema.Columns {
			rec[c.Name] = dbclient.NormalizeValue(c.Kind, values[i+1])
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
