package storage

import (
	"fmt"

	"stdsdb/internal/dbclient"
	"stdsdb/internal/domain"
)

// Column declares one table column. Default replaces a missing or empty value
// on insert; nil stores NULL.
type Column struct {
	Name    string
	Kind    domain.ColumnKind
	Default any
}

// Reference is a weak foreign key: a (table, column, value) triple resolved
// against the store at insert time instead of by the engine. The referenced
// table is either fixed (Table) or read from a field of the inserted record
// (TableField), which is how a space type points at whichever level-3 table
// its code version uses.
type Reference struct {
	Table      string
	TableField string
	Column     string
	ValueField string
}

// Resolve returns the concrete triple for rec.
func (r Reference) Resolve(rec domain.Record) (table, column string, value any) {
	table = r.Table
	if r.TableField != "" {
		table = rec.String(r.TableField)
	}
	return table, r.Column, rec[r.ValueField]
}

// Schema is the declarative description of one table.
type Schema struct {
	Name       string
	Columns    []Column
	Key        string // natural key column, "" when rows are only addressed by id
	References []Reference
}

// Column returns the declaration for name.
func (s Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in declaration order, id excluded.
func (s Schema) ColumnNames() []string {
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	return names
}

// RecordTemplate returns column -> default, the authoritative key-set of a record.
func (s Schema) RecordTemplate() domain.Record {
	tmpl := make(domain.Record, len(s.Columns))
	for _, c := range s.Columns {
		tmpl[c.Name] = c.Default
	}
	return tmpl
}

// HasReferences reports whether the table declares any weak reference.
func (s Schema) HasReferences() bool {
	return len(s.References) > 0
}

func (s Schema) check() error {
	if !dbclient.ValidIdentifier(s.Name) {
		return fmt.Errorf("invalid table name %q", s.Name)
	}
	if len(s.Columns) == 0 {
		return fmt.Errorf("table %s: no columns declared", s.Name)
	}
	seen := make(map[string]bool, len(s.Columns))
	for _, c := range s.Columns {
		if !dbclient.ValidIdentifier(c.Name) || c.Name == "id" {
			return fmt.Errorf("table %s: invalid column name %q", s.Name, c.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("table %s: duplicate column %q", s.Name, c.Name)
		}
		seen[c.Name] = true
	}
	if s.Key != "" && !seen[s.Key] {
		return fmt.Errorf("table %s: key column %q not declared", s.Name, s.Key)
	}
	for _, r := range s.References {
		if r.Table == "" && r.TableField == "" {
			return fmt.Errorf("table %s: reference without target table", s.Name)
		}
		if r.TableField != "" && !seen[r.TableField] {
			return fmt.Errorf("table %s: reference table field %q not declared", s.Name, r.TableField)
		}
		if !seen[r.ValueField] {
			return fmt.Errorf("table %s: reference value field %q not declared", s.Name, r.ValueField)
		}
		if !dbclient.ValidIdentifier(r.Column) {
			return fmt.Errorf("table %s: invalid reference column %q", s.Name, r.Column)
		}
	}
	return nil
}
