package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnknownTable is returned when a table name is not part of the catalog.
var ErrUnknownTable = errors.New("unknown table")

// Registry is the ordered set of table handles. Order is load order: tables
// without weak references first. It is the single entry point for resolving a
// table name that comes from data rather than code.
type Registry struct {
	db     *DB
	order  []*Table
	byName map[string]*Table
}

// NewRegistry builds a Table for every schema, keeping the given order.
func NewRegistry(db *DB, schemas []Schema) (*Registry, error) {
	r := &Registry{db: db, byName: make(map[string]*Table, len(schemas))}
	for _, s := range schemas {
		if _, dup := r.byName[s.Name]; dup {
			return nil, fmt.Errorf("table %s registered twice", s.Name)
		}
		t, err := NewTable(db, s)
		if err != nil {
			return nil, err
		}
		r.order = append(r.order, t)
		r.byName[s.Name] = t
	}
	return r, nil
}

// DB returns the store the registry's tables live in.
func (r *Registry) DB() *DB { return r.db }

// Tables returns the handles in load order.
func (r *Registry) Tables() []*Table {
	out := make([]*Table, len(r.order))
	copy(out, r.order)
	return out
}

// Names returns the table names in load order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, t := range r.order {
		names[i] = t.Name()
	}
	return names
}

// Table returns the handle for a registered table name.
func (r *Registry) Table(name string) (*Table, error) {
	t, ok := r.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTable, name)
	}
	return t, nil
}

// Handle returns the handle for name after checking that the table is both
// registered and materialized in the store.
func (r *Registry) Handle(ctx context.Context, name string) (*Table, error) {
	t, err := r.Table(name)
	if err != nil {
		return nil, err
	}
	exists, err := r.db.TableExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: %q not created", ErrUnknownTable, name)
	}
	return t, nil
}

// CreateAll materializes every registered table.
func (r *Registry) CreateAll(ctx context.Context) error {
	for _, t := range r.order {
		if err := t.CreateSchema(ctx); err != nil {
			return err
		}
	}
	return nil
}

// DropAll removes every registered table, dependents first.
func (r *Registry) DropAll(ctx context.Context) error {
	for i := len(r.order) - 1; i >= 0; i-- {
		if err := r.order[i].DropSchema(ctx); err != nil {
			return err
		}
	}
	return nil
}
