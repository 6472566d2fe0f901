package storage

import (
	"fmt"

	"stdsdb/internal/domain"
)

// ValidationError reports a field whose value does not match its declared kind.
type ValidationError struct {
	Table    string
	Field    string
	Expected domain.ColumnKind
	Value    any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s requires to be %s, instead got %v (%T)",
		e.Table, e.Field, e.Expected, e.Value, e.Value)
}

// Validate checks rec against the column kinds of s. Fields that are absent
// or falsy count as not provided and are skipped; only a present value of the
// wrong type fails.
func Validate(s Schema, rec domain.Record) error {
	for _, c := range s.Columns {
		v, ok := rec[c.Name]
		if !ok || domain.IsFalsy(v) {
			continue
		}
		if !kindAccepts(c.Kind, v) {
			return &ValidationError{Table: s.Name, Field: c.Name, Expected: c.Kind, Value: v}
		}
	}
	return nil
}

func kindAccepts(kind domain.ColumnKind, v any) bool {
	if kind.IsNumeric() {
		if _, isBool := v.(bool); isBool {
			return false
		}
		_, ok := domain.ToFloat(v)
		return ok
	}
	_, ok := v.(string)
	return ok
}
