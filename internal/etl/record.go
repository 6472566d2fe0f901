package etl

import "stdsdb/internal/domain"

// ── Seed Rows ──────────────────────────────────────────────

// Field is one column header found in a seed file.
type Field struct {
	Name string `json:"name"`
}

// Schema lists the columns a seed file provides, in file order.
type Schema struct {
	Fields []Field `json:"fields"`
}

// FieldNames returns the column names in file order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// Unknown returns the seed columns missing from columns. The table writer
// ignores them, so a load reports them once per file.
func (s *Schema) Unknown(columns []string) []string {
	known := make(map[string]bool, len(columns))
	for _, c := range columns {
		known[c] = true
	}
	var out []string
	for _, f := range s.Fields {
		if f.Name != "id" && !known[f.Name] {
			out = append(out, f.Name)
		}
	}
	return out
}

// Record is one seed row on its way into a table.
type Record struct {
	Data domain.Record `json:"data"`
}
