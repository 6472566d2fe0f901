package etl

import (
	"sort"
	"strconv"
	"strings"

	"stdsdb/internal/domain"
)

// ── Transformer ────────────────────────────────────────────
// Transformers reshape stored rows into the layout of the generated data
// files. They are composable: each takes a record and returns a (possibly
// modified) record and whether to keep it.

// Transformer processes a single ordered record.
type Transformer interface {
	Transform(domain.OrderedRecord) (domain.OrderedRecord, bool)
}

// TransformerFunc adapts a plain function to the Transformer interface.
type TransformerFunc func(domain.OrderedRecord) (domain.OrderedRecord, bool)

func (f TransformerFunc) Transform(r domain.OrderedRecord) (domain.OrderedRecord, bool) { return f(r) }

// ── Built-in Transforms ────────────────────────────────────

// DropFieldsTransform removes bookkeeping fields.
type DropFieldsTransform struct {
	Fields []string
}

func (t *DropFieldsTransform) Transform(r domain.OrderedRecord) (domain.OrderedRecord, bool) {
	for _, f := range t.Fields {
		r.Delete(f)
	}
	return r, true
}

// ScheduleNameTransform suffixes schedule rows with their category, so one
// schedule set yields distinct lighting, occupancy and equipment names.
type ScheduleNameTransform struct{}

func (ScheduleNameTransform) Transform(r domain.OrderedRecord) (domain.OrderedRecord, bool) {
	for _, k := range []string{"name", "category", "day_types", "hr_1"} {
		if _, ok := r.Values[k]; !ok {
			return r, true
		}
	}
	name, nameOK := r.Values["name"].(string)
	category, catOK := r.Values["category"].(string)
	if nameOK && catOK {
		r.Values["name"] = name + "_" + strings.ToLower(category)
	}
	return r, true
}

// DateTransform rewrites M/D/YYYY values of *_date fields as
// YYYY-MM-DDT00:00:00+00:00.
type DateTransform struct{}

func (DateTransform) Transform(r domain.OrderedRecord) (domain.OrderedRecord, bool) {
	for _, k := range r.Keys {
		if !strings.Contains(k, "_date") {
			continue
		}
		if s, ok := r.Values[k].(string); ok {
			r.Values[k] = FormatDate(s)
		}
	}
	return r, true
}

// FormatDate converts M/D/YYYY to an ISO date at midnight UTC. Values that
// are not slash-separated dates are returned unchanged.
func FormatDate(s string) string {
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return s
	}
	for i, p := range parts {
		if len(p) < 2 {
			parts[i] = "0" + p
		}
	}
	return parts[2] + "-" + parts[0] + "-" + parts[1] + "T00:00:00+00:00"
}

// BoolLiteralTransform turns the literal strings TRUE and FALSE into booleans.
type BoolLiteralTransform struct{}

func (BoolLiteralTransform) Transform(r domain.OrderedRecord) (domain.OrderedRecord, bool) {
	for _, k := range r.Keys {
		switch r.Values[k] {
		case "TRUE":
			r.Values[k] = true
		case "FALSE":
			r.Values[k] = false
		}
	}
	return r, true
}

// CollapseTransform gathers a numbered column family (material_1..6,
// hr_1..24) into one array field. Nil members are skipped; the numbered
// columns are removed only when at least one value was collected.
type CollapseTransform struct {
	Prefix string
	Count  int
	Into   string
}

func (t *CollapseTransform) Transform(r domain.OrderedRecord) (domain.OrderedRecord, bool) {
	var values []any
	for _, k := range r.Keys {
		rest, ok := strings.CutPrefix(k, t.Prefix)
		if !ok {
			continue
		}
		if _, err := strconv.Atoi(rest); err != nil {
			continue
		}
		if v := r.Values[k]; v != nil {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return r, true
	}
	for i := 1; i <= t.Count; i++ {
		r.Delete(t.Prefix + strconv.Itoa(i))
	}
	r.Set(t.Into, values)
	return r, true
}

// ── Batch Transforms ──────────────────────────────────────

// SortByID orders rows by their numeric id, stable for equal or missing ids.
func SortByID(rows []domain.Record) []domain.Record {
	sorted := make([]domain.Record, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, aOK := domain.ToFloat(sorted[i]["id"])
		b, bOK := domain.ToFloat(sorted[j]["id"])
		if !aOK || !bOK {
			return aOK && !bOK
		}
		return a < b
	})
	return sorted
}

// ── Helpers ────────────────────────────────────────────────

// ApplyTransformers runs a chain of transformers on a record.
func ApplyTransformers(r domain.OrderedRecord, ts []Transformer) (domain.OrderedRecord, bool) {
	for _, t := range ts {
		var keep bool
		r, keep = t.Transform(r)
		if !keep {
			return r, false
		}
	}
	return r, true
}

// DataFileTransforms is the chain applied to stored rows before they are
// published as data files.
func DataFileTransforms() []Transformer {
	return []Transformer{
		&DropFieldsTransform{Fields: []string{"template", "id", "annotation"}},
		ScheduleNameTransform{},
		DateTransform{},
		BoolLiteralTransform{},
		&CollapseTransform{Prefix: "material_", Count: 6, Into: "materials"},
		&CollapseTransform{Prefix: "hr_", Count: 24, Into: "values"},
	}
}

// ProcessRecords sorts rows by id and reshapes each one for publication.
// columns gives the key order of the output objects.
func ProcessRecords(rows []domain.Record, columns []string) []domain.OrderedRecord {
	ts := DataFileTransforms()
	out := make([]domain.OrderedRecord, 0, len(rows))
	for _, row := range SortByID(rows) {
		keys := make([]string, 0, len(columns)+1)
		if _, ok := row["id"]; ok {
			keys = append(keys, "id")
		}
		for _, c := range columns {
			if _, ok := row[c]; ok {
				keys = append(keys, c)
			}
		}
		rec, keep := ApplyTransformers(domain.NewOrderedRecord(keys, row.Clone()), ts)
		if keep {
			out = append(out, rec)
		}
	}
	return out
}
