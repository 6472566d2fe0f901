package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"stdsdb/internal/domain"
)

// ExportCSV writes every row, id excluded, with a header of column names.
func (t *Table) ExportCSV(ctx context.Context, path string) error {
	data, err := t.RenderCSV(ctx)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// ExportJSON writes every row, id excluded, as a pretty-printed array.
func (t *Table) ExportJSON(ctx context.Context, path string) error {
	data, err := t.RenderJSON(ctx)
	if err != nil {
		return err
	}
	return writeFile(path, data)
}

// RenderCSV renders the export in memory.
func (t *Table) RenderCSV(ctx context.Context) ([]byte, error) {
	rows, err := t.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	names := t.schema.ColumnNames()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(names); err != nil {
		return nil, err
	}
	line := make([]string, len(names))
	for _, r := range rows {
		for i, name := range names {
			line[i] = FormatCell(r[name])
		}
		if err := w.Write(line); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("render csv %s: %w", t.schema.Name, err)
	}
	return buf.Bytes(), nil
}

// RenderJSON renders the export in memory.
func (t *Table) RenderJSON(ctx context.Context) ([]byte, error) {
	rows, err := t.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	names := t.schema.ColumnNames()
	out := make([]domain.OrderedRecord, len(rows))
	for i, r := range rows {
		delete(r, "id")
		out[i] = domain.NewOrderedRecord(names, r)
	}
	data, err := domain.MarshalIndent(out)
	if err != nil {
		return nil, fmt.Errorf("render json %s: %w", t.schema.Name, err)
	}
	return data, nil
}

// FormatCell renders a stored value as CSV text. NULL becomes an empty cell,
// which loads back as the column default.
func FormatCell(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
