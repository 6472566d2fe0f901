package sources

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"stdsdb/internal/domain"
	"stdsdb/internal/etl"
)

// ── JSON File Source ────────────────────────────────────────
// Reads seed records from a JSON array of objects. Numbers are kept as
// json.Number so integer and decimal literals survive unchanged.

type jsonFileSource struct{}

func init() { etl.RegisterSource(&jsonFileSource{}) }

func (s *jsonFileSource) Spec() etl.SourceSpec {
	return etl.SourceSpec{Type: "json_file", Label: "JSON File", Extension: "json"}
}

func (s *jsonFileSource) Discover(ctx context.Context, cfg etl.SourceConfig) (*etl.Schema, error) {
	records, err := readJSONFile(cfg)
	if err != nil {
		return nil, err
	}
	return inferSchema(records), nil
}

func (s *jsonFileSource) Read(ctx context.Context, cfg etl.SourceConfig) (<-chan etl.Record, <-chan error) {
	out := make(chan etl.Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		records, err := readJSONFile(cfg)
		if err != nil {
			errCh <- err
			return
		}
		for _, rec := range records {
			select {
			case out <- rec:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
	}()

	return out, errCh
}

func readJSONFile(cfg etl.SourceConfig) ([]etl.Record, error) {
	filePath, _ := cfg["filePath"].(string)
	if filePath == "" {
		return nil, fmt.Errorf("filePath is required")
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json %s: %w", filePath, err)
	}

	// Navigate to dataPath if specified, e.g. "space_types".
	if dataPath, ok := cfg["dataPath"].(string); ok && dataPath != "" {
		for _, part := range strings.Split(dataPath, ".") {
			m, ok := raw.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("invalid data path: %q not found", part)
			}
			raw = m[part]
		}
	}

	return toRecords(raw)
}

func toRecords(raw any) ([]etl.Record, error) {
	arr, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON array of objects, got %T", raw)
	}
	records := make([]etl.Record, 0, len(arr))
	for i, item := range arr {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("element %d: expected object, got %T", i, item)
		}
		records = append(records, etl.Record{Data: domain.Record(obj)})
	}
	return records, nil
}

// inferSchema collects the union of keys, sorted for a stable result.
func inferSchema(records []etl.Record) *etl.Schema {
	seen := make(map[string]bool)
	for _, r := range records {
		for k := range r.Data {
			seen[k] = true
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)

	schema := &etl.Schema{Fields: make([]etl.Field, len(names))}
	for i, n := range names {
		schema.Fields[i] = etl.Field{Name: n}
	}
	return schema
}
