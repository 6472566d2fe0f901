package sources

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"

	"stdsdb/internal/domain"
	"stdsdb/internal/etl"
)

// ── CSV File Source ─────────────────────────────────────────
// Reads seed records from a CSV file with a header row. Cells stay text;
// the table validator decides what parses as a number.

type csvFileSource struct{}

func init() { etl.RegisterSource(&csvFileSource{}) }

func (s *csvFileSource) Spec() etl.SourceSpec {
	return etl.SourceSpec{Type: "csv_file", Label: "CSV File", Extension: "csv"}
}

func (s *csvFileSource) Discover(ctx context.Context, cfg etl.SourceConfig) (*etl.Schema, error) {
	headers, _, err := readCSVFile(cfg)
	if err != nil {
		return nil, err
	}

	schema := &etl.Schema{Fields: make([]etl.Field, len(headers))}
	for i, h := range headers {
		schema.Fields[i] = etl.Field{Name: h}
	}
	return schema, nil
}

func (s *csvFileSource) Read(ctx context.Context, cfg etl.SourceConfig) (<-chan etl.Record, <-chan error) {
	out := make(chan etl.Record, 100)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		headers, rows, err := readCSVFile(cfg)
		if err != nil {
			errCh <- err
			return
		}

		for _, row := range rows {
			data := make(domain.Record, len(headers))
			for j, h := range headers {
				if j < len(row) {
					data[h] = row[j]
				}
			}
			select {
			case out <- etl.Record{Data: data}:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
	}()

	return out, errCh
}

func readCSVFile(cfg etl.SourceConfig) ([]string, [][]string, error) {
	filePath, _ := cfg["filePath"].(string)
	if filePath == "" {
		return nil, nil, fmt.Errorf("filePath is required")
	}

	f, err := os.Open(filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	if delim, ok := cfg["delimiter"].(string); ok && len(delim) > 0 {
		reader.Comma = rune(delim[0])
	}
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv %s: %w", filePath, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("empty csv file: %s", filePath)
	}
	return records[0], records[1:], nil
}
