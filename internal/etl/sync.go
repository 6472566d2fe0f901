package etl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"stdsdb/internal/storage"
)

// ── Engine ─────────────────────────────────────────────────
// Orchestrates seed files → table writer for every catalog table, and the
// reverse dump of every table back to files.

// LoadOptions configures a database build.
type LoadOptions struct {
	SeedDir string
	Format  string // "json" or "csv"; empty prefers json and falls back to csv
	Reset   bool   // drop every table first so a rebuild does not duplicate rows
}

// LoadResult is the outcome of a build.
type LoadResult struct {
	Tables          []WriteResult `json:"tables"`
	MissingSeeds    []string      `json:"missingSeeds,omitempty"`
	RecordsRead     int           `json:"recordsRead"`
	RecordsInserted int           `json:"recordsInserted"`
	RecordsRejected int           `json:"recordsRejected"`
	Duration        time.Duration `json:"duration"`
}

// DumpResult is the outcome of a dump.
type DumpResult struct {
	Files    []string      `json:"files"`
	Duration time.Duration `json:"duration"`
}

// Engine runs loads and dumps over a table registry.
type Engine struct {
	Registry *storage.Registry
	Dest     Destination
	Logger   *zap.SugaredLogger
}

// Load creates every table and fills it from <SeedDir>/<table>.<format>, in
// registry order. A missing seed file is a warning.
func (e *Engine) Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	start := time.Now()
	result := &LoadResult{}

	if opts.Reset {
		if err := e.Registry.DropAll(ctx); err != nil {
			return result, err
		}
	}
	if err := e.Registry.CreateAll(ctx); err != nil {
		return result, err
	}

	for _, table := range e.Registry.Tables() {
		path, source, err := seedFile(opts.SeedDir, table.Name(), opts.Format)
		if err != nil {
			return result, err
		}
		if path == "" {
			result.MissingSeeds = append(result.MissingSeeds, table.Name())
			e.Logger.Warnw("seed file missing", "table", table.Name(), "dir", opts.SeedDir)
			continue
		}

		cfg := SourceConfig{"filePath": path}
		if seedSchema, err := source.Discover(ctx, cfg); err != nil {
			return result, fmt.Errorf("inspect %s: %w", path, err)
		} else if unknown := seedSchema.Unknown(table.Schema().ColumnNames()); len(unknown) > 0 {
			e.Logger.Warnw("seed columns not in table schema, ignored",
				"table", table.Name(), "file", path, "columns", unknown)
		}

		records, err := readAll(ctx, source, cfg)
		if err != nil {
			return result, fmt.Errorf("read %s: %w", path, err)
		}

		wr, err := e.Dest.Write(ctx, table, records)
		result.Tables = append(result.Tables, wr)
		result.RecordsRead += wr.Read
		result.RecordsInserted += wr.Inserted
		result.RecordsRejected += wr.Rejected()
		if err != nil {
			return result, fmt.Errorf("load %s: %w", table.Name(), err)
		}
		e.Logger.Infow("table loaded",
			"table", table.Name(), "file", path, "read", wr.Read, "inserted", wr.Inserted,
			"validation_failed", wr.ValidationFailed, "reference_failed", wr.ReferenceFailed)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Dump writes <dir>/<table>.<format> for every table and format.
func (e *Engine) Dump(ctx context.Context, dir string, formats []string) (*DumpResult, error) {
	start := time.Now()
	result := &DumpResult{}
	for _, table := range e.Registry.Tables() {
		for _, format := range formats {
			path := filepath.Join(dir, table.Name()+"."+format)
			var err error
			switch format {
			case "csv":
				err = table.ExportCSV(ctx, path)
			case "json":
				err = table.ExportJSON(ctx, path)
			default:
				err = fmt.Errorf("unsupported export format %q", format)
			}
			if err != nil {
				return result, fmt.Errorf("dump %s: %w", table.Name(), err)
			}
			result.Files = append(result.Files, path)
		}
	}
	result.Duration = time.Since(start)
	e.Logger.Infow("tables dumped", "dir", dir, "files", len(result.Files))
	return result, nil
}

// seedFile finds the seed for table, returning "" when none exists.
func seedFile(dir, table, format string) (string, Source, error) {
	formats := []string{format}
	if format == "" {
		formats = []string{"json", "csv"}
	}
	for _, f := range formats {
		source, err := SourceForFormat(f)
		if err != nil {
			return "", nil, err
		}
		path := filepath.Join(dir, table+"."+f)
		if _, err := os.Stat(path); err == nil {
			return path, source, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", nil, err
		}
	}
	return "", nil, nil
}

func readAll(ctx context.Context, source Source, cfg SourceConfig) ([]Record, error) {
	recCh, errCh := source.Read(ctx, cfg)
	var records []Record
	for rec := range recCh {
		records = append(records, rec)
	}
	if err := <-errCh; err != nil {
		return nil, err
	}
	return records, nil
}
