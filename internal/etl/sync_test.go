package etl_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"stdsdb/internal/catalog"
	"stdsdb/internal/domain"
	"stdsdb/internal/etl"
	_ "stdsdb/internal/etl/sources"
	"stdsdb/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Load / dump engine tests
// ─────────────────────────────────────────────────────────────

type countingObserver struct {
	counts map[etl.Outcome]int
}

func (o *countingObserver) ObserveRecord(_ string, outcome etl.Outcome) {
	o.counts[outcome]++
}

func newEngine(t *testing.T, obs etl.OutcomeObserver) *etl.Engine {
	t.Helper()
	ctx := context.Background()
	db, err := storage.Open(ctx, domain.DatabaseConnection{Path: filepath.Join(t.TempDir(), "stds.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	reg, err := catalog.NewRegistry(db, catalog.Options{
		LightingVersions:    []string{"2019"},
		VentilationVersions: []string{"2019"},
	})
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	log := zap.NewNop().Sugar()
	return &etl.Engine{
		Registry: reg,
		Dest:     &etl.TableWriter{Logger: log, Observer: obs},
		Logger:   log,
	}
}

func writeSeed(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write seed %s: %v", name, err)
	}
}

func seedDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeSeed(t, dir, "support_templates.json", `[
  {"template": "90.1-2019", "lighting_standard": "90.1-2019", "lighting_standard_table": "level_3_lighting_90_1_2019",
   "ventilation_standard": "62.1-2019", "ventilation_standard_table": "level_3_ventilation_62_1_2019", "annotation": null}
]`)
	writeSeed(t, dir, "level_3_lighting_90_1_2019.json", `[
  {"lighting_primary_space_type": "Office", "lighting_secondary_space_type": "Open", "lighting_power_density": 0.5,
   "lighting_power_density_unit": "W/ft2", "rcr_threshold": 6, "annotation": ""}
]`)
	// Second row has a text value in a numeric column.
	writeSeed(t, dir, "support_materials.csv", "name,material_type,thickness,conductivity\n"+
		"\"Brick, 4in\",StandardOpaqueMaterial,0.1016,0.89\n"+
		"Broken,StandardOpaqueMaterial,thin,\n"+
		"Gypsum,StandardOpaqueMaterial,0.0127,\n")
	// Second row points at a level-3 row that does not exist.
	writeSeed(t, dir, "hvac_minimum_requirement_chillers_90_1.json", `[
  {"template": "90.1-2019", "cooling_type": "WaterCooled", "minimum_capacity": 0, "maximum_capacity": 150,
   "start_date": "1/1/2019", "minimum_full_load_efficiency": 0.79, "variable_speed_drive": "FALSE"},
  {"template": "90.1-2004", "cooling_type": "AirCooled"}
]`)
	return dir
}

func TestEngine_Load(t *testing.T) {
	ctx := context.Background()
	obs := &countingObserver{counts: map[etl.Outcome]int{}}
	engine := newEngine(t, obs)

	res, err := engine.Load(ctx, etl.LoadOptions{SeedDir: seedDir(t)})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.RecordsRead != 7 || res.RecordsInserted != 5 || res.RecordsRejected != 2 {
		t.Errorf("unexpected totals: read=%d inserted=%d rejected=%d", res.RecordsRead, res.RecordsInserted, res.RecordsRejected)
	}
	if obs.counts[etl.OutcomeValidationFailed] != 1 || obs.counts[etl.OutcomeReferenceFailed] != 1 {
		t.Errorf("unexpected outcomes: %v", obs.counts)
	}
	if len(res.MissingSeeds) == 0 {
		t.Error("expected missing seeds to be reported")
	}

	materials, _ := engine.Registry.Table(catalog.TableMaterials)
	rows, err := materials.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 2 || rows[0]["name"] != "Brick, 4in" || rows[1]["conductivity"] != nil {
		t.Errorf("unexpected materials: %v", rows)
	}

	// A reset rebuild does not duplicate rows.
	if _, err := engine.Load(ctx, etl.LoadOptions{SeedDir: seedDir(t), Reset: true}); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if n, _ := materials.Count(ctx); n != 2 {
		t.Errorf("expected 2 materials after reset reload, got %d", n)
	}
}

func TestEngine_RoundTrip(t *testing.T) {
	ctx := context.Background()

	first := newEngine(t, nil)
	if _, err := first.Load(ctx, etl.LoadOptions{SeedDir: seedDir(t)}); err != nil {
		t.Fatalf("load seeds: %v", err)
	}
	dumpA := t.TempDir()
	if _, err := first.Dump(ctx, dumpA, []string{"json", "csv"}); err != nil {
		t.Fatalf("dump a: %v", err)
	}

	for _, format := range []string{"json", "csv"} {
		second := newEngine(t, nil)
		if _, err := second.Load(ctx, etl.LoadOptions{SeedDir: dumpA, Format: format}); err != nil {
			t.Fatalf("reload %s: %v", format, err)
		}
		dumpB := t.TempDir()
		res, err := second.Dump(ctx, dumpB, []string{format})
		if err != nil {
			t.Fatalf("dump b: %v", err)
		}
		for _, pathB := range res.Files {
			a, err := os.ReadFile(filepath.Join(dumpA, filepath.Base(pathB)))
			if err != nil {
				t.Fatalf("read a: %v", err)
			}
			b, err := os.ReadFile(pathB)
			if err != nil {
				t.Fatalf("read b: %v", err)
			}
			if !bytes.Equal(a, b) {
				t.Errorf("%s differs after round trip:\n%s\n---\n%s", filepath.Base(pathB), a, b)
			}
		}
	}
}

func TestEngine_LoadRejectsUnknownFormat(t *testing.T) {
	engine := newEngine(t, nil)
	if _, err := engine.Load(context.Background(), etl.LoadOptions{SeedDir: t.TempDir(), Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown seed format")
	}
}
