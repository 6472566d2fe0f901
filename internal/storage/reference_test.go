package storage_test

import (
	"context"
	"errors"
	"testing"

	"stdsdb/internal/domain"
	"stdsdb/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Weak-reference checks
// ─────────────────────────────────────────────────────────────

var lightingLevel3Schema = storage.Schema{
	Name: "level_3_lighting_90_1_2019",
	Columns: []storage.Column{
		{Name: "lighting_primary_space_type", Kind: domain.KindText},
		{Name: "lighting_power_density", Kind: domain.KindNumeric},
		{Name: "lighting_power_density_unit", Kind: domain.KindText},
	},
}

func TestIsReferenced(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tmpl := newTable(t, db, templatesSchema)
	mustInsert(t, tmpl, domain.Record{"template": "90.1-2019", "lighting_standard_table": "level_3_lighting_90_1_2019"})

	cases := []struct {
		name   string
		table  string
		column string
		value  any
		want   bool
	}{
		{"vacuous table", "", "template", "90.1-2019", true},
		{"vacuous column", "support_templates", "", "90.1-2019", true},
		{"vacuous value", "support_templates", "template", "", true},
		{"vacuous nil value", "support_templates", "template", nil, true},
		{"missing table", "level_3_lighting_90_1_2004", "id", 1, false},
		{"malformed table name", "drop table; --", "id", 1, false},
		{"missing row", "support_templates", "template", "90.1-2004", false},
		{"existing row", "support_templates", "template", "90.1-2019", true},
		{"existing id", "support_templates", "id", int64(1), true},
	}
	for _, tc := range cases {
		got, err := db.IsReferenced(ctx, tc.table, tc.column, tc.value)
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
			continue
		}
		if got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestTable_Insert_WeakReference(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	spaces := newTable(t, db, spacesSchema)

	// Referenced table not created yet.
	ok, err := spaces.Insert(ctx, domain.Record{
		"lighting_space_type_name":               "Office - open",
		"level_3_lighting_code_definition_table": "level_3_lighting_90_1_2019",
		"level_3_lighting_code_definition_id":    "1",
	})
	if ok || err != nil {
		t.Fatalf("expected soft failure for missing table, got ok=%v err=%v", ok, err)
	}

	l3 := newTable(t, db, lightingLevel3Schema)
	mustInsert(t, l3, domain.Record{"lighting_primary_space_type": "Office", "lighting_power_density": 0.5, "lighting_power_density_unit": "W/ft2"})

	// Row id 2 does not exist.
	ok, err = spaces.Insert(ctx, domain.Record{
		"lighting_space_type_name":               "Office - open",
		"level_3_lighting_code_definition_table": "level_3_lighting_90_1_2019",
		"level_3_lighting_code_definition_id":    2,
	})
	if ok || err != nil {
		t.Fatalf("expected soft failure for missing row, got ok=%v err=%v", ok, err)
	}
	if n, _ := spaces.Count(ctx); n != 0 {
		t.Fatalf("failed reference must not create a row, got %d", n)
	}

	mustInsert(t, spaces, domain.Record{
		"lighting_space_type_name":               "Office - open",
		"level_3_lighting_code_definition_table": "level_3_lighting_90_1_2019",
		"level_3_lighting_code_definition_id":    "1",
	})

	// All reference fields empty is vacuously valid.
	mustInsert(t, spaces, domain.Record{"lighting_space_type_name": "Unassigned"})

	if n, _ := spaces.Count(ctx); n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
}

func TestTable_Insert_StaticReference(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tmpl := newTable(t, db, templatesSchema)
	chillers := newTable(t, db, storage.Schema{
		Name: "hvac_minimum_requirement_chillers_90_1",
		Columns: []storage.Column{
			{Name: "template", Kind: domain.KindText},
			{Name: "minimum_full_load_efficiency", Kind: domain.KindNumeric},
		},
		References: []storage.Reference{{Table: "support_templates", Column: "template", ValueField: "template"}},
	})

	ok, err := chillers.Insert(ctx, domain.Record{"template": "90.1-2019", "minimum_full_load_efficiency": "0.75"})
	if ok || err != nil {
		t.Fatalf("expected soft failure before template exists, got ok=%v err=%v", ok, err)
	}
	mustInsert(t, tmpl, domain.Record{"template": "90.1-2019"})
	mustInsert(t, chillers, domain.Record{"template": "90.1-2019", "minimum_full_load_efficiency": "0.75"})
}

func TestRegistry(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	reg, err := storage.NewRegistry(db, []storage.Schema{templatesSchema, materialsSchema})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if got := reg.Names(); len(got) != 2 || got[0] != "support_templates" || got[1] != "support_materials" {
		t.Fatalf("unexpected order: %v", got)
	}

	if _, err := reg.Table("level_3_lighting_90_1_1999"); !errors.Is(err, storage.ErrUnknownTable) {
		t.Errorf("expected ErrUnknownTable, got %v", err)
	}
	if _, err := reg.Handle(ctx, "support_materials"); !errors.Is(err, storage.ErrUnknownTable) {
		t.Errorf("expected ErrUnknownTable before creation, got %v", err)
	}

	if err := reg.CreateAll(ctx); err != nil {
		t.Fatalf("create all: %v", err)
	}
	if _, err := reg.Handle(ctx, "support_materials"); err != nil {
		t.Errorf("handle after creation: %v", err)
	}

	if err := reg.DropAll(ctx); err != nil {
		t.Fatalf("drop all: %v", err)
	}
	if exists, _ := db.TableExists(ctx, "support_templates"); exists {
		t.Error("expected table dropped")
	}

	if _, err := storage.NewRegistry(db, []storage.Schema{templatesSchema, templatesSchema}); err == nil {
		t.Error("expected duplicate registration error")
	}
}

func TestRunStore(t *testing.T) {
	ctx := context.Background()
	runs := storage.NewRunStore(openTestDB(t))

	first := &domain.PipelineRun{Kind: domain.RunKindBuild, Trigger: "cli"}
	if err := runs.Start(ctx, first); err != nil {
		t.Fatalf("start: %v", err)
	}
	if first.ID == "" || first.Status != domain.RunStatusRunning {
		t.Fatalf("unexpected started run: %+v", first)
	}
	first.RecordsRead, first.RecordsWritten, first.RecordsRejected = 3, 2, 1
	if err := runs.Finish(ctx, first, nil); err != nil {
		t.Fatalf("finish: %v", err)
	}

	second := &domain.PipelineRun{Kind: domain.RunKindGenerate, Trigger: "schedule"}
	if err := runs.Start(ctx, second); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := runs.Finish(ctx, second, errors.New("template not found")); err != nil {
		t.Fatalf("finish: %v", err)
	}

	list, err := runs.List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(list))
	}
	if list[0].ID != second.ID || list[0].Status != domain.RunStatusFailed || list[0].Error != "template not found" {
		t.Errorf("unexpected newest run: %+v", list[0])
	}
	if list[1].RecordsWritten != 2 || list[1].FinishedAt == nil {
		t.Errorf("unexpected oldest run: %+v", list[1])
	}
}
