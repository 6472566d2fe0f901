package storage_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"stdsdb/internal/domain"
	"stdsdb/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Table descriptor tests against a temporary SQLite file
// ─────────────────────────────────────────────────────────────

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.Open(context.Background(), domain.DatabaseConnection{
		Driver: domain.DatabaseDriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

var materialsSchema = storage.Schema{
	Name: "support_materials",
	Key:  "name",
	Columns: []storage.Column{
		{Name: "name", Kind: domain.KindText},
		{Name: "material_type", Kind: domain.KindText},
		{Name: "thickness", Kind: domain.KindNumeric},
		{Name: "conductivity", Kind: domain.KindNumeric, Default: 0.0},
		{Name: "annotation", Kind: domain.KindText},
	},
}

var templatesSchema = storage.Schema{
	Name: "support_templates",
	Key:  "template",
	Columns: []storage.Column{
		{Name: "template", Kind: domain.KindText},
		{Name: "lighting_standard_table", Kind: domain.KindText},
	},
}

// spacesSchema points at a level-3 table named by each record.
var spacesSchema = storage.Schema{
	Name: "level_2_lighting_space_types",
	Columns: []storage.Column{
		{Name: "lighting_space_type_name", Kind: domain.KindText},
		{Name: "level_3_lighting_code_definition_table", Kind: domain.KindText},
		{Name: "level_3_lighting_code_definition_id", Kind: domain.KindInteger},
	},
	References: []storage.Reference{{
		TableField: "level_3_lighting_code_definition_table",
		Column:     "id",
		ValueField: "level_3_lighting_code_definition_id",
	}},
}

func newTable(t *testing.T, db *storage.DB, s storage.Schema) *storage.Table {
	t.Helper()
	tbl, err := storage.NewTable(db, s)
	if err != nil {
		t.Fatalf("new table %s: %v", s.Name, err)
	}
	if err := tbl.CreateSchema(context.Background()); err != nil {
		t.Fatalf("create %s: %v", s.Name, err)
	}
	return tbl
}

func mustInsert(t *testing.T, tbl *storage.Table, rec domain.Record) {
	t.Helper()
	ok, err := tbl.Insert(context.Background(), rec)
	if err != nil || !ok {
		t.Fatalf("insert into %s: ok=%v err=%v", tbl.Name(), ok, err)
	}
}

func TestTable_CreateSchema_Idempotent(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	tbl := newTable(t, db, materialsSchema)

	if err := tbl.CreateSchema(ctx); err != nil {
		t.Fatalf("second create: %v", err)
	}
	info, err := db.Introspect(ctx)
	if err != nil {
		t.Fatalf("introspect: %v", err)
	}
	n := 0
	for _, ti := range info.Tables {
		if ti.Name == "support_materials" {
			n++
			if len(ti.Columns) != len(materialsSchema.Columns)+1 {
				t.Errorf("expected %d columns, got %d", len(materialsSchema.Columns)+1, len(ti.Columns))
			}
		}
	}
	if n != 1 {
		t.Fatalf("expected support_materials once, got %d", n)
	}
}

func TestTable_Insert_ValidationFailure(t *testing.T) {
	ctx := context.Background()
	tbl := newTable(t, openTestDB(t), materialsSchema)

	ok, err := tbl.Insert(ctx, domain.Record{"name": "Brick", "thickness": "thick"})
	if ok {
		t.Fatal("expected insert to fail")
	}
	var verr *storage.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "thickness" || verr.Expected != domain.KindNumeric {
		t.Errorf("unexpected error detail: %+v", verr)
	}

	ok, err = tbl.Insert(ctx, domain.Record{"name": 42})
	if ok || !errors.As(err, &verr) || verr.Field != "name" {
		t.Fatalf("expected text validation failure, got ok=%v err=%v", ok, err)
	}

	if n, _ := tbl.Count(ctx); n != 0 {
		t.Fatalf("expected no rows, got %d", n)
	}
}

func TestTable_Insert_FalsyFieldsAreNotProvided(t *testing.T) {
	ctx := context.Background()
	tbl := newTable(t, openTestDB(t), materialsSchema)

	// Empty strings and zeros are skipped by validation, not rejected.
	mustInsert(t, tbl, domain.Record{"name": "Air", "thickness": "", "conductivity": 0, "annotation": nil})
	mustInsert(t, tbl, domain.Record{"name": "Gypsum", "thickness": "0.0127", "unrelated": "ignored"})

	rows, err := tbl.FetchAll(ctx)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["thickness"] != nil {
		t.Errorf("expected NULL thickness, got %v", rows[0]["thickness"])
	}
	if rows[1]["thickness"] != 0.0127 {
		t.Errorf("expected numeric thickness, got %#v", rows[1]["thickness"])
	}
	if rows[0]["id"] != int64(1) || rows[1]["id"] != int64(2) {
		t.Errorf("expected ids 1,2 in insertion order, got %v,%v", rows[0]["id"], rows[1]["id"])
	}
}

func TestTable_Preprocess_Defaults(t *testing.T) {
	tbl := newTable(t, openTestDB(t), materialsSchema)

	args := tbl.Preprocess(domain.Record{
		"annotation":    "note",
		"name":          "Brick",
		"thickness":     "0.1",
		"conductivity":  "",
		"material_type": nil,
	})
	want := []any{"Brick", nil, 0.1, 0.0, "note"}
	if len(args) != len(want) {
		t.Fatalf("expected %d args, got %d", len(want), len(args))
	}
	for i := range want {
		if args[i] != want[i] {
			t.Errorf("arg %d: expected %#v, got %#v", i, want[i], args[i])
		}
	}

	tmpl := tbl.Schema().RecordTemplate()
	if len(tmpl) != len(materialsSchema.Columns) || tmpl["conductivity"] != 0.0 {
		t.Errorf("unexpected record template: %v", tmpl)
	}
}

func TestTable_FetchWhere(t *testing.T) {
	ctx := context.Background()
	tbl := newTable(t, openTestDB(t), materialsSchema)
	mustInsert(t, tbl, domain.Record{"name": "Brick", "material_type": "StandardOpaqueMaterial"})
	mustInsert(t, tbl, domain.Record{"name": "Glass", "material_type": "StandardGlazing"})
	mustInsert(t, tbl, domain.Record{"name": "Brick 2", "material_type": "StandardOpaqueMaterial"})

	rows, err := tbl.FetchWhere(ctx, map[string]any{"material_type": "StandardOpaqueMaterial"})
	if err != nil {
		t.Fatalf("fetch where: %v", err)
	}
	if len(rows) != 2 || rows[0]["name"] != "Brick" || rows[1]["name"] != "Brick 2" {
		t.Fatalf("unexpected rows: %v", rows)
	}

	byKey, err := tbl.FetchByKey(ctx, "Glass")
	if err != nil || len(byKey) != 1 {
		t.Fatalf("fetch by key: %v %v", byKey, err)
	}

	if _, err := tbl.FetchWhere(ctx, map[string]any{"nope": 1}); err == nil {
		t.Fatal("expected error for undeclared column")
	}
}

func TestTable_Update(t *testing.T) {
	ctx := context.Background()
	tbl := newTable(t, openTestDB(t), materialsSchema)
	mustInsert(t, tbl, domain.Record{"name": "Brick", "thickness": 0.1})

	ok, err := tbl.Update(ctx, 1, domain.Record{"thickness": "0.2", "not_a_column": "x"})
	if err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}
	rec, found, err := tbl.FetchByID(ctx, 1)
	if err != nil || !found {
		t.Fatalf("fetch by id: found=%v err=%v", found, err)
	}
	if rec["thickness"] != 0.2 || rec["name"] != "Brick" {
		t.Errorf("unexpected row after update: %v", rec)
	}

	if _, err := tbl.Update(ctx, 1, domain.Record{"thickness": "wide"}); err == nil {
		t.Error("expected validation error on update")
	}
	ok, err = tbl.Update(ctx, 99, domain.Record{"thickness": 1})
	if ok || err != nil {
		t.Errorf("expected (false, nil) for missing id, got ok=%v err=%v", ok, err)
	}
}

func TestTable_Exports(t *testing.T) {
	ctx := context.Background()
	tbl := newTable(t, openTestDB(t), materialsSchema)
	mustInsert(t, tbl, domain.Record{"name": "Brick", "thickness": "0.1", "conductivity": 0.89})
	mustInsert(t, tbl, domain.Record{"name": "Insulation, 2in", "material_type": "StandardOpaqueMaterial"})

	dir := t.TempDir()
	csvPath := filepath.Join(dir, "out", "support_materials.csv")
	if err := tbl.ExportCSV(ctx, csvPath); err != nil {
		t.Fatalf("export csv: %v", err)
	}
	data, err := os.ReadFile(csvPath)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	wantCSV := "name,material_type,thickness,conductivity,annotation\n" +
		"Brick,,0.1,0.89,\n" +
		"\"Insulation, 2in\",StandardOpaqueMaterial,,0,\n"
	if string(data) != wantCSV {
		t.Errorf("unexpected csv:\n%s", data)
	}

	jsonPath := filepath.Join(dir, "support_materials.json")
	if err := tbl.ExportJSON(ctx, jsonPath); err != nil {
		t.Fatalf("export json: %v", err)
	}
	data, err = os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	out := string(data)
	if strings.Contains(out, `"id"`) {
		t.Error("json export must not contain id")
	}
	if !strings.HasPrefix(out, "[\n  {\n    \"name\": \"Brick\",\n    \"material_type\": null,") {
		t.Errorf("unexpected json layout:\n%s", out)
	}
}

func TestTable_EmptyExportJSON(t *testing.T) {
	tbl := newTable(t, openTestDB(t), materialsSchema)
	data, err := tbl.RenderJSON(context.Background())
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(data) != "[]" {
		t.Errorf("expected [], got %s", data)
	}
}

func TestNewTable_RejectsBadSchema(t *testing.T) {
	db := openTestDB(t)
	bad := []storage.Schema{
		{Name: "bad name", Columns: []storage.Column{{Name: "a", Kind: domain.KindText}}},
		{Name: "t"},
		{Name: "t", Columns: []storage.Column{{Name: "id", Kind: domain.KindInteger}}},
		{Name: "t", Columns: []storage.Column{{Name: "a", Kind: domain.KindText}}, Key: "b"},
		{Name: "t", Columns: []storage.Column{{Name: "a", Kind: domain.KindText}},
			References: []storage.Reference{{Table: "x", Column: "id", ValueField: "missing"}}},
	}
	for _, s := range bad {
		if _, err := storage.NewTable(db, s); err == nil {
			t.Errorf("expected error for schema %+v", s)
		}
	}
}
