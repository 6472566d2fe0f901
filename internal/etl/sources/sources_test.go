package sources_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"stdsdb/internal/etl"
	_ "stdsdb/internal/etl/sources"
)

func readAll(t *testing.T, typ, path string, cfg etl.SourceConfig) []etl.Record {
	t.Helper()
	src, err := etl.GetSource(typ)
	if err != nil {
		t.Fatalf("get source: %v", err)
	}
	if cfg == nil {
		cfg = etl.SourceConfig{}
	}
	cfg["filePath"] = path
	recCh, errCh := src.Read(context.Background(), cfg)
	var out []etl.Record
	for r := range recCh {
		out = append(out, r)
	}
	if err := <-errCh; err != nil {
		t.Fatalf("read: %v", err)
	}
	return out
}

func TestCSVSource_KeepsText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "support_templates.csv")
	os.WriteFile(path, []byte("template,lighting_standard_table\n90.1-2019,level_3_lighting_90_1_2019\n2019,\n"), 0o644)

	recs := readAll(t, "csv_file", path, nil)
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[1].Data["template"] != "2019" || recs[1].Data["lighting_standard_table"] != "" {
		t.Errorf("csv cells must stay text: %v", recs[1].Data)
	}
}

func TestJSONSource_NumbersAndDataPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "space_types.json")
	os.WriteFile(path, []byte(`{"space_types": [{"space_type": "Office", "rcr": 6, "lpd": 0.5}]}`), 0o644)

	recs := readAll(t, "json_file", path, etl.SourceConfig{"dataPath": "space_types"})
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Data["rcr"] != json.Number("6") || recs[0].Data["lpd"] != json.Number("0.5") {
		t.Errorf("expected json.Number values, got %#v", recs[0].Data)
	}

	src, _ := etl.GetSource("json_file")
	schema, err := src.Discover(context.Background(), etl.SourceConfig{"filePath": path, "dataPath": "space_types"})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	names := schema.FieldNames()
	if len(names) != 3 || names[0] != "lpd" || names[2] != "space_type" {
		t.Errorf("unexpected fields: %v", names)
	}
}

func TestJSONSource_RejectsNonArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	os.WriteFile(path, []byte(`{"a": 1}`), 0o644)

	src, _ := etl.GetSource("json_file")
	recCh, errCh := src.Read(context.Background(), etl.SourceConfig{"filePath": path})
	for range recCh {
	}
	if err := <-errCh; err == nil {
		t.Fatal("expected error for non-array json")
	}
}

func TestSourceForFormat(t *testing.T) {
	for _, ext := range []string{"csv", "json"} {
		src, err := etl.SourceForFormat(ext)
		if err != nil || src.Spec().Extension != ext {
			t.Errorf("format %s: %v", ext, err)
		}
	}
	if len(etl.ListSources()) != 2 {
		t.Errorf("expected 2 registered sources, got %v", etl.ListSources())
	}
}
