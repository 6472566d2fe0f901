package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"stdsdb/internal/catalog"
	"stdsdb/internal/domain"
	_ "stdsdb/internal/etl/sources"
	"stdsdb/internal/publish"
	"stdsdb/internal/service"
	"stdsdb/internal/standards"
	"stdsdb/internal/storage"
)

var seeds = map[string]string{
	"support_templates.json": `[{"template": "90.1-2019",
  "lighting_standard_table": "level_3_lighting_90_1_2019",
  "ventilation_standard_table": "level_3_ventilation_62_1_2019"}]`,
	"level_3_lighting_90_1_2019.json": `[{"lighting_primary_space_type": "Office",
  "lighting_power_density": 0.5, "lighting_power_density_unit": "W/ft2"}]`,
	"level_3_ventilation_62_1_2019.json": `[{"ventilation_primary_space_type": "Office",
  "ventilation_rate_occupant": 5, "ventilation_rate_area": 0.06}]`,
	"level_2_lighting_space_types.json": `[{"lighting_space_type_name": "office_open",
  "level_3_lighting_code_definition_table": "level_3_lighting_90_1_2019",
  "level_3_lighting_code_definition_id": 1}]`,
	"level_2_ventilation_space_types.json": `[{"ventilation_space_type_name": "office_vent",
  "level_3_ventilation_definition_table": "level_3_ventilation_62_1_2019",
  "level_3_ventilation_definition_id": 1}]`,
	"level_1_space_types.json": `[
  {"space_type_name": "Office - Open", "lighting_space_type_name": "office_open",
   "ventilation_space_type_name": "office_vent", "schedule_set_name": "Office"},
  {"space_type_name": "Office - Enclosed", "lighting_space_type_name": "office_open",
   "ventilation_space_type_name": "office_vent", "schedule_set_name": "Office"}]`,
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()
	for name, content := range seeds {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	db, err := storage.Open(ctx, domain.DatabaseConnection{
		Driver: domain.DatabaseDriverSQLite,
		Path:   filepath.Join(t.TempDir(), "stds.db"),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	reg, err := catalog.NewRegistry(db, catalog.Options{
		LightingVersions:    []string{"2019"},
		VentilationVersions: []string{"2019"},
	})
	if err != nil {
		t.Fatal(err)
	}

	code := standards.ASHRAE901()
	code.Versions = []string{"2019"}
	logger := zap.NewNop().Sugar()
	p := service.NewPipeline(reg, publish.NewMemorySink(), service.Options{
		SeedDir: dir,
		Codes:   []standards.Code{code},
	}, service.LogEmitter{Logger: logger}, nil, logger)
	if _, _, err := p.Build(ctx, service.TriggerCLI, false); err != nil {
		t.Fatalf("build: %v", err)
	}
	return New(Deps{Pipeline: p, Codes: []standards.Code{code}, Logger: logger})
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if res == nil || len(res.Content) == 0 {
		t.Fatal("empty tool result")
	}
	text, ok := res.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

// ─────────────────────────────────────────────────────────────
// Table tools
// ─────────────────────────────────────────────────────────────

func TestListTables(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleListTables(context.Background(), call(nil))
	if err != nil {
		t.Fatal(err)
	}
	var tables []tableSummary
	if err := json.Unmarshal([]byte(resultText(t, res)), &tables); err != nil {
		t.Fatal(err)
	}
	rows := map[string]int{}
	for _, tbl := range tables {
		rows[tbl.Name] = tbl.Rows
	}
	if rows[catalog.TableSpaceTypes] != 2 || rows[catalog.TableTemplates] != 1 {
		t.Errorf("unexpected row counts %v", rows)
	}
	if len(tables) != len(s.pipeline.Registry().Names()) {
		t.Errorf("expected every registered table, got %d", len(tables))
	}
}

func TestFetchTable(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleFetchTable(ctx, call(map[string]any{
		"table": catalog.TableSpaceTypes,
		"where": `{"space_type_name": "Office - Enclosed"}`,
	}))
	if err != nil {
		t.Fatal(err)
	}
	var out struct {
		Count   int              `json:"count"`
		Records []map[string]any `json:"records"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 || out.Records[0]["space_type_name"] != "Office - Enclosed" {
		t.Errorf("unexpected filtered rows %+v", out)
	}

	res, err = s.handleFetchTable(ctx, call(map[string]any{"table": catalog.TableSpaceTypes, "limit": float64(1)}))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatal(err)
	}
	if out.Count != 1 {
		t.Errorf("expected limit to cap rows, got %d", out.Count)
	}
}

func TestFetchTable_Errors(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	if _, err := s.handleFetchTable(ctx, call(map[string]any{})); err == nil {
		t.Error("expected error without table")
	}
	if _, err := s.handleFetchTable(ctx, call(map[string]any{"table": "nope"})); err == nil {
		t.Error("expected error for unknown table")
	}
	if _, err := s.handleFetchTable(ctx, call(map[string]any{
		"table": catalog.TableTemplates,
		"where": "{not json",
	})); err == nil {
		t.Error("expected error for bad where JSON")
	}
}

// ─────────────────────────────────────────────────────────────
// Standards tools
// ─────────────────────────────────────────────────────────────

func TestResolveTemplate(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()
	res, err := s.handleResolveTemplate(ctx, call(map[string]any{"template": "90.1-2019"}))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(resultText(t, res), `"level_3_lighting_90_1_2019"`) {
		t.Errorf("unexpected template %s", resultText(t, res))
	}
	if _, err := s.handleResolveTemplate(ctx, call(map[string]any{"template": "90.1-1999"})); err == nil {
		t.Error("expected error for unknown template")
	}
}

func TestSpaceTypes(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleSpaceTypes(ctx, call(map[string]any{"version": "2019"}))
	if err != nil {
		t.Fatal(err)
	}
	var all struct {
		SpaceTypes []domain.SpaceType `json:"space_types"`
	}
	if err := json.Unmarshal([]byte(resultText(t, res)), &all); err != nil {
		t.Fatal(err)
	}
	if len(all.SpaceTypes) != 2 {
		t.Fatalf("expected 2 space types, got %d", len(all.SpaceTypes))
	}

	res, err = s.handleSpaceTypes(ctx, call(map[string]any{"version": "2019", "spaceType": "Office - Open"}))
	if err != nil {
		t.Fatal(err)
	}
	var one domain.SpaceType
	if err := json.Unmarshal([]byte(resultText(t, res)), &one); err != nil {
		t.Fatal(err)
	}
	if one.LightingPerArea != 0.5 || one.VentilationPerArea != 0.06 {
		t.Errorf("unexpected space type %+v", one)
	}

	if _, err := s.handleSpaceTypes(ctx, call(map[string]any{"version": "2019", "code": "iecc"})); err == nil {
		t.Error("expected error for unknown code")
	}
	if _, err := s.handleSpaceTypes(ctx, call(map[string]any{"version": "2019", "spaceType": "Gym"})); err == nil {
		t.Error("expected error for unknown space type")
	}
}

func TestRebuild(t *testing.T) {
	s := newTestServer(t)
	res, err := s.handleRebuild(context.Background(), call(nil))
	if err != nil {
		t.Fatal(err)
	}
	var runs []domain.PipelineRun
	if err := json.Unmarshal([]byte(resultText(t, res)), &runs); err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 || runs[0].Trigger != service.TriggerMCP || runs[0].Kind != domain.RunKindGenerate {
		t.Errorf("unexpected runs %+v", runs)
	}
}

// ─────────────────────────────────────────────────────────────
// Resources
// ─────────────────────────────────────────────────────────────

func TestTableResource(t *testing.T) {
	s := newTestServer(t)
	var req mcp.ReadResourceRequest
	req.Params.URI = tableURIPrefix + catalog.TableTemplates
	contents, err := s.handleTableResource(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	text := contents[0].(mcp.TextResourceContents)
	if text.URI != req.Params.URI || !strings.Contains(text.Text, "90.1-2019") {
		t.Errorf("unexpected resource %+v", text)
	}

	req.Params.URI = "stdsdb://other/x"
	if _, err := s.handleTableResource(context.Background(), req); err == nil {
		t.Error("expected error for foreign URI")
	}
}

func TestRunsResource(t *testing.T) {
	s := newTestServer(t)
	contents, err := s.handleRunsResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(contents[0].(mcp.TextResourceContents).Text, `"kind": "build"`) {
		t.Errorf("expected the build run, got %s", contents[0].(mcp.TextResourceContents).Text)
	}
}
