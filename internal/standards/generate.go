package standards

import (
	"context"
	"fmt"
	"path"
	"time"

	"go.uber.org/zap"

	"stdsdb/internal/catalog"
	"stdsdb/internal/domain"
	"stdsdb/internal/etl"
	"stdsdb/internal/publish"
	"stdsdb/internal/storage"
)

// ── Codes ──────────────────────────────────────────────────

// Code describes a building energy code and its published editions.
type Code struct {
	Name           string   `yaml:"name"`
	TemplatePrefix string   `yaml:"template_prefix"`
	Versions       []string `yaml:"versions"`
	Hierarchy      []string `yaml:"hierarchy"`
}

// ASHRAE901 is the ASHRAE 90.1 code with its default fallback hierarchy.
func ASHRAE901() Code {
	return Code{
		Name:           "ashrae_90_1",
		TemplatePrefix: "90.1-",
		Versions:       append([]string(nil), catalog.DefaultVersions...),
		Hierarchy:      append([]string(nil), catalog.DefaultVersions...),
	}
}

// Template returns the template key of one edition, e.g. "90.1-2019".
func (c Code) Template(version string) string {
	return c.TemplatePrefix + version
}

// SpaceTypesPath is the data file holding an edition's space types.
func SpaceTypesPath(code, version string) string {
	return VersionDataPath(code, version, "space_types")
}

// VersionDataPath is <code>/<code>_<version>/data/<code>_<version>.<type>.json.
func VersionDataPath(code, version, tableType string) string {
	cv := code + "_" + version
	return path.Join(code, cv, "data", cv+"."+tableType+".json")
}

// CodeDataPath is <code>/data/<code>.<type>.json.
func CodeDataPath(code, tableType string) string {
	return path.Join(code, "data", code+"."+tableType+".json")
}

// TableExport maps a data file type to the tables it is built from.
type TableExport struct {
	Type   string
	Tables []string
}

// VersionTables are exported per edition, filtered by template.
func VersionTables() []TableExport {
	return []TableExport{
		{"chillers", []string{catalog.TableChillers}},
		{"boilers", []string{catalog.TableBoilers}},
		{"furnaces", []string{catalog.TableFurnaces}},
		{"heat_rejection", []string{catalog.TableHeatRejection}},
		{"motors", []string{catalog.TableMotors}},
		{"unitary_acs", []string{catalog.TableUnitaryAirConditioners}},
		{"water_source_heat_pumps_heating", []string{catalog.TableWaterSourceHeatPumpsHeating}},
		{"water_source_heat_pumps", []string{catalog.TableWaterSourceHeatPumpsCooling}},
		{"water_heaters", []string{catalog.TableWaterHeaters}},
		{"heat_pumps", []string{catalog.TableHeatPumpCooling}},
		{"heat_pumps_heating", []string{catalog.TableHeatPumpHeating}},
		{"economizers", []string{catalog.TableEconomizers}},
		{"energy_recovery", []string{catalog.TableEnergyRecovery}},
		{"construction_properties", []string{catalog.TableEnvelopeRequirement}},
	}
}

// CodeTables do not vary by edition.
func CodeTables() []TableExport {
	return []TableExport{
		{"materials", []string{catalog.TableMaterials}},
		{"constructions", []string{catalog.TableConstructions}},
		{"curves", []string{catalog.TablePerformanceCurves}},
		{"space_type_schedules", []string{catalog.TableSchedules}},
	}
}

// ── Generator ──────────────────────────────────────────────

// GenerateResult lists what a generation run published.
type GenerateResult struct {
	Files    []string      `json:"files"`
	Skipped  []string      `json:"skipped,omitempty"`
	Records  int           `json:"records"`
	Duration time.Duration `json:"duration"`
}

// Generator writes a code's data files to a sink.
type Generator struct {
	Registry  *storage.Registry
	Resolver  *Resolver
	Assembler *Assembler
	Sink      publish.Sink
	Logger    *zap.SugaredLogger
}

// NewGenerator wires a generator over reg publishing to sink.
func NewGenerator(reg *storage.Registry, sink publish.Sink, logger *zap.SugaredLogger) *Generator {
	return &Generator{
		Registry:  reg,
		Resolver:  NewResolver(reg),
		Assembler: NewAssembler(reg, logger),
		Sink:      sink,
		Logger:    logger,
	}
}

// Generate publishes every edition's space types and version tables, then the
// code-wide tables. The first hard failure stops the run.
func (g *Generator) Generate(ctx context.Context, code Code) (*GenerateResult, error) {
	start := time.Now()
	res := &GenerateResult{}
	for _, v := range code.Versions {
		if err := g.SpaceTypes(ctx, code, v, res); err != nil {
			return res, err
		}
		if err := g.VersionData(ctx, code, v, res); err != nil {
			return res, err
		}
	}
	if err := g.CodeData(ctx, code, res); err != nil {
		return res, err
	}
	res.Duration = time.Since(start)
	g.Logger.Infow("generate complete",
		"code", code.Name, "files", len(res.Files), "skipped", len(res.Skipped),
		"records", res.Records, "duration", res.Duration)
	return res, nil
}

// SpaceTypes publishes the space type file of one edition.
func (g *Generator) SpaceTypes(ctx context.Context, code Code, version string, res *GenerateResult) error {
	tmpl, err := g.Resolver.Resolve(ctx, code.Template(version))
	if err != nil {
		return err
	}
	spaces, err := g.Assembler.Assemble(ctx, tmpl, version, code.Hierarchy)
	if err != nil {
		return fmt.Errorf("%s: %w", tmpl.Template, err)
	}
	key := SpaceTypesPath(code.Name, version)
	if len(spaces) == 0 {
		g.Logger.Warnw("no space types found, skipping file", "template", tmpl.Template, "key", key)
		res.Skipped = append(res.Skipped, key)
		return nil
	}
	return g.publish(ctx, key, "space_types", spaces, len(spaces), res)
}

// VersionData publishes the template-filtered tables of one edition.
func (g *Generator) VersionData(ctx context.Context, code Code, version string, res *GenerateResult) error {
	template := code.Template(version)
	for _, exp := range VersionTables() {
		var records []domain.OrderedRecord
		for _, name := range exp.Tables {
			t, err := g.Registry.Handle(ctx, name)
			if err != nil {
				return err
			}
			rows, err := t.FetchWhere(ctx, map[string]any{"template": template})
			if err != nil {
				return err
			}
			g.Logger.Debugw("rows found", "table", name, "template", template, "count", len(rows))
			records = append(records, etl.ProcessRecords(rows, t.Schema().ColumnNames())...)
		}
		key := VersionDataPath(code.Name, version, exp.Type)
		if len(records) == 0 {
			g.Logger.Warnw("no records found, skipping file", "type", exp.Type, "template", template, "key", key)
			res.Skipped = append(res.Skipped, key)
			continue
		}
		if err := g.publish(ctx, key, exp.Type, records, len(records), res); err != nil {
			return err
		}
	}
	return nil
}

// CodeData publishes the tables shared by every edition.
func (g *Generator) CodeData(ctx context.Context, code Code, res *GenerateResult) error {
	for _, exp := range CodeTables() {
		var records []domain.OrderedRecord
		for _, name := range exp.Tables {
			t, err := g.Registry.Handle(ctx, name)
			if err != nil {
				return err
			}
			rows, err := t.FetchAll(ctx)
			if err != nil {
				return err
			}
			records = append(records, etl.ProcessRecords(rows, t.Schema().ColumnNames())...)
		}
		key := CodeDataPath(code.Name, exp.Type)
		if len(records) == 0 {
			g.Logger.Warnw("no records found, skipping file", "type", exp.Type, "code", code.Name, "key", key)
			res.Skipped = append(res.Skipped, key)
			continue
		}
		if err := g.publish(ctx, key, exp.Type, records, len(records), res); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) publish(ctx context.Context, key, tableType string, records any, n int, res *GenerateResult) error {
	payload, err := domain.MarshalIndent(map[string]any{tableType: records})
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := g.Sink.Put(ctx, key, payload, publish.ContentTypeJSON); err != nil {
		return fmt.Errorf("publish %s: %w", key, err)
	}
	g.Logger.Infow("published", "key", key, "records", n, "sink", g.Sink.Driver())
	res.Files = append(res.Files, key)
	res.Records += n
	return nil
}
