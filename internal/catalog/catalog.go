// Package catalog declares the fixed relation set of the reference database.
// Every table is a storage.Schema value; Schemas returns them in load order,
// tables without weak references first.
package catalog

import (
	"fmt"

	"stdsdb/internal/domain"
	"stdsdb/internal/storage"
)

// Table names addressed directly by code.
const (
	TableTemplates             = "support_templates"
	TableLightingTechnologies  = "support_lighting_technologies"
	TableMaterials             = "support_materials"
	TableConstructions         = "support_constructions"
	TablePerformanceCurves     = "support_performance_curves"
	TableSchedules             = "support_schedules"
	TableElectricEquipment     = "level_2_electric_equipment"
	TableNaturalGasEquipment   = "level_2_natural_gas_equipment"
	TableLightingSpaceTypes    = "level_2_lighting_space_types"
	TableVentilationSpaceTypes = "level_2_ventilation_space_types"
	TableSpaceTypes            = "level_1_space_types"
)

// DefaultVersions are the code editions with level-3 detail tables.
var DefaultVersions = []string{"1999", "2004", "2007", "2010", "2013", "2016", "2019"}

// Options selects the per-version level-3 tables to declare.
type Options struct {
	LightingVersions    []string // ASHRAE 90.1 editions
	VentilationVersions []string // ASHRAE 62.1 editions
}

// LightingTable names the level-3 lighting table of a 90.1 edition.
func LightingTable(version string) string {
	return "level_3_lighting_90_1_" + version
}

// VentilationTable names the level-3 ventilation table of a 62.1 edition.
func VentilationTable(version string) string {
	return "level_3_ventilation_62_1_" + version
}

// Schemas returns every table declaration in load order.
func Schemas(opts Options) []storage.Schema {
	if len(opts.LightingVersions) == 0 {
		opts.LightingVersions = DefaultVersions
	}
	if len(opts.VentilationVersions) == 0 {
		opts.VentilationVersions = DefaultVersions
	}

	var out []storage.Schema
	out = append(out, supportSchemas()...)
	for _, v := range opts.LightingVersions {
		out = append(out, lightingLevel3(LightingTable(v)))
	}
	for _, v := range opts.VentilationVersions {
		out = append(out, ventilationLevel3(VentilationTable(v)))
	}
	out = append(out, equipmentSchemas()...)
	out = append(out, spaceTypeSchemas()...)
	out = append(out, hvacSchemas()...)
	out = append(out, envelopeSchemas()...)
	return out
}

// NewRegistry declares every table of opts on db.
func NewRegistry(db *storage.DB, opts Options) (*storage.Registry, error) {
	reg, err := storage.NewRegistry(db, Schemas(opts))
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return reg, nil
}

// ── Column helpers ─────────────────────────────────────────

func text(name string) storage.Column {
	return storage.Column{Name: name, Kind: domain.KindText}
}

func num(name string) storage.Column {
	return storage.Column{Name: name, Kind: domain.KindNumeric}
}

func integer(name string) storage.Column {
	return storage.Column{Name: name, Kind: domain.KindInteger}
}

func texts(names ...string) []storage.Column {
	cols := make([]storage.Column, len(names))
	for i, n := range names {
		cols[i] = text(n)
	}
	return cols
}

func nums(names ...string) []storage.Column {
	cols := make([]storage.Column, len(names))
	for i, n := range names {
		cols[i] = num(n)
	}
	return cols
}

func numbered(prefix string, n int, col func(string) storage.Column) []storage.Column {
	cols := make([]storage.Column, n)
	for i := range cols {
		cols[i] = col(fmt.Sprintf("%s%d", prefix, i+1))
	}
	return cols
}

func columns(groups ...[]storage.Column) []storage.Column {
	var out []storage.Column
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

var annotation = []storage.Column{text("annotation")}

// versioned declares a table whose rows belong to one template; the
// template must already be loaded.
func versioned(name string, cols ...[]storage.Column) storage.Schema {
	groups := append([][]storage.Column{{text("template")}}, cols...)
	groups = append(groups, annotation)
	return storage.Schema{
		Name:    name,
		Columns: columns(groups...),
		References: []storage.Reference{
			{Table: TableTemplates, Column: "template", ValueField: "template"},
		},
	}
}
