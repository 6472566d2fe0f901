package domain

// Template maps an abstract code version identifier (e.g. "90.1-2019") to the
// level-3 tables holding its lighting and ventilation detail rows.
type Template struct {
	Template                 string `json:"template"`
	LightingStandard         string `json:"lighting_standard"`
	LightingStandardTable    string `json:"lighting_standard_table"`
	VentilationStandard      string `json:"ventilation_standard"`
	VentilationStandardTable string `json:"ventilation_standard_table"`
}

// TemplateFromRecord reads a support_templates row.
func TemplateFromRecord(r Record) Template {
	return Template{
		Template:                 r.String("template"),
		LightingStandard:         r.String("lighting_standard"),
		LightingStandardTable:    r.String("lighting_standard_table"),
		VentilationStandard:      r.String("ventilation_standard"),
		VentilationStandardTable: r.String("ventilation_standard_table"),
	}
}
