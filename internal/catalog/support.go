package catalog

import "stdsdb/internal/storage"

// LightingTechnologyFields are copied verbatim into each space type.
var LightingTechnologyFields = []string{
	"lighting_fraction_to_return_air",
	"lighting_fraction_radiant",
	"lighting_fraction_visible",
	"lighting_fraction_replaceable",
	"lpd_fraction_linear_fluorescent",
	"lpd_fraction_compact_fluorescent",
	"lpd_fraction_high_bay",
	"lpd_fraction_specialty_lighting",
	"lpd_fraction_exit_lighting",
	"compact_fluorescent_lighting_schedule",
	"high_bay_lighting_schedule",
	"specialty_lighting_schedule",
	"exit_lighting_schedule",
}

func supportSchemas() []storage.Schema {
	return []storage.Schema{
		{
			Name: TableTemplates,
			Key:  "template",
			Columns: columns(texts(
				"template",
				"lighting_standard",
				"lighting_standard_table",
				"ventilation_standard",
				"ventilation_standard_table",
			), annotation),
		},
		{
			Name: TableLightingTechnologies,
			Key:  "lighting_technology_definition_name",
			Columns: columns(
				texts("lighting_technology_definition_name"),
				nums(LightingTechnologyFields[:9]...),
				texts(LightingTechnologyFields[9:]...),
				annotation,
			),
		},
		{
			Name: TableMaterials,
			Key:  "name",
			Columns: columns(
				texts("name", "material_type", "roughness"),
				nums(
					"thickness",
					"conductivity",
					"resistance",
					"density",
					"specific_heat",
					"thermal_absorptance",
					"solar_absorptance",
					"visible_absorptance",
				),
				texts("gas_type"),
				nums("u_factor", "solar_heat_gain_coefficient", "visible_transmittance"),
				texts("optical_data_type"),
				nums(
					"solar_transmittance_at_normal_incidence",
					"front_side_solar_reflectance_at_normal_incidence",
					"back_side_solar_reflectance_at_normal_incidence",
					"visible_transmittance_at_normal_incidence",
					"front_side_visible_reflectance_at_normal_incidence",
					"back_side_visible_reflectance_at_normal_incidence",
					"infrared_transmittance_at_normal_incidence",
					"front_side_infrared_hemispherical_emissivity",
					"back_side_infrared_hemispherical_emissivity",
					"dirt_correction_factor_for_solar_and_visible_transmittance",
				),
				texts("solar_diffusing"),
				nums("frame_width"),
				annotation,
			),
		},
		{
			Name: TableConstructions,
			Key:  "name",
			Columns: columns(
				texts("name", "intended_surface_type", "standards_construction_type", "insulation_layer", "skylight_framing"),
				numbered("material_", 6, text),
				annotation,
			),
		},
		{
			Name: TablePerformanceCurves,
			Key:  "name",
			Columns: columns(
				texts("name", "form"),
				numbered("coeff_", 10, num),
				nums(
					"minimum_independent_variable_1",
					"maximum_independent_variable_1",
					"minimum_independent_variable_2",
					"maximum_independent_variable_2",
					"minimum_dependent_variable_output",
					"maximum_dependent_variable_output",
				),
				annotation,
			),
		},
		{
			Name: TableSchedules,
			Key:  "name",
			Columns: columns(
				texts("name", "category", "units", "day_types", "start_date", "end_date", "type"),
				numbered("hr_", 24, num),
				annotation,
			),
		},
	}
}
