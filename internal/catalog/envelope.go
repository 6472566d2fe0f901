package catalog

import "stdsdb/internal/storage"

// TableEnvelopeRequirement holds the version-scoped construction properties.
const TableEnvelopeRequirement = "envelope_requirement"

func envelopeSchemas() []storage.Schema {
	return []storage.Schema{
		versioned(TableEnvelopeRequirement,
			texts(
				"climate_zone_set",
				"intended_surface_type",
				"standards_construction_type",
				"building_category",
				"orientation",
			),
			nums(
				"minimum_percent_of_surface",
				"maximum_percent_of_surface",
				"assembly_maximum_u_value",
			),
			texts(
				"u_value_includes_interior_film_coefficient",
				"u_value_includes_exterior_film_coefficient",
			),
			nums(
				"assembly_maximum_f_factor",
				"assembly_maximum_c_factor",
				"assembly_maximum_solar_heat_gain_coefficient",
				"assembly_minimum_vt_shgc",
			),
		),
	}
}
