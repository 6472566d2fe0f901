package catalog

import "stdsdb/internal/storage"

func lightingLevel3(name string) storage.Schema {
	return storage.Schema{
		Name: name,
		Columns: columns(
			texts("lighting_primary_space_type", "lighting_secondary_space_type"),
			nums("lighting_power_density"),
			texts("lighting_power_density_unit"),
			nums("rcr_threshold"),
			annotation,
		),
	}
}

func ventilationLevel3(name string) storage.Schema {
	return storage.Schema{
		Name: name,
		Columns: columns(
			texts("ventilation_primary_space_type", "ventilation_secondary_space_type"),
			nums("ventilation_rate_occupant"),
			texts("ventilation_rate_occupant_unit"),
			nums("ventilation_rate_area"),
			texts("ventilation_rate_area_unit"),
			nums("occupancy_per_area"),
			texts("occupancy_per_area_unit", "air_class", "os_flag"),
			annotation,
		),
	}
}

func equipmentSchemas() []storage.Schema {
	return []storage.Schema{
		{
			Name: TableElectricEquipment,
			Key:  "electric_equipment_space_type_name",
			Columns: columns(
				texts("electric_equipment_space_type_name"),
				nums("electric_equipment_average_epd"),
				texts("electric_equipment_average_epd_unit"),
				nums(
					"electric_equipment_fraction_latent",
					"electric_equipment_fraction_radiant",
					"electric_equipment_fraction_lost",
				),
				annotation,
			),
		},
		{
			Name: TableNaturalGasEquipment,
			Key:  "natural_gas_equipment_space_type_name",
			Columns: columns(
				texts("natural_gas_equipment_space_type_name"),
				nums("natural_gas_equipment_average_epd"),
				texts("natural_gas_equipment_average_epd_unit"),
				nums(
					"natural_gas_equipment_fraction_latent",
					"natural_gas_equipment_fraction_radiant",
					"natural_gas_equipment_fraction_lost",
				),
				annotation,
			),
		},
	}
}

func spaceTypeSchemas() []storage.Schema {
	return []storage.Schema{
		{
			Name: TableLightingSpaceTypes,
			Key:  "lighting_space_type_name",
			Columns: columns(
				texts("lighting_space_type_name"),
				nums("lighting_space_type_target_illuminance_setpoint"),
				texts("lighting_space_type_target_illuminance_setpoint_unit", "level_3_lighting_code_definition_table"),
				[]storage.Column{integer("level_3_lighting_code_definition_id")},
				texts("lighting_technology_name"),
				annotation,
			),
			References: []storage.Reference{
				{
					TableField: "level_3_lighting_code_definition_table",
					Column:     "id",
					ValueField: "level_3_lighting_code_definition_id",
				},
				{
					Table:      TableLightingTechnologies,
					Column:     "lighting_technology_definition_name",
					ValueField: "lighting_technology_name",
				},
			},
		},
		{
			Name: TableVentilationSpaceTypes,
			Key:  "ventilation_space_type_name",
			Columns: columns(
				texts("ventilation_space_type_name", "level_3_ventilation_definition_table"),
				[]storage.Column{integer("level_3_ventilation_definition_id")},
				annotation,
			),
			References: []storage.Reference{{
				TableField: "level_3_ventilation_definition_table",
				Column:     "id",
				ValueField: "level_3_ventilation_definition_id",
			}},
		},
		{
			Name: TableSpaceTypes,
			Key:  "space_type_name",
			Columns: columns(texts(
				"space_type_name",
				"lighting_space_type_name",
				"ventilation_space_type_name",
				"electric_equipment_space_type_name",
				"natural_gas_equipment_space_type_name",
				"schedule_set_name",
			), annotation),
			References: []storage.Reference{
				{Table: TableLightingSpaceTypes, Column: "lighting_space_type_name", ValueField: "lighting_space_type_name"},
				{Table: TableVentilationSpaceTypes, Column: "ventilation_space_type_name", ValueField: "ventilation_space_type_name"},
			},
		},
	}
}
