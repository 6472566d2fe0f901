package catalog

import "stdsdb/internal/storage"

// Version-scoped HVAC minimum requirement tables.
const (
	TableChillers                    = "hvac_minimum_requirement_chillers_90_1"
	TableBoilers                     = "hvac_minimum_requirement_boilers_90_1"
	TableFurnaces                    = "hvac_minimum_requirement_furnaces_90_1"
	TableHeatRejection               = "hvac_minimum_requirement_heat_rejection_90_1"
	TableMotors                      = "hvac_minimum_requirement_motors_90_1"
	TableUnitaryAirConditioners      = "hvac_minimum_requirement_unitary_air_conditioners_90_1"
	TableWaterSourceHeatPumpsHeating = "hvac_minimum_requirement_water_source_heat_pumps_heating_90_1"
	TableWaterSourceHeatPumpsCooling = "hvac_minimum_requirement_water_source_heat_pumps_cooling_90_1"
	TableWaterHeaters                = "hvac_minimum_requirement_water_heaters_90_1"
	TableHeatPumpCooling             = "hvac_minimum_requirement_heat_pump_cooling_90_1"
	TableHeatPumpHeating             = "hvac_minimum_requirement_heat_pump_heating_90_1"
	TableEconomizers                 = "system_requirement_economizer_90_1"
	TableEnergyRecovery              = "system_requirement_energy_recovery_90_1"
)

var (
	capacityRange = nums("minimum_capacity", "maximum_capacity")
	dateRange     = texts("start_date", "end_date")
)

func hvacSchemas() []storage.Schema {
	return []storage.Schema{
		versioned(TableChillers,
			texts("cooling_type", "condenser_type", "compressor_type", "absorption_type", "variable_speed_drive"),
			capacityRange, dateRange,
			nums("minimum_full_load_efficiency", "minimum_integrated_part_load_value"),
			texts("capft", "eirft", "eirfplr"),
		),
		versioned(TableBoilers,
			texts("fuel_type", "fluid_type", "condensing"),
			capacityRange, dateRange,
			nums("minimum_annual_fuel_utilization_efficiency", "minimum_thermal_efficiency", "minimum_combustion_efficiency"),
		),
		versioned(TableFurnaces,
			capacityRange, dateRange,
			nums("minimum_annual_fuel_utilization_efficiency", "minimum_thermal_efficiency", "minimum_combustion_efficiency"),
		),
		versioned(TableHeatRejection,
			texts("equipment_type", "fan_type", "test_fluid"),
			dateRange,
			nums("minimum_performance"),
		),
		versioned(TableMotors,
			nums("number_of_poles"),
			texts("type"),
			nums("synchronous_speed"),
			capacityRange,
			nums("nominal_full_load_efficiency"),
		),
		versioned(TableUnitaryAirConditioners,
			texts("cooling_type", "heating_type", "subcategory"),
			capacityRange, dateRange,
			nums(
				"minimum_seasonal_energy_efficiency_ratio",
				"minimum_energy_efficiency_ratio",
				"minimum_integrated_energy_efficiency_ratio",
			),
		),
		versioned(TableWaterSourceHeatPumpsHeating,
			capacityRange, dateRange,
			nums("minimum_coefficient_of_performance_heating"),
		),
		versioned(TableWaterSourceHeatPumpsCooling,
			capacityRange, dateRange,
			nums("minimum_energy_efficiency_ratio"),
		),
		versioned(TableWaterHeaters,
			texts("equipment_type", "fuel_type", "product_class"),
			capacityRange,
			nums(
				"minimum_volume",
				"maximum_volume",
				"minimum_capacity_per_volume",
				"maximum_capacity_per_volume",
			),
			texts("draw_profile"),
			dateRange,
			nums(
				"uniform_energy_factor",
				"energy_factor",
				"thermal_efficiency",
				"standby_loss_base",
				"standby_loss_capacity_allowance",
				"standby_loss_volume_allowance",
				"hourly_loss_base",
				"hourly_loss_volume_allowance",
			),
		),
		versioned(TableHeatPumpCooling,
			texts("cooling_type", "heating_type", "subcategory"),
			capacityRange, dateRange,
			nums(
				"minimum_seasonal_energy_efficiency_ratio",
				"minimum_energy_efficiency_ratio",
				"minimum_integrated_energy_efficiency_ratio",
			),
		),
		versioned(TableHeatPumpHeating,
			texts("cooling_type", "subcategory"),
			capacityRange, dateRange,
			nums("minimum_heating_seasonal_performance_factor", "minimum_coefficient_of_performance_heating"),
		),
		versioned(TableEconomizers,
			texts("climate_zone", "data_center"),
			nums(
				"capacity_limit",
				"fixed_dry_bulb_high_limit_shutoff_temp",
				"enthalpy_high_limit_shutoff",
				"dewpoint_high_limit_shutoff_temp",
			),
		),
		versioned(TableEnergyRecovery,
			texts("climate_zone", "under_8000_hours", "nontransient_dwelling"),
			nums(
				"enthalpy_recovery_ratio_design_conditions",
				"0_to_10_percent_oa",
				"10_to_20_percent_oa",
				"20_to_30_percent_oa",
				"30_to_40_percent_oa",
				"40_to_50_percent_oa",
				"50_to_60_percent_oa",
				"60_to_70_percent_oa",
				"70_to_80_percent_oa",
				"greater_than_80_percent_oa",
			),
		),
	}
}
