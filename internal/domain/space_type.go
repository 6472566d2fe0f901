package domain

// SpaceType is the flattened per-space record the energy-modeling library
// reads from <code>_<version>.space_types.json. Fields copied verbatim from
// the store keep their stored type, hence any.
type SpaceType struct {
	Template                  string `json:"template"`
	SpaceType                 string `json:"space_type"`
	TargetIlluminanceSetpoint any    `json:"target_illuminance_setpoint"`

	LightingPerArea   float64 `json:"lighting_per_area"`
	LightingPerHeight float64 `json:"lighting_per_height"`
	LightingPerPerson float64 `json:"lighting_per_person"`
	RCR               any     `json:"rcr"`

	LightingFractionToReturnAir        any `json:"lighting_fraction_to_return_air"`
	LightingFractionRadiant            any `json:"lighting_fraction_radiant"`
	LightingFractionVisible            any `json:"lighting_fraction_visible"`
	LightingFractionReplaceable        any `json:"lighting_fraction_replaceable"`
	LPDFractionLinearFluorescent       any `json:"lpd_fraction_linear_fluorescent"`
	LPDFractionCompactFluorescent      any `json:"lpd_fraction_compact_fluorescent"`
	LPDFractionHighBay                 any `json:"lpd_fraction_high_bay"`
	LPDFractionSpecialtyLighting       any `json:"lpd_fraction_specialty_lighting"`
	LPDFractionExitLighting            any `json:"lpd_fraction_exit_lighting"`
	CompactFluorescentLightingSchedule any `json:"compact_fluorescent_lighting_schedule"`
	HighBayLightingSchedule            any `json:"high_bay_lighting_schedule"`
	SpecialtyLightingSchedule          any `json:"specialty_lighting_schedule"`
	ExitLightingSchedule               any `json:"exit_lighting_schedule"`

	ElectricEquipmentPerArea           float64 `json:"electric_equipment_per_area"`
	ElectricEquipmentFractionLatent    any     `json:"electric_equipment_fraction_latent"`
	ElectricEquipmentFractionRadiant   any     `json:"electric_equipment_fraction_radiant"`
	ElectricEquipmentFractionLost      any     `json:"electric_equipment_fraction_lost"`
	NaturalGasEquipmentPerArea         float64 `json:"natural_gas_equipment_per_area"`
	NaturalGasEquipmentFractionLatent  any     `json:"natural_gas_equipment_fraction_latent"`
	NaturalGasEquipmentFractionRadiant any     `json:"natural_gas_equipment_fraction_radiant"`
	NaturalGasEquipmentFractionLost    any     `json:"natural_gas_equipment_fraction_lost"`

	VentilationPerPerson  float64 `json:"ventilation_per_person"`
	VentilationPerArea    float64 `json:"ventilation_per_area"`
	VentilationAirChanges float64 `json:"ventilation_air_changes"`
	OccupancyPerArea      float64 `json:"occupancy_per_area"`

	ElectricEquipmentSchedule string `json:"electric_equipment_schedule"`
	GasEquipmentSchedule      string `json:"gas_equipment_schedule"`
	LightingSchedule          string `json:"lighting_schedule"`
	OccupancySchedule         string `json:"occupancy_schedule"`
}
