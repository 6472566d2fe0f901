package standards

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"stdsdb/internal/catalog"
	"stdsdb/internal/domain"
	"stdsdb/internal/storage"
)

// ── Space-Type Join ────────────────────────────────────────

// Assembler builds the flattened space type records of one template.
type Assembler struct {
	reg    *storage.Registry
	logger *zap.SugaredLogger
}

// NewAssembler returns an assembler reading from reg.
func NewAssembler(reg *storage.Registry, logger *zap.SugaredLogger) *Assembler {
	return &Assembler{reg: reg, logger: logger}
}

// level3Cache memoises level-3 tables by name for the duration of one call.
type level3Cache map[string]map[int64]domain.Record

func (a *Assembler) level3Row(ctx context.Context, cache level3Cache, table string, id any) (domain.Record, error) {
	rows, ok := cache[table]
	if !ok {
		t, err := a.reg.Handle(ctx, table)
		if err != nil {
			return nil, err
		}
		all, err := t.FetchAll(ctx)
		if err != nil {
			return nil, err
		}
		rows = make(map[int64]domain.Record, len(all))
		for _, r := range all {
			if n, ok := domain.ToFloat(r["id"]); ok {
				rows[int64(n)] = r
			}
		}
		cache[table] = rows
	}
	n, ok := domain.ToFloat(id)
	if !ok {
		return nil, fmt.Errorf("%s: invalid row id %v", table, id)
	}
	row, ok := rows[int64(n)]
	if !ok {
		return nil, fmt.Errorf("%s: no row with id %d", table, int64(n))
	}
	return row, nil
}

func (a *Assembler) fetchByKey(ctx context.Context, table string, value any) ([]domain.Record, error) {
	t, err := a.reg.Handle(ctx, table)
	if err != nil {
		return nil, err
	}
	return t.FetchByKey(ctx, value)
}

// Assemble joins every space type of tmpl. version is the code version used
// as the closest-record target; hierarchy is the fallback walk.
func (a *Assembler) Assemble(ctx context.Context, tmpl domain.Template, version string, hierarchy []string) ([]domain.SpaceType, error) {
	view, err := SpaceView(ctx, a.reg, tmpl.LightingStandardTable, tmpl.VentilationStandardTable)
	if err != nil {
		return nil, err
	}

	cache := level3Cache{}
	seen := make(map[string]bool, len(view))
	var out []domain.SpaceType
	for _, row := range view {
		if seen[row.SpaceTypeName] {
			continue
		}
		seen[row.SpaceTypeName] = true

		st := domain.SpaceType{Template: tmpl.Template, SpaceType: row.SpaceTypeName}
		if err := a.lighting(ctx, cache, &st, row, version, hierarchy); err != nil {
			return nil, fmt.Errorf("space type %q: %w", row.SpaceTypeName, err)
		}
		if err := a.equipment(ctx, &st, row); err != nil {
			return nil, fmt.Errorf("space type %q: %w", row.SpaceTypeName, err)
		}
		if err := a.ventilation(ctx, cache, &st, row, version, hierarchy); err != nil {
			return nil, fmt.Errorf("space type %q: %w", row.SpaceTypeName, err)
		}
		st.ElectricEquipmentSchedule = row.ScheduleSetName + "_equipment"
		st.GasEquipmentSchedule = row.ScheduleSetName + "_equipment"
		st.LightingSchedule = row.ScheduleSetName + "_lighting"
		st.OccupancySchedule = row.ScheduleSetName + "_occupancy"
		out = append(out, st)
	}
	return out, nil
}

func (a *Assembler) lighting(ctx context.Context, cache level3Cache, st *domain.SpaceType, row SpaceViewRow, version string, hierarchy []string) error {
	candidates, err := a.fetchByKey(ctx, catalog.TableLightingSpaceTypes, row.LightingSpaceTypeName)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("lighting space type %q: %w", row.LightingSpaceTypeName, ErrNoClosestRecord)
	}
	sub, err := FindClosest(candidates, "level_3_lighting_code_definition_table", version, hierarchy)
	if err != nil {
		return err
	}
	st.TargetIlluminanceSetpoint = sub["lighting_space_type_target_illuminance_setpoint"]

	def, err := a.level3Row(ctx, cache, sub.String("level_3_lighting_code_definition_table"), sub["level_3_lighting_code_definition_id"])
	if err != nil {
		return err
	}
	lpd := def.FloatOr("lighting_power_density", 0)
	switch unit := strings.ToLower(def.String("lighting_power_density_unit")); unit {
	case "w/ft2":
		st.LightingPerArea = lpd
	case "w/ft":
		st.LightingPerHeight = lpd
	default:
		a.logger.Warnw("unknown lighting power density unit",
			"space_type", row.SpaceTypeName, "unit", unit)
	}
	st.LightingPerPerson = 0
	st.RCR = def["rcr_threshold"]

	techs, err := a.fetchByKey(ctx, catalog.TableLightingTechnologies, sub.String("lighting_technology_name"))
	if err != nil {
		return err
	}
	if len(techs) == 0 {
		a.logger.Warnw("lighting technology not found",
			"space_type", row.SpaceTypeName, "technology", sub.String("lighting_technology_name"))
		return nil
	}
	tech := techs[0]
	st.LightingFractionToReturnAir = tech["lighting_fraction_to_return_air"]
	st.LightingFractionRadiant = tech["lighting_fraction_radiant"]
	st.LightingFractionVisible = tech["lighting_fraction_visible"]
	st.LightingFractionReplaceable = tech["lighting_fraction_replaceable"]
	st.LPDFractionLinearFluorescent = tech["lpd_fraction_linear_fluorescent"]
	st.LPDFractionCompactFluorescent = tech["lpd_fraction_compact_fluorescent"]
	st.LPDFractionHighBay = tech["lpd_fraction_high_bay"]
	st.LPDFractionSpecialtyLighting = tech["lpd_fraction_specialty_lighting"]
	st.LPDFractionExitLighting = tech["lpd_fraction_exit_lighting"]
	st.CompactFluorescentLightingSchedule = tech["compact_fluorescent_lighting_schedule"]
	st.HighBayLightingSchedule = tech["high_bay_lighting_schedule"]
	st.SpecialtyLightingSchedule = tech["specialty_lighting_schedule"]
	st.ExitLightingSchedule = tech["exit_lighting_schedule"]
	return nil
}

// equipment fills plug and gas loads. Both are optional: a missing row
// leaves every derived field at 0.0.
func (a *Assembler) equipment(ctx context.Context, st *domain.SpaceType, row SpaceViewRow) error {
	elec, err := a.fetchByKey(ctx, catalog.TableElectricEquipment, row.ElectricEquipmentSpaceTypeName)
	if err != nil {
		return err
	}
	st.ElectricEquipmentFractionLatent = 0.0
	st.ElectricEquipmentFractionRadiant = 0.0
	st.ElectricEquipmentFractionLost = 0.0
	if len(elec) > 0 {
		e := elec[0]
		st.ElectricEquipmentPerArea = e.FloatOr("electric_equipment_average_epd", 0)
		st.ElectricEquipmentFractionLatent = e["electric_equipment_fraction_latent"]
		st.ElectricEquipmentFractionRadiant = e["electric_equipment_fraction_radiant"]
		st.ElectricEquipmentFractionLost = e["electric_equipment_fraction_lost"]
	}

	gas, err := a.fetchByKey(ctx, catalog.TableNaturalGasEquipment, row.NaturalGasEquipmentSpaceTypeName)
	if err != nil {
		return err
	}
	st.NaturalGasEquipmentFractionLatent = 0.0
	st.NaturalGasEquipmentFractionRadiant = 0.0
	st.NaturalGasEquipmentFractionLost = 0.0
	if len(gas) > 0 {
		g := gas[0]
		st.NaturalGasEquipmentPerArea = g.FloatOr("natural_gas_equipment_average_epd", 0)
		st.NaturalGasEquipmentFractionLatent = g["natural_gas_equipment_fraction_latent"]
		st.NaturalGasEquipmentFractionRadiant = g["natural_gas_equipment_fraction_radiant"]
		st.NaturalGasEquipmentFractionLost = g["natural_gas_equipment_fraction_lost"]
	}
	return nil
}

func (a *Assembler) ventilation(ctx context.Context, cache level3Cache, st *domain.SpaceType, row SpaceViewRow, version string, hierarchy []string) error {
	candidates, err := a.fetchByKey(ctx, catalog.TableVentilationSpaceTypes, row.VentilationSpaceTypeName)
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return fmt.Errorf("ventilation space type %q: %w", row.VentilationSpaceTypeName, ErrNoClosestRecord)
	}
	sub, err := FindClosest(candidates, "level_3_ventilation_definition_table", version, hierarchy)
	if err != nil {
		return err
	}
	def, err := a.level3Row(ctx, cache, sub.String("level_3_ventilation_definition_table"), sub["level_3_ventilation_definition_id"])
	if err != nil {
		return err
	}
	st.VentilationPerPerson = def.FloatOr("ventilation_rate_occupant", 0)
	st.VentilationPerArea = def.FloatOr("ventilation_rate_area", 0)
	st.VentilationAirChanges = 0
	st.OccupancyPerArea = def.FloatOr("occupancy_per_area", 0)
	return nil
}
