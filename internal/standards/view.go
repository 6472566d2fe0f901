package standards

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"stdsdb/internal/catalog"
	"stdsdb/internal/storage"
)

// SpaceViewRow is one space type joined to its lighting and ventilation
// subtypes.
type SpaceViewRow struct {
	SpaceTypeName                    string
	LightingSpaceTypeName            string
	VentilationSpaceTypeName         string
	ElectricEquipmentSpaceTypeName   string
	NaturalGasEquipmentSpaceTypeName string
	ScheduleSetName                  string
	LightingTable                    string
	VentilationTable                 string
}

// SpaceView returns the joined rows whose lighting subtype points at
// lightingTable and whose ventilation subtype points at ventilationTable, in
// space type insertion order.
func SpaceView(ctx context.Context, reg *storage.Registry, lightingTable, ventilationTable string) ([]SpaceViewRow, error) {
	for _, name := range []string{catalog.TableSpaceTypes, catalog.TableLightingSpaceTypes, catalog.TableVentilationSpaceTypes} {
		if _, err := reg.Handle(ctx, name); err != nil {
			return nil, err
		}
	}
	db := reg.DB()
	d := db.Dialect()
	q := d.Quote
	cols := []string{
		"s." + q("space_type_name"),
		"s." + q("lighting_space_type_name"),
		"s." + q("ventilation_space_type_name"),
		"s." + q("electric_equipment_space_type_name"),
		"s." + q("natural_gas_equipment_space_type_name"),
		"s." + q("schedule_set_name"),
		"l." + q("level_3_lighting_code_definition_table"),
		"v." + q("level_3_ventilation_definition_table"),
	}
	query := "SELECT " + strings.Join(cols, ", ") +
		" FROM " + q(catalog.TableSpaceTypes) + " s" +
		" JOIN " + q(catalog.TableLightingSpaceTypes) + " l ON l." + q("lighting_space_type_name") + " = s." + q("lighting_space_type_name") +
		" JOIN " + q(catalog.TableVentilationSpaceTypes) + " v ON v." + q("ventilation_space_type_name") + " = s." + q("ventilation_space_type_name") +
		" WHERE l." + q("level_3_lighting_code_definition_table") + " = " + d.Placeholder(1) +
		" AND v." + q("level_3_ventilation_definition_table") + " = " + d.Placeholder(2) +
		" ORDER BY s.id, l.id, v.id"

	rows, err := db.Conn().QueryContext(ctx, query, lightingTable, ventilationTable)
	if err != nil {
		return nil, fmt.Errorf("space view: %w", err)
	}
	defer rows.Close()

	var out []SpaceViewRow
	for rows.Next() {
		var vals [8]sql.NullString
		ptrs := make([]any, len(vals))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan space view: %w", err)
		}
		out = append(out, SpaceViewRow{
			SpaceTypeName:                    vals[0].String,
			LightingSpaceTypeName:            vals[1].String,
			VentilationSpaceTypeName:         vals[2].String,
			ElectricEquipmentSpaceTypeName:   vals[3].String,
			NaturalGasEquipmentSpaceTypeName: vals[4].String,
			ScheduleSetName:                  vals[5].String,
			LightingTable:                    vals[6].String,
			VentilationTable:                 vals[7].String,
		})
	}
	return out, rows.Err()
}
