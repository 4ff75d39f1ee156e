package importer

import (
	"context"
	"fmt"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/fields"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/identity"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/normalize"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/tabular"
)

func (e *Engine) importVehicle(ctx context.Context, rc *runContext, row tabular.Row) (outcome, error) {
	vin := fields.Value(row, fields.VIN)
	plate := fields.Value(row, fields.Plate)
	year := normalize.Integer(fields.Value(row, fields.Year))
	brand := fields.Value(row, fields.Make)
	model := fields.Value(row, fields.Model)

	if vin == "" && plate == "" && year == nil && brand == "" && model == "" {
		return outcome{result: resultSkipped, message: "no vin, plate, year, make or model"}, nil
	}

	v := records.Vehicle{
		TenantID:    rc.tenantID,
		VIN:         vin,
		Plate:       plate,
		Year:        year,
		Make:        brand,
		Model:       model,
		UnitNumber:  fields.Value(row, fields.UnitNumber),
		Mileage:     normalize.Integer(fields.Value(row, fields.Mileage)),
		EngineHours: normalize.Money(fields.Value(row, fields.EngineHours)),
		Provenance: records.Provenance{
			SourceRunID: rc.runID,
			ExternalID:  identity.Row(rc.runID, records.EntityVehicles, row.Line),
			Confidence:  confidence(vin != "", plate != "", year != nil, brand != "", model != ""),
		},
	}
	if owner, ok := rc.customers.Resolve(fields.Value(row, fields.OwnerEmail), fields.Value(row, fields.OwnerPhone)); ok {
		v.CustomerID = &owner
	}

	if id, ok := rc.vehicles.Resolve(vin, plate); ok {
		v.ID = id
		if err := e.store.UpdateVehicle(ctx, v); err != nil {
			return outcome{}, fmt.Errorf("update vehicle: %w", err)
		}
		rc.vehicles.Register(id, vin, plate)
		return outcome{result: resultUpdated}, nil
	}

	id, err := e.store.InsertVehicle(ctx, v)
	if err != nil {
		return outcome{}, fmt.Errorf("insert vehicle: %w", err)
	}
	rc.vehicles.Register(id, vin, plate)
	return outcome{result: resultCreated}, nil
}
