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

// importPart writes catalog rows as-is. Parts are never matched against the
// existing inventory; only a re-run of the same run refreshes its own rows.
func (e *Engine) importPart(ctx context.Context, rc *runContext, row tabular.Row) (outcome, error) {
	name := fields.Value(row, fields.PartName)
	number := fields.Value(row, fields.PartNumber)
	sku := fields.Value(row, fields.SKU)

	p := records.Part{
		TenantID:   rc.tenantID,
		Name:       partName(name, number, sku, row.Line),
		PartNumber: number,
		SKU:        sku,
		Supplier:   fields.Value(row, fields.Supplier),
		Category:   fields.Value(row, fields.Category),
		Cost:       normalize.Money(fields.Value(row, fields.Cost)),
		Price:      normalize.Money(fields.Value(row, fields.Price)),
		Provenance: records.Provenance{
			SourceRunID: rc.runID,
			ExternalID:  identity.Row(rc.runID, records.EntityParts, row.Line),
			Confidence:  confidence(name != "", number != "", sku != ""),
		},
	}

	_, created, err := e.store.UpsertPart(ctx, p)
	if err != nil {
		return outcome{}, fmt.Errorf("upsert part: %w", err)
	}
	if created {
		return outcome{result: resultCreated}, nil
	}
	return outcome{result: resultUpdated}, nil
}

func partName(name, number, sku string, line int) string {
	switch {
	case name != "":
		return name
	case number != "":
		return number
	case sku != "":
		return sku
	}
	return fmt.Sprintf("Imported part #%d", line)
}
