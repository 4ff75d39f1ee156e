package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
)

// UpsertPart keys parts on (tenant_id, external_id). xmax is zero only for a
// freshly inserted tuple, which tells a create apart from a refresh.
func (s *Store) UpsertPart(ctx context.Context, p records.Part) (uuid.UUID, bool, error) {
	var (
		id      uuid.UUID
		created bool
	)
	err := s.pool.QueryRow(ctx, `
		INSERT INTO parts (
			tenant_id, name, part_number, sku, supplier, category, cost, price,
			source_run_id, external_id, confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (tenant_id, external_id) DO UPDATE SET
			name = EXCLUDED.name,
			part_number = EXCLUDED.part_number,
			sku = EXCLUDED.sku,
			supplier = EXCLUDED.supplier,
			category = EXCLUDED.category,
			cost = EXCLUDED.cost,
			price = EXCLUDED.price,
			source_run_id = EXCLUDED.source_run_id,
			confidence = EXCLUDED.confidence,
			updated_at = now()
		RETURNING id, (xmax = 0)
	`,
		p.TenantID, p.Name, nullable(p.PartNumber), nullable(p.SKU), nullable(p.Supplier), nullable(p.Category),
		p.Cost, p.Price,
		p.Provenance.SourceRunID, p.Provenance.ExternalID, p.Provenance.Confidence,
	).Scan(&id, &created)
	if err != nil {
		return uuid.Nil, false, wrap("upsert part", err)
	}
	return id, created, nil
}
