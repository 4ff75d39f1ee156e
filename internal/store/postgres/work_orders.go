package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
)

func (s *Store) FindJobByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT id FROM work_orders WHERE tenant_id = $1 AND external_id = $2
	`, tenantID, externalID).Scan(&id)
	if err != nil {
		return uuid.Nil, wrap("find work order by external id", err)
	}
	return id, nil
}

func (s *Store) FindJobByNumber(ctx context.Context, tenantID uuid.UUID, jobNumber string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		SELECT id FROM work_orders WHERE tenant_id = $1 AND custom_id = $2
	`, tenantID, jobNumber).Scan(&id)
	if err != nil {
		return uuid.Nil, wrap("find work order by number", err)
	}
	return id, nil
}

func (s *Store) InsertJob(ctx context.Context, j records.Job) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO work_orders (
			tenant_id, customer_id, vehicle_id, custom_id, status, complaint, cause, correction,
			labor_total, parts_total, invoice_total, completed_at,
			source_run_id, external_id, confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`,
		j.TenantID, j.CustomerID, j.VehicleID, nullable(j.JobNumber), j.Status,
		nullable(j.Complaint), nullable(j.Cause), nullable(j.Correction),
		j.LaborTotal, j.PartsTotal, j.InvoiceTotal, j.CompletedAt,
		j.Provenance.SourceRunID, nullable(j.Provenance.ExternalID), j.Provenance.Confidence,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrap("insert work order", err)
	}
	return id, nil
}

func (s *Store) UpsertJobLine(ctx context.Context, l records.JobLine) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO work_order_lines (
			tenant_id, work_order_id, description, complaint, cause, correction, status,
			labor_total, parts_total, source_run_id, external_id, confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (tenant_id, external_id) DO UPDATE SET
			work_order_id = EXCLUDED.work_order_id,
			description = EXCLUDED.description,
			complaint = EXCLUDED.complaint,
			cause = EXCLUDED.cause,
			correction = EXCLUDED.correction,
			status = EXCLUDED.status,
			labor_total = EXCLUDED.labor_total,
			parts_total = EXCLUDED.parts_total,
			source_run_id = EXCLUDED.source_run_id,
			confidence = EXCLUDED.confidence,
			updated_at = now()
		RETURNING id
	`,
		l.TenantID, l.JobID, nullable(l.Description), nullable(l.Complaint), nullable(l.Cause), nullable(l.Correction),
		l.Status, l.LaborTotal, l.PartsTotal,
		l.Provenance.SourceRunID, l.Provenance.ExternalID, l.Provenance.Confidence,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrap("upsert work order line", err)
	}
	return id, nil
}

func (s *Store) InvoiceExistsForJob(ctx context.Context, tenantID, jobID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM invoices WHERE tenant_id = $1 AND work_order_id = $2)
	`, tenantID, jobID).Scan(&exists)
	if err != nil {
		return false, wrap("check invoice", err)
	}
	return exists, nil
}

func (s *Store) InsertInvoice(ctx context.Context, inv records.Invoice) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO invoices (
			tenant_id, work_order_id, customer_id, subtotal, labor_cost, parts_cost, total,
			status, issued_at, paid_at, source_run_id, external_id, confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`,
		inv.TenantID, inv.JobID, inv.CustomerID, inv.Subtotal, inv.LaborCost, inv.PartsCost, inv.Total,
		inv.Status, inv.IssuedAt, inv.PaidAt,
		inv.Provenance.SourceRunID, nullable(inv.Provenance.ExternalID), inv.Provenance.Confidence,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrap("insert invoice", err)
	}
	return id, nil
}
