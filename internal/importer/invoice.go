package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/identity"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/normalize"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/shopspring/decimal"
)

// synthesizeInvoice derives a paid invoice from a history job. Rows without
// a positive amount get none, and a job that already has an invoice keeps
// it unchanged. Failures are counted against invoices and never undo the job.
func (e *Engine) synthesizeInvoice(ctx context.Context, rc *runContext, job records.Job, line int) {
	inv, ok := buildInvoice(job, e.now())
	if !ok {
		return
	}
	inv.Provenance = records.Provenance{
		SourceRunID: rc.runID,
		ExternalID:  identity.Row(rc.runID, records.EntityInvoices, line),
		Confidence:  job.Provenance.Confidence,
	}

	out, err := e.insertInvoice(ctx, rc, inv)
	if err != nil {
		out = outcome{result: resultError, message: err.Error()}
		rc.log.Warn("import_invoice_failed", "row", line, "job_id", job.ID, "error", err)
	}
	e.record(rc, records.EntityInvoices, line, out)
}

func (e *Engine) insertInvoice(ctx context.Context, rc *runContext, inv records.Invoice) (outcome, error) {
	exists, err := e.store.InvoiceExistsForJob(ctx, rc.tenantID, inv.JobID)
	if err != nil {
		return outcome{}, fmt.Errorf("check invoice: %w", err)
	}
	if exists {
		return outcome{result: resultSkipped}, nil
	}
	if _, err := e.store.InsertInvoice(ctx, inv); err != nil {
		return outcome{}, fmt.Errorf("insert invoice: %w", err)
	}
	return outcome{result: resultCreated}, nil
}

// buildInvoice applies the money rules: subtotal is labor plus parts floored
// at zero, and total falls back to the subtotal when the row had none.
func buildInvoice(job records.Job, now time.Time) (records.Invoice, bool) {
	if !normalize.Positive(job.LaborTotal) && !normalize.Positive(job.PartsTotal) && !normalize.Positive(job.InvoiceTotal) {
		return records.Invoice{}, false
	}

	labor := amount(job.LaborTotal)
	parts := amount(job.PartsTotal)
	subtotal := decimal.Max(decimal.Zero, labor.Add(parts))
	total := subtotal
	if job.InvoiceTotal.Valid {
		total = job.InvoiceTotal.Decimal
	}
	issued := now
	if job.CompletedAt != nil {
		issued = *job.CompletedAt
	}

	return records.Invoice{
		TenantID:   job.TenantID,
		JobID:      job.ID,
		CustomerID: job.CustomerID,
		Subtotal:   subtotal,
		LaborCost:  labor,
		PartsCost:  parts,
		Total:      total,
		Status:     records.InvoiceStatusPaid,
		IssuedAt:   issued,
		PaidAt:     issued,
	}, true
}

func amount(v decimal.NullDecimal) decimal.Decimal {
	if !v.Valid {
		return decimal.Zero
	}
	return v.Decimal
}
