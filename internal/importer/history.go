package importer

import (
	"context"
	"errors"
	"fmt"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/fields"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/identity"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/normalize"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/tabular"
)

// importHistory writes a completed job and its single line for a history
// row, then synthesizes an invoice when the row carried money.
func (e *Engine) importHistory(ctx context.Context, rc *runContext, row tabular.Row) (outcome, error) {
	number := fields.Value(row, fields.JobNumber)
	complaint := fields.Value(row, fields.Complaint)
	cause := fields.Value(row, fields.Cause)
	correction := fields.Value(row, fields.Correction)
	description := fields.Value(row, fields.Description)
	labor := normalize.Money(fields.Value(row, fields.LaborTotal))
	parts := normalize.Money(fields.Value(row, fields.PartsTotal))
	total := normalize.Money(fields.Value(row, fields.GrandTotal))

	if number == "" && complaint == "" && cause == "" && correction == "" && description == "" &&
		!labor.Valid && !parts.Valid && !total.Valid {
		return outcome{result: resultSkipped, message: "no job number, work description or totals"}, nil
	}
	if correction == "" {
		correction = description
	}

	externalID := identity.Row(rc.runID, records.EntityHistory, row.Line)
	job := records.Job{
		TenantID:     rc.tenantID,
		JobNumber:    number,
		Status:       records.JobStatusCompleted,
		Complaint:    complaint,
		Cause:        cause,
		Correction:   correction,
		LaborTotal:   labor,
		PartsTotal:   parts,
		InvoiceTotal: total,
		CompletedAt:  normalize.Date(fields.Value(row, fields.JobDate)),
	}
	if id, ok := rc.customers.Resolve(fields.Value(row, fields.OwnerEmail), fields.Value(row, fields.OwnerPhone)); ok {
		job.CustomerID = &id
	}
	if id, ok := rc.vehicles.Resolve(fields.Value(row, fields.VIN), fields.Value(row, fields.Plate)); ok {
		job.VehicleID = &id
	}
	job.Provenance = records.Provenance{
		SourceRunID: rc.runID,
		ExternalID:  externalID,
		Confidence:  confidence(number != "", job.CustomerID != nil, job.VehicleID != nil, job.CompletedAt != nil),
	}

	out := outcome{result: resultCreated}
	ownJob := true
	jobID, err := e.store.FindJobByExternalID(ctx, rc.tenantID, externalID)
	switch {
	case err == nil:
		out = outcome{result: resultSkipped}
	case errors.Is(err, records.ErrNotFound):
		jobID, err = e.store.InsertJob(ctx, job)
		if err != nil {
			if number == "" {
				return outcome{}, fmt.Errorf("insert job: %w", err)
			}
			existing, lookupErr := e.store.FindJobByNumber(ctx, rc.tenantID, number)
			if lookupErr != nil {
				return outcome{}, fmt.Errorf("insert job: %w", err)
			}
			jobID = existing
			ownJob = false
			out = outcome{result: resultSkipped, message: fmt.Sprintf("job number %s already exists", number)}
		}
	default:
		return outcome{}, fmt.Errorf("find job: %w", err)
	}
	job.ID = jobID

	if ownJob {
		if err := e.writeJobLine(ctx, rc, job, description); err != nil {
			return outcome{}, err
		}
	}

	e.synthesizeInvoice(ctx, rc, job, row.Line)
	return out, nil
}

func (e *Engine) writeJobLine(ctx context.Context, rc *runContext, job records.Job, description string) error {
	if description == "" {
		description = firstNonEmpty(job.Correction, job.Complaint, "Imported job")
	}
	line := records.JobLine{
		TenantID:    rc.tenantID,
		JobID:       job.ID,
		Description: description,
		Complaint:   job.Complaint,
		Cause:       job.Cause,
		Correction:  job.Correction,
		Status:      records.JobStatusCompleted,
		LaborTotal:  job.LaborTotal,
		PartsTotal:  job.PartsTotal,
		Provenance: records.Provenance{
			SourceRunID: rc.runID,
			ExternalID:  identity.JobLine(job.Provenance.ExternalID),
			Confidence:  job.Provenance.Confidence,
		},
	}
	if _, err := e.store.UpsertJobLine(ctx, line); err != nil {
		return fmt.Errorf("upsert job line: %w", err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
