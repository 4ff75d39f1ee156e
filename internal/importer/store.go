package importer

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob/core"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/google/uuid"
)

// Store is the relational store an import run reads from and writes to. Every
// call is scoped to one tenant. Lookups that find nothing return
// records.ErrNotFound.
type Store interface {
	GetRunConfig(ctx context.Context, tenantID, runID uuid.UUID) (records.RunConfig, error)
	CompleteRun(ctx context.Context, tenantID, runID uuid.UUID, processedAt time.Time, notes json.RawMessage) error

	LoadCustomerKeys(ctx context.Context, tenantID uuid.UUID, limit int) ([]records.KeyedID, error)
	LoadVehicleKeys(ctx context.Context, tenantID uuid.UUID, limit int) ([]records.KeyedID, error)
	LoadStaffMembers(ctx context.Context, tenantID uuid.UUID, limit int) ([]records.StaffMember, error)

	InsertCustomer(ctx context.Context, c records.Customer) (uuid.UUID, error)
	UpdateCustomer(ctx context.Context, c records.Customer) error
	InsertVehicle(ctx context.Context, v records.Vehicle) (uuid.UUID, error)
	UpdateVehicle(ctx context.Context, v records.Vehicle) error
	// UpsertPart reports whether the part was created rather than refreshed.
	UpsertPart(ctx context.Context, p records.Part) (uuid.UUID, bool, error)

	DeleteStaffSuggestions(ctx context.Context, tenantID, runID uuid.UUID) error
	InsertStaffSuggestion(ctx context.Context, s records.StaffSuggestion) (uuid.UUID, error)

	FindJobByExternalID(ctx context.Context, tenantID uuid.UUID, externalID string) (uuid.UUID, error)
	FindJobByNumber(ctx context.Context, tenantID uuid.UUID, jobNumber string) (uuid.UUID, error)
	InsertJob(ctx context.Context, j records.Job) (uuid.UUID, error)
	UpsertJobLine(ctx context.Context, l records.JobLine) (uuid.UUID, error)
	InvoiceExistsForJob(ctx context.Context, tenantID, jobID uuid.UUID) (bool, error)
	InsertInvoice(ctx context.Context, inv records.Invoice) (uuid.UUID, error)

	Watermarks(ctx context.Context, tenantID, runID uuid.UUID) (map[records.Entity]int, error)
	SaveWatermark(ctx context.Context, tenantID, runID uuid.UUID, entity records.Entity, line int) error
	ClearWatermarks(ctx context.Context, tenantID, runID uuid.UUID) error
}

// Files is the read side of the blob store holding uploaded files.
type Files interface {
	Get(ctx context.Context, key string) (core.Info, io.ReadCloser, error)
}
