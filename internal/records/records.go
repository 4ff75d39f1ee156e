// Package records holds the tenant-scoped rows the onboarding import reads and
// writes. Identifiers are opaque handles owned by the relational store.
package records

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a write that collides with a unique key.
	ErrConflict = errors.New("unique constraint violation")
)

type Entity string

const (
	EntityCustomers Entity = "customers"
	EntityVehicles  Entity = "vehicles"
	EntityParts     Entity = "parts"
	EntityStaff     Entity = "staff"
	EntityHistory   Entity = "history"
	EntityInvoices  Entity = "invoices"
)

// FileEntities lists the entity types that arrive as uploaded files, in the
// order an import run processes them.
var FileEntities = []Entity{EntityCustomers, EntityVehicles, EntityParts, EntityStaff, EntityHistory}

const (
	JobStatusCompleted = "completed"
	InvoiceStatusPaid  = "paid"
)

// Provenance ties a record to the import run and source row that produced or
// last touched it.
type Provenance struct {
	SourceRunID uuid.UUID
	ExternalID  string
	Confidence  float64
}

type Customer struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	FirstName    string
	LastName     string
	Name         string
	BusinessName string
	Email        string
	Phone        string
	IsFleet      bool
	Provenance   Provenance
}

type Vehicle struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	CustomerID  *uuid.UUID
	VIN         string
	Plate       string
	Year        *int64
	Make        string
	Model       string
	UnitNumber  string
	Mileage     *int64
	EngineHours decimal.NullDecimal
	Provenance  Provenance
}

type Part struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	Name       string
	PartNumber string
	SKU        string
	Supplier   string
	Category   string
	Cost       decimal.NullDecimal
	Price      decimal.NullDecimal
	Provenance Provenance
}

type StaffSuggestion struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	RunID      uuid.UUID
	FullName   string
	Email      string
	Role       string
	Notes      string
	Provenance Provenance
}

// StaffMember is an existing member of the tenant's staff, used only to flag
// suggestions for people who already have access.
type StaffMember struct {
	ID       uuid.UUID
	FullName string
	Email    string
}

type Job struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	CustomerID   *uuid.UUID
	VehicleID    *uuid.UUID
	JobNumber    string
	Status       string
	Complaint    string
	Cause        string
	Correction   string
	LaborTotal   decimal.NullDecimal
	PartsTotal   decimal.NullDecimal
	InvoiceTotal decimal.NullDecimal
	CompletedAt  *time.Time
	Provenance   Provenance
}

type JobLine struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	JobID       uuid.UUID
	Description string
	Complaint   string
	Cause       string
	Correction  string
	Status      string
	LaborTotal  decimal.NullDecimal
	PartsTotal  decimal.NullDecimal
	Provenance  Provenance
}

type Invoice struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	JobID      uuid.UUID
	CustomerID *uuid.UUID
	Subtotal   decimal.Decimal
	LaborCost  decimal.Decimal
	PartsCost  decimal.Decimal
	Total      decimal.Decimal
	Status     string
	IssuedAt   time.Time
	PaidAt     time.Time
	Provenance Provenance
}

// KeyedID is one row of a natural-key lookup table: an identifier plus the
// raw key values stored for it.
type KeyedID struct {
	ID   uuid.UUID
	Keys []string
}

// RunConfig is the run-configuration record that associates uploaded files
// with an import run.
type RunConfig struct {
	ID          uuid.UUID
	TenantID    uuid.UUID
	Files       map[Entity]string
	Notes       json.RawMessage
	ProcessedAt *time.Time
	CreatedAt   time.Time
}

// FilePath returns the stored path for entity, or "" when none was uploaded.
func (c RunConfig) FilePath(entity Entity) string {
	if c.Files == nil {
		return ""
	}
	return c.Files[entity]
}
