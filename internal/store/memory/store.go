// Package memory is an in-process implementation of the import store. It is
// the test double for the engine and HTTP tests, with call counting and
// injected failures; services always run on the Postgres store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/audit"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/google/uuid"
)

// ErrConflict mirrors a unique constraint violation in the relational store.
var ErrConflict = records.ErrConflict

type watermarkKey struct {
	runID  uuid.UUID
	entity records.Entity
}

type Store struct {
	mu sync.Mutex

	runs        map[uuid.UUID]records.RunConfig
	customers   map[uuid.UUID]records.Customer
	vehicles    map[uuid.UUID]records.Vehicle
	parts       map[uuid.UUID]records.Part
	staff       map[uuid.UUID]records.StaffMember
	staffTenant map[uuid.UUID]uuid.UUID
	suggestions map[uuid.UUID]records.StaffSuggestion
	jobs        map[uuid.UUID]records.Job
	jobLines    map[uuid.UUID]records.JobLine
	invoices    map[uuid.UUID]records.Invoice
	watermarks  map[watermarkKey]int
	auditRows   []audit.Row

	order    map[uuid.UUID]int
	seq      int
	calls    map[string]int
	failures map[string]error
}

func New() *Store {
	return &Store{
		runs:        make(map[uuid.UUID]records.RunConfig),
		customers:   make(map[uuid.UUID]records.Customer),
		vehicles:    make(map[uuid.UUID]records.Vehicle),
		parts:       make(map[uuid.UUID]records.Part),
		staff:       make(map[uuid.UUID]records.StaffMember),
		staffTenant: make(map[uuid.UUID]uuid.UUID),
		suggestions: make(map[uuid.UUID]records.StaffSuggestion),
		jobs:        make(map[uuid.UUID]records.Job),
		jobLines:    make(map[uuid.UUID]records.JobLine),
		invoices:    make(map[uuid.UUID]records.Invoice),
		watermarks:  make(map[watermarkKey]int),
		order:       make(map[uuid.UUID]int),
		calls:       make(map[string]int),
		failures:    make(map[string]error),
	}
}

// Fail makes every later call to method return err. A nil err clears it.
func (s *Store) Fail(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

// Calls reports how many times method has been invoked.
func (s *Store) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// enter records the call and returns any injected failure. Callers hold mu.
func (s *Store) enter(method string) error {
	s.calls[method]++
	return s.failures[method]
}

func (s *Store) newID() uuid.UUID {
	id := uuid.New()
	s.seq++
	s.order[id] = s.seq
	return id
}

// --- run configuration ---

func (s *Store) CreateRunConfig(_ context.Context, cfg records.RunConfig) (records.RunConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CreateRunConfig"); err != nil {
		return records.RunConfig{}, err
	}
	if cfg.ID == uuid.Nil {
		cfg.ID = s.newID()
	}
	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = time.Now().UTC()
	}
	s.runs[cfg.ID] = cfg
	return cfg, nil
}

func (s *Store) GetRunConfig(_ context.Context, tenantID, runID uuid.UUID) (records.RunConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetRunConfig"); err != nil {
		return records.RunConfig{}, err
	}
	cfg, ok := s.runs[runID]
	if !ok || cfg.TenantID != tenantID {
		return records.RunConfig{}, records.ErrNotFound
	}
	return cfg, nil
}

func (s *Store) CompleteRun(_ context.Context, tenantID, runID uuid.UUID, processedAt time.Time, notes json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CompleteRun"); err != nil {
		return err
	}
	cfg, ok := s.runs[runID]
	if !ok || cfg.TenantID != tenantID {
		return records.ErrNotFound
	}
	at := processedAt
	cfg.ProcessedAt = &at
	cfg.Notes = notes
	s.runs[runID] = cfg
	return nil
}

// --- lookups ---

func (s *Store) LoadCustomerKeys(_ context.Context, tenantID uuid.UUID, limit int) ([]records.KeyedID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("LoadCustomerKeys"); err != nil {
		return nil, err
	}
	var out []records.KeyedID
	for _, c := range sortedValues(s.customers, s.order) {
		if c.TenantID != tenantID || (c.Email == "" && c.Phone == "") {
			continue
		}
		out = append(out, records.KeyedID{ID: c.ID, Keys: []string{c.Email, c.Phone}})
	}
	return capped(out, limit), nil
}

func (s *Store) LoadVehicleKeys(_ context.Context, tenantID uuid.UUID, limit int) ([]records.KeyedID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("LoadVehicleKeys"); err != nil {
		return nil, err
	}
	var out []records.KeyedID
	for _, v := range sortedValues(s.vehicles, s.order) {
		if v.TenantID != tenantID || (v.VIN == "" && v.Plate == "") {
			continue
		}
		out = append(out, records.KeyedID{ID: v.ID, Keys: []string{v.VIN, v.Plate}})
	}
	return capped(out, limit), nil
}

func (s *Store) LoadStaffMembers(_ context.Context, tenantID uuid.UUID, limit int) ([]records.StaffMember, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("LoadStaffMembers"); err != nil {
		return nil, err
	}
	var out []records.StaffMember
	for _, m := range sortedValues(s.staff, s.order) {
		if s.staffTenant[m.ID] == tenantID {
			out = append(out, m)
		}
	}
	return capped(out, limit), nil
}

// AddStaffMember seeds an existing staff member.
func (s *Store) AddStaffMember(tenantID uuid.UUID, m records.StaffMember) records.StaffMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = s.newID()
	}
	s.staff[m.ID] = m
	s.staffTenant[m.ID] = tenantID
	return m
}

// --- customers & vehicles ---

// AddCustomer seeds an existing customer.
func (s *Store) AddCustomer(c records.Customer) records.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = s.newID()
	}
	s.customers[c.ID] = c
	return c
}

// AddVehicle seeds an existing vehicle.
func (s *Store) AddVehicle(v records.Vehicle) records.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v.ID == uuid.Nil {
		v.ID = s.newID()
	}
	s.vehicles[v.ID] = v
	return v
}

func (s *Store) InsertCustomer(_ context.Context, c records.Customer) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertCustomer"); err != nil {
		return uuid.Nil, err
	}
	c.ID = s.newID()
	s.customers[c.ID] = c
	return c.ID, nil
}

// UpdateCustomer overwrites only the fields the import supplied.
func (s *Store) UpdateCustomer(_ context.Context, c records.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateCustomer"); err != nil {
		return err
	}
	cur, ok := s.customers[c.ID]
	if !ok || cur.TenantID != c.TenantID {
		return records.ErrNotFound
	}
	cur.FirstName = coalesce(c.FirstName, cur.FirstName)
	cur.LastName = coalesce(c.LastName, cur.LastName)
	cur.Name = coalesce(c.Name, cur.Name)
	cur.BusinessName = coalesce(c.BusinessName, cur.BusinessName)
	cur.Email = coalesce(c.Email, cur.Email)
	cur.Phone = coalesce(c.Phone, cur.Phone)
	cur.IsFleet = cur.IsFleet || c.IsFleet
	cur.Provenance = c.Provenance
	s.customers[c.ID] = cur
	return nil
}

func (s *Store) InsertVehicle(_ context.Context, v records.Vehicle) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertVehicle"); err != nil {
		return uuid.Nil, err
	}
	v.ID = s.newID()
	s.vehicles[v.ID] = v
	return v.ID, nil
}

func (s *Store) UpdateVehicle(_ context.Context, v records.Vehicle) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateVehicle"); err != nil {
		return err
	}
	cur, ok := s.vehicles[v.ID]
	if !ok || cur.TenantID != v.TenantID {
		return records.ErrNotFound
	}
	if v.CustomerID != nil {
		cur.CustomerID = v.CustomerID
	}
	cur.VIN = coalesce(v.VIN, cur.VIN)
	cur.Plate = coalesce(v.Plate, cur.Plate)
	if v.Year != nil {
		cur.Year = v.Year
	}
	cur.Make = coalesce(v.Make, cur.Make)
	cur.Model = coalesce(v.Model, cur.Model)
	cur.UnitNumber = coalesce(v.UnitNumber, cur.UnitNumber)
	if v.Mileage != nil {
		cur.Mileage = v.Mileage
	}
	if v.EngineHours.Valid {
		cur.EngineHours = v.EngineHours
	}
	cur.Provenance = v.Provenance
	s.vehicles[v.ID] = cur
	return nil
}

// --- parts ---

func (s *Store) UpsertPart(_ context.Context, p records.Part) (uuid.UUID, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpsertPart"); err != nil {
		return uuid.Nil, false, err
	}
	for id, cur := range s.parts {
		if cur.TenantID == p.TenantID && cur.Provenance.ExternalID == p.Provenance.ExternalID {
			p.ID = id
			s.parts[id] = p
			return id, false, nil
		}
	}
	p.ID = s.newID()
	s.parts[p.ID] = p
	return p.ID, true, nil
}

// --- staff suggestions ---

func (s *Store) DeleteStaffSuggestions(_ context.Context, tenantID, runID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("DeleteStaffSuggestions"); err != nil {
		return err
	}
	for id, sg := range s.suggestions {
		if sg.TenantID == tenantID && sg.RunID == runID {
			delete(s.suggestions, id)
		}
	}
	return nil
}

func (s *Store) InsertStaffSuggestion(_ context.Context, sg records.StaffSuggestion) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertStaffSuggestion"); err != nil {
		return uuid.Nil, err
	}
	for _, cur := range s.suggestions {
		if cur.TenantID == sg.TenantID && cur.Provenance.ExternalID == sg.Provenance.ExternalID {
			return uuid.Nil, fmt.Errorf("staff suggestion %s: %w", sg.Provenance.ExternalID, ErrConflict)
		}
	}
	sg.ID = s.newID()
	s.suggestions[sg.ID] = sg
	return sg.ID, nil
}

// --- jobs & invoices ---

func (s *Store) FindJobByExternalID(_ context.Context, tenantID uuid.UUID, externalID string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindJobByExternalID"); err != nil {
		return uuid.Nil, err
	}
	for id, j := range s.jobs {
		if j.TenantID == tenantID && j.Provenance.ExternalID == externalID {
			return id, nil
		}
	}
	return uuid.Nil, records.ErrNotFound
}

func (s *Store) FindJobByNumber(_ context.Context, tenantID uuid.UUID, jobNumber string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("FindJobByNumber"); err != nil {
		return uuid.Nil, err
	}
	for id, j := range s.jobs {
		if j.TenantID == tenantID && j.JobNumber != "" && j.JobNumber == jobNumber {
			return id, nil
		}
	}
	return uuid.Nil, records.ErrNotFound
}

func (s *Store) InsertJob(_ context.Context, j records.Job) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertJob"); err != nil {
		return uuid.Nil, err
	}
	for _, cur := range s.jobs {
		if cur.TenantID != j.TenantID {
			continue
		}
		if j.JobNumber != "" && cur.JobNumber == j.JobNumber {
			return uuid.Nil, fmt.Errorf("job number %s: %w", j.JobNumber, ErrConflict)
		}
		if cur.Provenance.ExternalID == j.Provenance.ExternalID {
			return uuid.Nil, fmt.Errorf("job %s: %w", j.Provenance.ExternalID, ErrConflict)
		}
	}
	j.ID = s.newID()
	s.jobs[j.ID] = j
	return j.ID, nil
}

// AddJob seeds an existing job, such as live work entered by hand.
func (s *Store) AddJob(j records.Job) records.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j.ID == uuid.Nil {
		j.ID = s.newID()
	}
	s.jobs[j.ID] = j
	return j
}

func (s *Store) UpsertJobLine(_ context.Context, l records.JobLine) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpsertJobLine"); err != nil {
		return uuid.Nil, err
	}
	for id, cur := range s.jobLines {
		if cur.TenantID == l.TenantID && cur.Provenance.ExternalID == l.Provenance.ExternalID {
			l.ID = id
			s.jobLines[id] = l
			return id, nil
		}
	}
	l.ID = s.newID()
	s.jobLines[l.ID] = l
	return l.ID, nil
}

func (s *Store) InvoiceExistsForJob(_ context.Context, tenantID, jobID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InvoiceExistsForJob"); err != nil {
		return false, err
	}
	for _, inv := range s.invoices {
		if inv.TenantID == tenantID && inv.JobID == jobID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) InsertInvoice(_ context.Context, inv records.Invoice) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertInvoice"); err != nil {
		return uuid.Nil, err
	}
	for _, cur := range s.invoices {
		if cur.JobID == inv.JobID {
			return uuid.Nil, fmt.Errorf("invoice for job %s: %w", inv.JobID, ErrConflict)
		}
	}
	inv.ID = s.newID()
	s.invoices[inv.ID] = inv
	return inv.ID, nil
}

// --- watermarks ---

func (s *Store) Watermarks(_ context.Context, tenantID, runID uuid.UUID) (map[records.Entity]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("Watermarks"); err != nil {
		return nil, err
	}
	out := make(map[records.Entity]int)
	if cfg, ok := s.runs[runID]; ok && cfg.TenantID != tenantID {
		return out, nil
	}
	for k, line := range s.watermarks {
		if k.runID == runID {
			out[k.entity] = line
		}
	}
	return out, nil
}

func (s *Store) SaveWatermark(_ context.Context, _, runID uuid.UUID, entity records.Entity, line int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("SaveWatermark"); err != nil {
		return err
	}
	s.watermarks[watermarkKey{runID: runID, entity: entity}] = line
	return nil
}

func (s *Store) ClearWatermarks(_ context.Context, _, runID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ClearWatermarks"); err != nil {
		return err
	}
	for k := range s.watermarks {
		if k.runID == runID {
			delete(s.watermarks, k)
		}
	}
	return nil
}

// --- audit ---

func (s *Store) InsertAuditLog(_ context.Context, row audit.Row) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertAuditLog"); err != nil {
		return err
	}
	s.auditRows = append(s.auditRows, row)
	return nil
}

// --- helpers ---

func coalesce(next, cur string) string {
	if next == "" {
		return cur
	}
	return next
}

func capped[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// sortedValues returns map values in insertion order.
func sortedValues[T any](m map[uuid.UUID]T, order map[uuid.UUID]int) []T {
	ids := make([]uuid.UUID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return order[ids[i]] < order[ids[j]] })
	out := make([]T, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}
