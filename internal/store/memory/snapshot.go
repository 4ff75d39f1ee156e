package memory

import (
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/audit"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/google/uuid"
)

// Read helpers return copies in insertion order, filtered by tenant.

func (s *Store) Customers(tenantID uuid.UUID) []records.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(sortedValues(s.customers, s.order), func(c records.Customer) bool { return c.TenantID == tenantID })
}

func (s *Store) Vehicles(tenantID uuid.UUID) []records.Vehicle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(sortedValues(s.vehicles, s.order), func(v records.Vehicle) bool { return v.TenantID == tenantID })
}

func (s *Store) Parts(tenantID uuid.UUID) []records.Part {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(sortedValues(s.parts, s.order), func(p records.Part) bool { return p.TenantID == tenantID })
}

func (s *Store) StaffSuggestions(tenantID uuid.UUID) []records.StaffSuggestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(sortedValues(s.suggestions, s.order), func(sg records.StaffSuggestion) bool { return sg.TenantID == tenantID })
}

func (s *Store) Jobs(tenantID uuid.UUID) []records.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(sortedValues(s.jobs, s.order), func(j records.Job) bool { return j.TenantID == tenantID })
}

func (s *Store) JobLines(tenantID uuid.UUID) []records.JobLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(sortedValues(s.jobLines, s.order), func(l records.JobLine) bool { return l.TenantID == tenantID })
}

func (s *Store) Invoices(tenantID uuid.UUID) []records.Invoice {
	s.mu.Lock()
	defer s.mu.Unlock()
	return filter(sortedValues(s.invoices, s.order), func(inv records.Invoice) bool { return inv.TenantID == tenantID })
}

func (s *Store) AuditRows() []audit.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]audit.Row(nil), s.auditRows...)
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if keep(item) {
			out = append(out, item)
		}
	}
	return out
}
