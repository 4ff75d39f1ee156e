package importer

import (
	"time"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/google/uuid"
)

const (
	resultCreated = "created"
	resultUpdated = "updated"
	resultSkipped = "skipped"
	resultError   = "error"

	maxIssues = 100
)

type Counts struct {
	Created int64 `json:"created"`
	Updated int64 `json:"updated"`
	Skipped int64 `json:"skipped"`
	Error   int64 `json:"error"`
}

func (c Counts) Total() int64 {
	return c.Created + c.Updated + c.Skipped + c.Error
}

// RowIssue describes a row that was skipped or failed.
type RowIssue struct {
	Entity  records.Entity `json:"entity"`
	Row     int            `json:"row"`
	Result  string         `json:"result"`
	Message string         `json:"message"`
}

// Summary is the outcome of one import run.
type Summary struct {
	RunID       uuid.UUID        `json:"runId"`
	TenantID    uuid.UUID        `json:"tenantId"`
	Files       []records.Entity `json:"files"`
	Resumed     bool             `json:"resumed"`
	RowsTotal   int64            `json:"rowsTotal"`
	Customers   Counts           `json:"customers"`
	Vehicles    Counts           `json:"vehicles"`
	Parts       Counts           `json:"parts"`
	Staff       Counts           `json:"staff"`
	History     Counts           `json:"history"`
	Invoices    Counts           `json:"invoices"`
	Issues      []RowIssue       `json:"issues,omitempty"`
	IssuesTotal int64            `json:"issuesTotal"`
	StartedAt   time.Time        `json:"startedAt"`
	CompletedAt *time.Time       `json:"completedAt,omitempty"`
}

func (s *Summary) counts(entity records.Entity) *Counts {
	switch entity {
	case records.EntityCustomers:
		return &s.Customers
	case records.EntityVehicles:
		return &s.Vehicles
	case records.EntityParts:
		return &s.Parts
	case records.EntityStaff:
		return &s.Staff
	case records.EntityHistory:
		return &s.History
	case records.EntityInvoices:
		return &s.Invoices
	}
	return nil
}

func (s *Summary) increment(entity records.Entity, result string) {
	counts := s.counts(entity)
	if counts == nil {
		return
	}
	switch result {
	case resultCreated:
		counts.Created++
	case resultUpdated:
		counts.Updated++
	case resultError:
		counts.Error++
	default:
		counts.Skipped++
	}
}

func (s *Summary) addIssue(issue RowIssue) {
	s.IssuesTotal++
	if len(s.Issues) < maxIssues {
		s.Issues = append(s.Issues, issue)
	}
}
