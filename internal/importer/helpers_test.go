package importer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/normalize"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBuildInvoice(t *testing.T) {
	day := time.Date(2024, time.May, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	customer := uuid.New()

	cases := []struct {
		name     string
		job      records.Job
		ok       bool
		subtotal string
		total    string
		issued   time.Time
	}{
		{name: "no money", job: records.Job{}, ok: false},
		{name: "zeros only", job: records.Job{LaborTotal: normalize.Money("0"), InvoiceTotal: normalize.Money("0.00")}, ok: false},
		{name: "labor and parts", job: records.Job{LaborTotal: normalize.Money("100"), PartsTotal: normalize.Money("50"), CompletedAt: &day}, ok: true, subtotal: "150", total: "150", issued: day},
		{name: "explicit total", job: records.Job{LaborTotal: normalize.Money("100"), InvoiceTotal: normalize.Money("108.25")}, ok: true, subtotal: "100", total: "108.25", issued: now},
		{name: "negative subtotal floors at zero", job: records.Job{LaborTotal: normalize.Money("-20"), PartsTotal: normalize.Money("10"), InvoiceTotal: normalize.Money("5")}, ok: true, subtotal: "0", total: "5", issued: now},
		{name: "zero explicit total wins", job: records.Job{PartsTotal: normalize.Money("12"), InvoiceTotal: normalize.Money("0")}, ok: true, subtotal: "12", total: "0", issued: now},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.job.CustomerID = &customer
			inv, ok := buildInvoice(tc.job, now)
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if !ok {
				return
			}
			if !inv.Subtotal.Equal(decimal.RequireFromString(tc.subtotal)) || !inv.Total.Equal(decimal.RequireFromString(tc.total)) {
				t.Fatalf("expected %s/%s, got %s/%s", tc.subtotal, tc.total, inv.Subtotal, inv.Total)
			}
			if !inv.IssuedAt.Equal(tc.issued) || !inv.PaidAt.Equal(tc.issued) {
				t.Fatalf("unexpected dates %s %s", inv.IssuedAt, inv.PaidAt)
			}
			if inv.Status != records.InvoiceStatusPaid || inv.CustomerID == nil || *inv.CustomerID != customer {
				t.Fatalf("unexpected invoice %+v", inv)
			}
		})
	}
}

func TestMergeNotes(t *testing.T) {
	at := time.Date(2025, time.January, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		prior   string
		keptKey string
	}{
		{prior: ""},
		{prior: "null"},
		{prior: `{"source":"csv"}`, keptKey: "source"},
		{prior: `["a","b"]`, keptKey: "previous_notes"},
		{prior: "not json", keptKey: "previous_notes"},
	}
	for _, tc := range cases {
		prior, keptKey := tc.prior, tc.keptKey
		merged, err := mergeNotes(json.RawMessage(prior), at, Summary{})
		if err != nil {
			t.Fatalf("merge %q: %v", prior, err)
		}
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(merged, &obj); err != nil {
			t.Fatalf("merged notes for %q are not an object: %s", prior, merged)
		}
		if _, ok := obj["import"]; !ok {
			t.Fatalf("expected import key for %q", prior)
		}
		if keptKey != "" {
			if _, ok := obj[keptKey]; !ok {
				t.Fatalf("expected %q kept for %q, got %s", keptKey, prior, merged)
			}
		}
	}
}

func TestSummaryCapsIssues(t *testing.T) {
	var s Summary
	for i := 0; i < maxIssues+5; i++ {
		s.addIssue(RowIssue{Entity: records.EntityParts, Row: i + 1, Result: resultError})
	}
	if len(s.Issues) != maxIssues || s.IssuesTotal != maxIssues+5 {
		t.Fatalf("expected %d kept of %d, got %d of %d", maxIssues, maxIssues+5, len(s.Issues), s.IssuesTotal)
	}
}

func TestConfidence(t *testing.T) {
	if got := confidence(true, false, true, false); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if got := confidence(); got != 0 {
		t.Fatalf("expected 0 for no fields, got %v", got)
	}
}
