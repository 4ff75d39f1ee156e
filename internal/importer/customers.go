package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/fields"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/identity"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/normalize"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/tabular"
)

func (e *Engine) importCustomer(ctx context.Context, rc *runContext, row tabular.Row) (outcome, error) {
	first := fields.Value(row, fields.FirstName)
	last := fields.Value(row, fields.LastName)
	full := fields.Value(row, fields.FullName)
	business := fields.Value(row, fields.BusinessName)
	email := normalize.Key(fields.Value(row, fields.Email))
	phone := fields.Value(row, fields.Phone)

	if first == "" && last == "" && full != "" {
		first, last = splitName(full)
	}
	name := full
	if name == "" {
		name = strings.TrimSpace(first + " " + last)
	}
	if name == "" {
		name = business
	}
	if name == "" && email == "" && phone == "" {
		return outcome{result: resultSkipped, message: "no name, email or phone"}, nil
	}

	c := records.Customer{
		TenantID:     rc.tenantID,
		FirstName:    first,
		LastName:     last,
		Name:         name,
		BusinessName: business,
		Email:        email,
		Phone:        phone,
		IsFleet:      normalize.Truthy(fields.Value(row, fields.Fleet)),
		Provenance: records.Provenance{
			SourceRunID: rc.runID,
			ExternalID:  identity.Row(rc.runID, records.EntityCustomers, row.Line),
			Confidence:  confidence(name != "", email != "", phone != ""),
		},
	}

	if id, ok := rc.customers.Resolve(email, phone); ok {
		c.ID = id
		if err := e.store.UpdateCustomer(ctx, c); err != nil {
			return outcome{}, fmt.Errorf("update customer: %w", err)
		}
		rc.customers.Register(id, email, phone)
		return outcome{result: resultUpdated}, nil
	}

	id, err := e.store.InsertCustomer(ctx, c)
	if err != nil {
		return outcome{}, fmt.Errorf("insert customer: %w", err)
	}
	rc.customers.Register(id, email, phone)
	return outcome{result: resultCreated}, nil
}

func splitName(full string) (string, string) {
	parts := strings.Fields(strings.TrimSpace(full))
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}

// confidence is the share of identifying fields a row carried.
func confidence(present ...bool) float64 {
	if len(present) == 0 {
		return 0
	}
	n := 0
	for _, p := range present {
		if p {
			n++
		}
	}
	return float64(n) / float64(len(present))
}
