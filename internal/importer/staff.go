package importer

import (
	"context"
	"fmt"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/fields"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/identity"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/normalize"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/tabular"
)

const (
	staffNoteInvite   = "Suggested invite from imported staff roster"
	staffNoteExisting = "Already on staff; no invite needed"
)

// importStaff turns roster rows into invite suggestions. Earlier suggestions
// for the run are removed before the first row, so a re-run replaces them.
func (e *Engine) importStaff(ctx context.Context, rc *runContext, row tabular.Row) (outcome, error) {
	name := fields.Value(row, fields.StaffName)
	email := normalize.Key(fields.Value(row, fields.StaffEmail))
	rawRole := fields.Value(row, fields.Role)
	if name == "" && email == "" {
		return outcome{result: resultSkipped, message: "no name or email"}, nil
	}
	role := normalize.Role(rawRole)

	notes := staffNoteInvite
	matched, ok := rc.staff.Resolve(email, name)
	if ok {
		if rc.suggested[matched] {
			return outcome{result: resultSkipped, message: "duplicate of an earlier staff row"}, nil
		}
		notes = staffNoteExisting
	}

	s := records.StaffSuggestion{
		TenantID: rc.tenantID,
		RunID:    rc.runID,
		FullName: name,
		Email:    email,
		Role:     role,
		Notes:    notes,
		Provenance: records.Provenance{
			SourceRunID: rc.runID,
			ExternalID:  identity.Staff(rc.runID, row.Line, name, email, role),
			Confidence:  confidence(name != "", email != "", rawRole != ""),
		},
	}
	id, err := e.store.InsertStaffSuggestion(ctx, s)
	if err != nil {
		return outcome{}, fmt.Errorf("insert staff suggestion: %w", err)
	}
	rc.staff.Register(id, email, name)
	rc.suggested[id] = true
	if ok {
		rc.suggested[matched] = true
	}
	return outcome{result: resultCreated}, nil
}
