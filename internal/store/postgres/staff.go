package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
)

func (s *Store) LoadStaffMembers(ctx context.Context, tenantID uuid.UUID, limit int) ([]records.StaffMember, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, full_name, email
		FROM staff_members
		WHERE tenant_id = $1
		ORDER BY created_at, id
		LIMIT $2
	`, tenantID, limitArg(limit))
	if err != nil {
		return nil, wrap("load staff members", err)
	}
	defer rows.Close()

	var out []records.StaffMember
	for rows.Next() {
		var (
			m     records.StaffMember
			email *string
		)
		if err := rows.Scan(&m.ID, &m.FullName, &email); err != nil {
			return nil, fmt.Errorf("scan staff member: %w", err)
		}
		m.Email = deref(email)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate staff members: %w", err)
	}
	return out, nil
}

// AddStaffMember inserts an existing staff member; used by seeding.
func (s *Store) AddStaffMember(ctx context.Context, tenantID uuid.UUID, m records.StaffMember) (records.StaffMember, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO staff_members (tenant_id, full_name, email)
		VALUES ($1, $2, $3)
		RETURNING id
	`, tenantID, m.FullName, nullable(m.Email)).Scan(&m.ID)
	if err != nil {
		return records.StaffMember{}, wrap("insert staff member", err)
	}
	return m, nil
}

func (s *Store) DeleteStaffSuggestions(ctx context.Context, tenantID, runID uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `
		DELETE FROM staff_invite_suggestions WHERE tenant_id = $1 AND run_id = $2
	`, tenantID, runID); err != nil {
		return wrap("delete staff suggestions", err)
	}
	return nil
}

func (s *Store) InsertStaffSuggestion(ctx context.Context, sg records.StaffSuggestion) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO staff_invite_suggestions (
			tenant_id, run_id, full_name, email, role, notes,
			source_run_id, external_id, confidence
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`,
		sg.TenantID, sg.RunID, nullable(sg.FullName), nullable(sg.Email), sg.Role, nullable(sg.Notes),
		sg.Provenance.SourceRunID, sg.Provenance.ExternalID, sg.Provenance.Confidence,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, wrap("insert staff suggestion", err)
	}
	return id, nil
}
