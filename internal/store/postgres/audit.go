package postgres

import (
	"context"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/audit"
)

func (s *Store) InsertAuditLog(ctx context.Context, row audit.Row) error {
	if _, err := s.pool.Exec(ctx, `
		INSERT INTO audit_logs (tenant_id, action, entity_type, entity_id, request_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, row.TenantID, row.Action, row.EntityType, row.EntityID, row.RequestID, row.Metadata); err != nil {
		return wrap("insert audit log", err)
	}
	return nil
}
