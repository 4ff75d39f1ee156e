package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
)

// EnsureTenant returns the tenant with slug, creating it when missing.
func (s *Store) EnsureTenant(ctx context.Context, slug, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO tenants (slug, name)
		VALUES ($1, $2)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, slug, name).Scan(&id)
	if err != nil {
		return uuid.Nil, wrap("upsert tenant", err)
	}
	return id, nil
}

func (s *Store) CreateRunConfig(ctx context.Context, cfg records.RunConfig) (records.RunConfig, error) {
	files, err := json.Marshal(filesOrEmpty(cfg.Files))
	if err != nil {
		return records.RunConfig{}, fmt.Errorf("marshal run files: %w", err)
	}
	if cfg.ID == uuid.Nil {
		cfg.ID = uuid.New()
	}
	var notes []byte
	if len(cfg.Notes) > 0 {
		notes = cfg.Notes
	}

	err = s.pool.QueryRow(ctx, `
		INSERT INTO import_runs (id, tenant_id, files, notes)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET files = EXCLUDED.files, notes = EXCLUDED.notes
		RETURNING created_at
	`, cfg.ID, cfg.TenantID, files, notes).Scan(&cfg.CreatedAt)
	if err != nil {
		return records.RunConfig{}, wrap("insert import run", err)
	}
	return cfg, nil
}

func (s *Store) GetRunConfig(ctx context.Context, tenantID, runID uuid.UUID) (records.RunConfig, error) {
	var (
		cfg   records.RunConfig
		files []byte
		notes []byte
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, files, notes, processed_at, created_at
		FROM import_runs
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, runID).Scan(&cfg.ID, &cfg.TenantID, &files, &notes, &cfg.ProcessedAt, &cfg.CreatedAt)
	if err != nil {
		return records.RunConfig{}, wrap("get import run", err)
	}
	if len(files) > 0 {
		if err := json.Unmarshal(files, &cfg.Files); err != nil {
			return records.RunConfig{}, fmt.Errorf("decode import run files: %w", err)
		}
	}
	if len(notes) > 0 {
		cfg.Notes = json.RawMessage(notes)
	}
	return cfg, nil
}

func (s *Store) CompleteRun(ctx context.Context, tenantID, runID uuid.UUID, processedAt time.Time, notes json.RawMessage) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE import_runs
		SET processed_at = $3, notes = $4
		WHERE tenant_id = $1 AND id = $2
	`, tenantID, runID, processedAt, []byte(notes))
	if err != nil {
		return wrap("complete import run", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("complete import run %s: %w", runID, records.ErrNotFound)
	}
	return nil
}

func (s *Store) Watermarks(ctx context.Context, tenantID, runID uuid.UUID) (map[records.Entity]int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT entity, line
		FROM import_run_watermarks
		WHERE tenant_id = $1 AND run_id = $2
	`, tenantID, runID)
	if err != nil {
		return nil, wrap("list watermarks", err)
	}
	defer rows.Close()

	out := make(map[records.Entity]int)
	for rows.Next() {
		var (
			entity string
			line   int
		)
		if err := rows.Scan(&entity, &line); err != nil {
			return nil, fmt.Errorf("scan watermark: %w", err)
		}
		out[records.Entity(entity)] = line
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watermarks: %w", err)
	}
	return out, nil
}

func (s *Store) SaveWatermark(ctx context.Context, tenantID, runID uuid.UUID, entity records.Entity, line int) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO import_run_watermarks (run_id, tenant_id, entity, line)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (run_id, entity) DO UPDATE SET line = EXCLUDED.line, updated_at = now()
	`, runID, tenantID, string(entity), line)
	if err != nil {
		return wrap("save watermark", err)
	}
	return nil
}

func (s *Store) ClearWatermarks(ctx context.Context, tenantID, runID uuid.UUID) error {
	if _, err := s.pool.Exec(ctx, `
		DELETE FROM import_run_watermarks WHERE tenant_id = $1 AND run_id = $2
	`, tenantID, runID); err != nil {
		return wrap("clear watermarks", err)
	}
	return nil
}

func filesOrEmpty(files map[records.Entity]string) map[records.Entity]string {
	if files == nil {
		return map[records.Entity]string{}
	}
	return files
}
