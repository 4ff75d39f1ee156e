package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/db"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/importer"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/store/postgres"
)

func TestTenantIsolation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tenantA := seedTenant(t, ctx, env.store, "tenant-a")
	tenantB := seedTenant(t, ctx, env.store, "tenant-b")
	runID := seedRun(t, env.store, env.deps.Blobs, tenantA, map[records.Entity]string{
		records.EntityCustomers: "First Name,Last Name,Email\nAda,Lovelace,ada@example.com\n",
	})

	status, _ := request(t, env.router, http.MethodGet, "/api/import-runs/"+runID.String(), tenantB.String())
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-tenant read, got %d", status)
	}
	status, _ = request(t, env.router, http.MethodPost, "/api/import-runs/"+runID.String()+"/process", tenantB.String())
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 for cross-tenant process, got %d", status)
	}

	status, body := request(t, env.router, http.MethodPost, "/api/import-runs/"+runID.String()+"/process", tenantA.String())
	if status != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d (%s)", status, string(body))
	}

	var count int
	if err := env.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE tenant_id = $1`, tenantB).Scan(&count); err != nil {
		t.Fatalf("count customers: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no customers for tenant B, got %d", count)
	}
}

func TestProcessRunPersistsNotesAndResumesCleanly(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	tenantID := seedTenant(t, ctx, env.store, "tenant-notes")
	if _, err := env.store.AddStaffMember(ctx, tenantID, records.StaffMember{FullName: "Alex Doe", Email: "alex@example.com"}); err != nil {
		t.Fatalf("seed staff member: %v", err)
	}
	runID := seedRun(t, env.store, env.deps.Blobs, tenantID, map[records.Entity]string{
		records.EntityStaff:   "Name,Email,Role\nAlex Doe,alex@example.com,Service Writer\nSam Roe,sam@example.com,Tech\n",
		records.EntityHistory: "RO #,Date,Complaint,Total\nRO-9,2024-02-01,No start,120.50\n",
	})

	status, body := request(t, env.router, http.MethodPost, "/api/import-runs/"+runID.String()+"/process", tenantID.String())
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", status, string(body))
	}
	var summary importer.Summary
	if err := json.Unmarshal(body, &summary); err != nil {
		t.Fatalf("parse summary: %v", err)
	}
	if summary.Staff != (importer.Counts{Created: 2}) || summary.Invoices != (importer.Counts{Created: 1}) {
		t.Fatalf("unexpected summary staff=%+v invoices=%+v", summary.Staff, summary.Invoices)
	}

	var notes []byte
	var role string
	if err := env.pool.QueryRow(ctx, `SELECT notes FROM import_runs WHERE id = $1`, runID).Scan(&notes); err != nil {
		t.Fatalf("load notes: %v", err)
	}
	var parsed map[string]any
	if err := json.Unmarshal(notes, &parsed); err != nil || parsed["import"] == nil {
		t.Fatalf("expected import key in notes, got %s (%v)", string(notes), err)
	}
	if err := env.pool.QueryRow(ctx, `
		SELECT role FROM staff_invite_suggestions WHERE tenant_id = $1 AND email = 'alex@example.com'
	`, tenantID).Scan(&role); err != nil {
		t.Fatalf("load suggestion: %v", err)
	}
	if role != "advisor" {
		t.Fatalf("expected advisor role, got %s", role)
	}

	status, body = request(t, env.router, http.MethodGet, "/api/import-runs/"+runID.String(), tenantID.String())
	if status != http.StatusOK || runStatus(t, body) != "processed" {
		t.Fatalf("expected processed run, got %d (%s)", status, string(body))
	}
}

type testEnv struct {
	pool   *pgxpool.Pool
	store  *postgres.Store
	deps   Deps
	router http.Handler
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}
	t.Cleanup(pool.Close)

	resetSchema(t, ctx, pool, databaseURL)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testConfig()
	cfg.DatabaseURL = databaseURL

	deps, err := NewDeps(ctx, cfg, pool, logger)
	if err != nil {
		t.Fatalf("create deps: %v", err)
	}
	router, err := NewRouter(cfg, deps, logger)
	if err != nil {
		t.Fatalf("create router: %v", err)
	}

	return testEnv{pool: pool, store: postgres.New(pool), deps: deps, router: router}
}

func resetSchema(t *testing.T, ctx context.Context, pool *pgxpool.Pool, databaseURL string) {
	t.Helper()

	if _, err := pool.Exec(ctx, `DROP SCHEMA public CASCADE; CREATE SCHEMA public;`); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	if err := db.Migrate(ctx, databaseURL); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
}

func seedTenant(t *testing.T, ctx context.Context, store *postgres.Store, slug string) uuid.UUID {
	t.Helper()
	id, err := store.EnsureTenant(ctx, slug, slug)
	if err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	return id
}
