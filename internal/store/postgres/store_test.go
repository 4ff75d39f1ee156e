package postgres

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/audit"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob/core"
	blobmemory "github.com/EdwardLakin/ProFixIQ-sub003/internal/blob/memory"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/db"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/importer"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
)

var (
	_ importer.Store = (*Store)(nil)
	_ audit.Sink     = (*Store)(nil)
)

type testEnv struct {
	pool  *pgxpool.Pool
	store *Store
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		t.Fatalf("connect test db: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, `DROP SCHEMA public CASCADE; CREATE SCHEMA public;`); err != nil {
		t.Fatalf("drop schema: %v", err)
	}
	if err := db.Migrate(ctx, databaseURL); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return testEnv{pool: pool, store: New(pool)}
}

func seedTenant(t *testing.T, s *Store, slug string) uuid.UUID {
	t.Helper()
	id, err := s.EnsureTenant(context.Background(), slug, slug)
	if err != nil {
		t.Fatalf("seed tenant: %v", err)
	}
	return id
}

func countRows(t *testing.T, pool *pgxpool.Pool, table string, tenantID uuid.UUID) int {
	t.Helper()
	var n int
	if err := pool.QueryRow(context.Background(), `SELECT count(*) FROM `+table+` WHERE tenant_id = $1`, tenantID).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestImportRunIsIdempotentAgainstPostgres(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	tenantID := seedTenant(t, env.store, "shop-a")
	otherTenant := seedTenant(t, env.store, "shop-b")

	blobs := blobmemory.New()
	files := map[records.Entity]string{
		records.EntityCustomers: "Name,Email,Phone\nAda Lovelace,ada@example.com,555-0100\nGrace Hopper,,555-0200\n",
		records.EntityVehicles:  "VIN,Plate,Make,Email\n1HGCM82633A004352,ABC123,Honda,ada@example.com\n",
		records.EntityParts:     "Part Number,Name,Price\nBRK-100,Brake pads,89.99\n",
		records.EntityStaff:     "Name,Email,Role\nAlex Doe,alex@example.com,Technician\n",
		records.EntityHistory:   "RO #,Date,Email,VIN,Complaint,Labor,Parts\nRO-1,2024-03-09,ada@example.com,1HGCM82633A004352,Brakes,100,50\n",
	}
	runID := uuid.New()
	paths := map[records.Entity]string{}
	for entity, body := range files {
		key := tenantID.String() + "/" + runID.String() + "/" + string(entity) + ".csv"
		if _, err := blobs.Put(ctx, key, bytes.NewReader([]byte(body)), core.PutOptions{ContentType: "text/csv"}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
		paths[entity] = key
	}
	if _, err := env.store.CreateRunConfig(ctx, records.RunConfig{ID: runID, TenantID: tenantID, Files: paths}); err != nil {
		t.Fatalf("create run config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := importer.New(env.store, blobs, logger, importer.WithAudit(audit.NewLogger(env.store)))

	first, err := engine.Run(ctx, tenantID, runID)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.Customers != (importer.Counts{Created: 2}) || first.Vehicles != (importer.Counts{Created: 1}) {
		t.Fatalf("unexpected first-run counts customers=%+v vehicles=%+v", first.Customers, first.Vehicles)
	}
	if first.Parts != (importer.Counts{Created: 1}) || first.History != (importer.Counts{Created: 1}) || first.Invoices != (importer.Counts{Created: 1}) {
		t.Fatalf("unexpected first-run counts parts=%+v history=%+v invoices=%+v", first.Parts, first.History, first.Invoices)
	}

	second, err := engine.Run(ctx, tenantID, runID)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if second.Customers != (importer.Counts{Updated: 2}) || second.Parts != (importer.Counts{Updated: 1}) {
		t.Fatalf("unexpected re-run counts customers=%+v parts=%+v", second.Customers, second.Parts)
	}
	if second.History != (importer.Counts{Skipped: 1}) || second.Invoices != (importer.Counts{Skipped: 1}) {
		t.Fatalf("unexpected re-run counts history=%+v invoices=%+v", second.History, second.Invoices)
	}

	expected := map[string]int{
		"customers":                2,
		"vehicles":                 1,
		"parts":                    1,
		"staff_invite_suggestions": 1,
		"work_orders":              1,
		"work_order_lines":         1,
		"invoices":                 1,
		"audit_logs":               4,
		"import_run_watermarks":    0,
	}
	for table, want := range expected {
		if got := countRows(t, env.pool, table, tenantID); got != want {
			t.Fatalf("%s: expected %d rows, got %d", table, want, got)
		}
		if got := countRows(t, env.pool, table, otherTenant); got != 0 {
			t.Fatalf("%s: expected no rows for other tenant, got %d", table, got)
		}
	}

	cfg, err := env.store.GetRunConfig(ctx, tenantID, runID)
	if err != nil {
		t.Fatalf("get run config: %v", err)
	}
	if cfg.ProcessedAt == nil || len(cfg.Notes) == 0 {
		t.Fatalf("expected processed run with notes, got %+v", cfg)
	}
	if _, err := env.store.GetRunConfig(ctx, otherTenant, runID); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected cross-tenant lookup to miss, got %v", err)
	}
}

func TestUpdateCustomerKeepsValuesNotSupplied(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	tenantID := seedTenant(t, env.store, "shop-update")

	id, err := env.store.InsertCustomer(ctx, records.Customer{TenantID: tenantID, Name: "Ada", Email: "ada@example.com", Phone: "555"})
	if err != nil {
		t.Fatalf("insert customer: %v", err)
	}
	if err := env.store.UpdateCustomer(ctx, records.Customer{ID: id, TenantID: tenantID, Phone: "777"}); err != nil {
		t.Fatalf("update customer: %v", err)
	}

	keys, err := env.store.LoadCustomerKeys(ctx, tenantID, 0)
	if err != nil {
		t.Fatalf("load keys: %v", err)
	}
	if len(keys) != 1 || keys[0].Keys[0] != "ada@example.com" || keys[0].Keys[1] != "777" {
		t.Fatalf("unexpected keys %+v", keys)
	}

	if err := env.store.UpdateCustomer(ctx, records.Customer{ID: uuid.New(), TenantID: tenantID}); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected not found for unknown customer, got %v", err)
	}
}

func TestInsertJobReportsConflicts(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	tenantID := seedTenant(t, env.store, "shop-jobs")

	job := records.Job{TenantID: tenantID, JobNumber: "RO-1", Status: records.JobStatusCompleted, Provenance: records.Provenance{ExternalID: "a"}}
	id, err := env.store.InsertJob(ctx, job)
	if err != nil {
		t.Fatalf("insert job: %v", err)
	}

	job.Provenance.ExternalID = "b"
	if _, err := env.store.InsertJob(ctx, job); !errors.Is(err, records.ErrConflict) {
		t.Fatalf("expected conflict on duplicate job number, got %v", err)
	}
	found, err := env.store.FindJobByNumber(ctx, tenantID, "RO-1")
	if err != nil || found != id {
		t.Fatalf("expected to find job by number, got %s err=%v", found, err)
	}
	if _, err := env.store.FindJobByExternalID(ctx, tenantID, "b"); !errors.Is(err, records.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestWatermarksRoundTrip(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	tenantID := seedTenant(t, env.store, "shop-marks")
	cfg, err := env.store.CreateRunConfig(ctx, records.RunConfig{TenantID: tenantID})
	if err != nil {
		t.Fatalf("create run config: %v", err)
	}

	for _, line := range []int{3, 7} {
		if err := env.store.SaveWatermark(ctx, tenantID, cfg.ID, records.EntityParts, line); err != nil {
			t.Fatalf("save watermark: %v", err)
		}
	}
	marks, err := env.store.Watermarks(ctx, tenantID, cfg.ID)
	if err != nil {
		t.Fatalf("watermarks: %v", err)
	}
	if marks[records.EntityParts] != 7 || len(marks) != 1 {
		t.Fatalf("unexpected watermarks %+v", marks)
	}

	if err := env.store.ClearWatermarks(ctx, tenantID, cfg.ID); err != nil {
		t.Fatalf("clear watermarks: %v", err)
	}
	marks, err = env.store.Watermarks(ctx, tenantID, cfg.ID)
	if err != nil || len(marks) != 0 {
		t.Fatalf("expected cleared watermarks, got %+v err=%v", marks, err)
	}
}
