package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/app"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob/core"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/config"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/db"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/store/postgres"
)

// seed uploads a directory of export files (customers.csv, vehicles.xlsx, ...)
// and creates an import run that points at them.
func main() {
	_ = godotenv.Load()

	dir := flag.String("dir", envOrDefault("SEED_IMPORT_DIR", "./testdata/sample-shop"), "directory of export files named by entity")
	flag.Parse()

	tenantSlug := envOrDefault("SEED_TENANT_SLUG", "local-shop")
	tenantName := envOrDefault("SEED_TENANT_NAME", "Local Shop")
	ownerName := envOrDefault("SEED_OWNER_NAME", "Shop Owner")
	ownerEmail := os.Getenv("SEED_OWNER_EMAIL")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()
	store := postgres.New(pool)

	blobs, err := blob.Open(ctx, app.BlobConfig(cfg))
	if err != nil {
		log.Fatalf("open blob store: %v", err)
	}

	tenantID, err := store.EnsureTenant(ctx, tenantSlug, tenantName)
	if err != nil {
		log.Fatalf("upsert tenant: %v", err)
	}
	if ownerEmail != "" {
		if _, err := store.AddStaffMember(ctx, tenantID, records.StaffMember{FullName: ownerName, Email: ownerEmail}); err != nil && !errors.Is(err, records.ErrConflict) {
			log.Fatalf("insert staff member: %v", err)
		}
	}

	runID := uuid.New()
	files, err := uploadDir(ctx, blobs, *dir, tenantID, runID)
	if err != nil {
		log.Fatalf("upload files: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("no export files found in %s", *dir)
	}

	if _, err := store.CreateRunConfig(ctx, records.RunConfig{ID: runID, TenantID: tenantID, Files: files}); err != nil {
		log.Fatalf("create import run: %v", err)
	}

	fmt.Printf("Seed completed. Tenant=%s (%s), run=%s, files=%d\n", tenantSlug, tenantID, runID, len(files))
}

// uploadDir stores every file whose base name is an entity type under
// tenant/run/ and returns the resulting paths by entity.
func uploadDir(ctx context.Context, blobs blob.Store, dir string, tenantID, runID uuid.UUID) (map[records.Entity]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}

	known := make(map[string]records.Entity, len(records.FileEntities))
	for _, entity := range records.FileEntities {
		known[string(entity)] = entity
	}

	files := make(map[records.Entity]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		entity, ok := known[strings.ToLower(strings.TrimSuffix(name, filepath.Ext(name)))]
		if !ok {
			continue
		}

		f, err := os.Open(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", name, err)
		}
		key := fmt.Sprintf("%s/%s/%s", tenantID, runID, strings.ToLower(name))
		_, err = blobs.Put(ctx, key, f, core.PutOptions{
			ContentType: contentType(name),
			Metadata:    map[string]string{"entity": string(entity)},
		})
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("put %s: %w", key, err)
		}
		files[entity] = key
	}
	return files, nil
}

func contentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "text/csv"
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
