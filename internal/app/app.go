package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/audit"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob/s3"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/config"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/handlers"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/importer"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/metrics"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/middleware"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/store/postgres"
)

// Deps are the collaborators the HTTP surface and the CLI share.
type Deps struct {
	Runs     handlers.RunStore
	Importer handlers.Runner
	Blobs    blob.Store
	Gatherer prometheus.Gatherer
}

// ImportStore is what an engine needs from the relational store.
type ImportStore interface {
	importer.Store
	audit.Sink
}

func BlobConfig(cfg config.Config) blob.Config {
	return blob.Config{
		Driver: cfg.BlobDriver,
		FSRoot: cfg.BlobFSRoot,
		S3: s3.Config{
			Region:    cfg.BlobS3Region,
			Bucket:    cfg.BlobS3Bucket,
			Endpoint:  cfg.BlobS3Endpoint,
			PathStyle: cfg.BlobS3PathStyle,
		},
	}
}

// NewEngine builds an import engine over store and files with the configured
// limits. reg may be nil to skip metrics.
func NewEngine(cfg config.Config, store ImportStore, files importer.Files, reg prometheus.Registerer, logger *slog.Logger) *importer.Engine {
	auditLogger := audit.NewLogger(store, audit.WithRequestID(middleware.RequestIDFromContext))
	opts := []importer.Option{
		importer.WithAudit(auditLogger),
		importer.WithLookupLimit(cfg.ImportLookupRowCap),
		importer.WithMaxFileBytes(cfg.ImportMaxFileBytes),
	}
	if reg != nil {
		opts = append(opts, importer.WithMetrics(metrics.New(reg)))
	}
	return importer.New(store, files, logger, opts...)
}

// NewDeps wires the Postgres store, the configured blob store and a fresh
// metrics registry.
func NewDeps(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, logger *slog.Logger) (Deps, error) {
	blobs, err := blob.Open(ctx, BlobConfig(cfg))
	if err != nil {
		return Deps{}, fmt.Errorf("open blob store: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	store := postgres.New(pool)
	return Deps{
		Runs:     store,
		Importer: NewEngine(cfg, store, blobs, reg, logger),
		Blobs:    blobs,
		Gatherer: reg,
	}, nil
}
