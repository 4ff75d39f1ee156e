package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/app"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/blob"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/config"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/db"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/store/postgres"
)

type options struct {
	tenant string
	run    string
}

func main() {
	var opts options

	root := &cobra.Command{
		Use:           "import",
		Short:         "Run and inspect shop onboarding imports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.tenant, "tenant", "", "tenant id")
	root.PersistentFlags().StringVar(&opts.run, "run", "", "import run id")
	_ = root.MarkPersistentFlagRequired("tenant")
	_ = root.MarkPersistentFlagRequired("run")

	root.AddCommand(&cobra.Command{
		Use:   "run",
		Short: "Process an import run and print its summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runImport(cmd.Context(), opts)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show an import run's configuration and resume point",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return showStatus(cmd.Context(), opts)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (o options) ids() (uuid.UUID, uuid.UUID, error) {
	tenantID, err := uuid.Parse(o.tenant)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid --tenant: %w", err)
	}
	runID, err := uuid.Parse(o.run)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("invalid --run: %w", err)
	}
	return tenantID, runID, nil
}

func runImport(ctx context.Context, opts options) error {
	tenantID, runID, err := opts.ids()
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	blobs, err := blob.Open(ctx, app.BlobConfig(cfg))
	if err != nil {
		return fmt.Errorf("open blob store: %w", err)
	}

	engine := app.NewEngine(cfg, postgres.New(pool), blobs, nil, logger)
	summary, runErr := engine.Run(ctx, tenantID, runID)
	if err := printJSON(summary); err != nil {
		return err
	}
	if errors.Is(runErr, context.Canceled) {
		return fmt.Errorf("interrupted; run the same command again to resume: %w", runErr)
	}
	return runErr
}

func showStatus(ctx context.Context, opts options) error {
	tenantID, runID, err := opts.ids()
	if err != nil {
		return err
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer pool.Close()

	store := postgres.New(pool)
	run, err := store.GetRunConfig(ctx, tenantID, runID)
	if err != nil {
		return err
	}
	marks, err := store.Watermarks(ctx, tenantID, runID)
	if err != nil {
		return err
	}
	return printJSON(map[string]any{
		"id":          run.ID,
		"files":       run.Files,
		"processedAt": run.ProcessedAt,
		"resumeFrom":  marks,
		"notes":       run.Notes,
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
