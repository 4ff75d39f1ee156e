// Package importer runs onboarding imports: it pulls the uploaded files of an
// import run, reconciles each row against the tenant's existing records and
// writes the result back to the relational store.
package importer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/audit"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/metrics"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/normalize"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/resolve"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/tabular"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrRunConfigUnavailable = errors.New("import run configuration unavailable")

const (
	DefaultLookupLimit  = 50000
	DefaultMaxFileBytes = 25 * 1024 * 1024
)

type Engine struct {
	store        Store
	files        Files
	logger       *slog.Logger
	audit        *audit.Logger
	metrics      *metrics.Recorder
	lookupLimit  int
	maxFileBytes int64
	now          func() time.Time
}

type Option func(*Engine)

func WithAudit(l *audit.Logger) Option {
	return func(e *Engine) { e.audit = l }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = r }
}

// WithLookupLimit caps how many existing rows per entity are pre-loaded into
// the natural-key lookup tables.
func WithLookupLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.lookupLimit = n
		}
	}
}

func WithMaxFileBytes(n int64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxFileBytes = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func New(store Store, files Files, logger *slog.Logger, opts ...Option) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		store:        store,
		files:        files,
		logger:       logger,
		lookupLimit:  DefaultLookupLimit,
		maxFileBytes: DefaultMaxFileBytes,
		now:          func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// runContext is the mutable state of a single run. It is never shared
// between runs.
type runContext struct {
	tenantID   uuid.UUID
	runID      uuid.UUID
	log        *slog.Logger
	customers  *resolve.Index
	vehicles   *resolve.Index
	staff      *resolve.Index
	suggested  map[uuid.UUID]bool
	watermarks map[records.Entity]int
	summary    Summary
}

// outcome is the result of importing one row.
type outcome struct {
	result  string
	message string
}

// Run imports every file attached to the run configuration identified by
// (tenantID, runID). Row-level failures are counted in the summary and do not
// stop the run. A run interrupted by ctx keeps its progress and resumes after
// the last processed row when started again.
func (e *Engine) Run(ctx context.Context, tenantID, runID uuid.UUID) (Summary, error) {
	started := e.now()
	log := e.logger.With("tenant_id", tenantID, "run_id", runID)

	cfg, err := e.store.GetRunConfig(ctx, tenantID, runID)
	if err != nil {
		log.Error("import_run_config_unavailable", "error", err)
		e.metrics.Run("aborted", e.now().Sub(started))
		return Summary{}, fmt.Errorf("%w: %w", ErrRunConfigUnavailable, err)
	}

	log.Info("import_run_started")
	e.auditRun(ctx, tenantID, runID, "import.run_started", nil)

	files := e.fetchFiles(ctx, log, cfg)
	if err := ctx.Err(); err != nil {
		e.metrics.Run("interrupted", e.now().Sub(started))
		return Summary{RunID: runID, TenantID: tenantID, StartedAt: started}, err
	}

	rc, err := e.newRunContext(ctx, log, tenantID, runID)
	if err != nil {
		log.Error("import_lookup_load_failed", "error", err)
		e.metrics.Run("failed", e.now().Sub(started))
		return Summary{}, err
	}
	rc.summary.StartedAt = started

	for _, entity := range records.FileEntities {
		rows, ok := files[entity]
		if !ok {
			continue
		}
		rc.summary.Files = append(rc.summary.Files, entity)
		if err := e.processEntity(ctx, rc, entity, rows); err != nil {
			log.Warn("import_run_interrupted", "entity", entity, "error", err)
			e.metrics.Run("interrupted", e.now().Sub(started))
			return rc.summary, err
		}
	}

	completedAt := e.now()
	rc.summary.CompletedAt = &completedAt
	if err := e.complete(ctx, rc, cfg, completedAt); err != nil {
		log.Error("import_run_complete_failed", "error", err)
		e.metrics.Run("failed", completedAt.Sub(started))
		return rc.summary, err
	}

	log.Info("import_run_completed",
		"rows", rc.summary.RowsTotal,
		"issues", rc.summary.IssuesTotal,
		"duration_ms", completedAt.Sub(started).Milliseconds(),
	)
	e.auditRun(ctx, tenantID, runID, "import.run_completed", map[string]any{
		"rows":   rc.summary.RowsTotal,
		"issues": rc.summary.IssuesTotal,
	})
	e.metrics.Run("completed", completedAt.Sub(started))
	return rc.summary, nil
}

func (e *Engine) processEntity(ctx context.Context, rc *runContext, entity records.Entity, rows []tabular.Row) error {
	switch entity {
	case records.EntityCustomers:
		return e.eachRow(ctx, rc, entity, rows, e.importCustomer)
	case records.EntityVehicles:
		return e.eachRow(ctx, rc, entity, rows, e.importVehicle)
	case records.EntityParts:
		return e.eachRow(ctx, rc, entity, rows, e.importPart)
	case records.EntityStaff:
		if rc.watermarks[entity] == 0 {
			if err := e.store.DeleteStaffSuggestions(ctx, rc.tenantID, rc.runID); err != nil {
				rc.log.Error("import_staff_reset_failed", "error", err)
				rc.summary.addIssue(RowIssue{Entity: entity, Result: resultError, Message: "could not clear earlier staff suggestions"})
				return nil
			}
		}
		return e.eachRow(ctx, rc, entity, rows, e.importStaff)
	case records.EntityHistory:
		return e.eachRow(ctx, rc, entity, rows, e.importHistory)
	}
	return nil
}

type rowFunc func(ctx context.Context, rc *runContext, row tabular.Row) (outcome, error)

// eachRow imports rows strictly in order. Rows at or before the entity's
// watermark were handled by an earlier attempt of the same run. The watermark
// stops advancing at the first failed row so a resume retries it and
// everything after it.
func (e *Engine) eachRow(ctx context.Context, rc *runContext, entity records.Entity, rows []tabular.Row, fn rowFunc) error {
	watermark := rc.watermarks[entity]
	advance := true
	for _, row := range rows {
		if row.Line <= watermark {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rc.summary.RowsTotal++
		out, err := fn(ctx, rc, row)
		if err != nil {
			out = outcome{result: resultError, message: err.Error()}
			rc.log.Warn("import_row_failed", "entity", entity, "row", row.Line, "error", err)
			advance = false
		}
		e.record(rc, entity, row.Line, out)

		if !advance {
			continue
		}
		if err := e.store.SaveWatermark(ctx, rc.tenantID, rc.runID, entity, row.Line); err != nil {
			rc.log.Warn("import_watermark_save_failed", "entity", entity, "row", row.Line, "error", err)
		}
	}
	return nil
}

func (e *Engine) record(rc *runContext, entity records.Entity, line int, out outcome) {
	rc.summary.increment(entity, out.result)
	e.metrics.Row(string(entity), out.result)
	if out.result == resultError || (out.result == resultSkipped && out.message != "") {
		rc.summary.addIssue(RowIssue{Entity: entity, Row: line, Result: out.result, Message: out.message})
	}
}

func (e *Engine) newRunContext(ctx context.Context, log *slog.Logger, tenantID, runID uuid.UUID) (*runContext, error) {
	rc := &runContext{
		tenantID:  tenantID,
		runID:     runID,
		log:       log,
		customers: resolve.New(),
		vehicles:  resolve.New(),
		staff:     resolve.New(),
		suggested: make(map[uuid.UUID]bool),
		summary:   Summary{RunID: runID, TenantID: tenantID},
	}

	customers, err := e.store.LoadCustomerKeys(ctx, tenantID, e.lookupLimit)
	if err != nil {
		return nil, fmt.Errorf("load customer keys: %w", err)
	}
	for _, c := range customers {
		rc.customers.Register(c.ID, c.Keys...)
	}

	vehicles, err := e.store.LoadVehicleKeys(ctx, tenantID, e.lookupLimit)
	if err != nil {
		return nil, fmt.Errorf("load vehicle keys: %w", err)
	}
	for _, v := range vehicles {
		rc.vehicles.Register(v.ID, v.Keys...)
	}

	members, err := e.store.LoadStaffMembers(ctx, tenantID, e.lookupLimit)
	if err != nil {
		return nil, fmt.Errorf("load staff members: %w", err)
	}
	for _, m := range members {
		rc.staff.Register(m.ID, m.Email, m.FullName)
	}

	if len(customers) >= e.lookupLimit || len(vehicles) >= e.lookupLimit {
		log.Warn("import_lookup_truncated", "limit", e.lookupLimit)
	}

	watermarks, err := e.store.Watermarks(ctx, tenantID, runID)
	if err != nil {
		return nil, fmt.Errorf("load watermarks: %w", err)
	}
	if watermarks == nil {
		watermarks = make(map[records.Entity]int)
	}
	rc.watermarks = watermarks
	rc.summary.Resumed = len(watermarks) > 0
	if rc.summary.Resumed {
		log.Info("import_run_resumed", "watermarks", watermarks)
	}
	return rc, nil
}

// fetchFiles downloads every attached file concurrently. A missing, failed
// or oversized download leaves that entity out of the result.
func (e *Engine) fetchFiles(ctx context.Context, log *slog.Logger, cfg records.RunConfig) map[records.Entity][]tabular.Row {
	decoded := make([][]tabular.Row, len(records.FileEntities))
	present := make([]bool, len(records.FileEntities))

	var g errgroup.Group
	for i, entity := range records.FileEntities {
		path := cfg.FilePath(entity)
		if path == "" {
			log.Info("import_file_absent", "entity", entity)
			continue
		}
		g.Go(func() error {
			data, err := e.download(ctx, path)
			if err != nil {
				log.Info("import_file_unavailable", "entity", entity, "path", path, "error", err)
				return nil
			}
			decoded[i] = tabular.DecodeFile(path, data)
			present[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[records.Entity][]tabular.Row, len(records.FileEntities))
	for i, entity := range records.FileEntities {
		if present[i] {
			out[entity] = decoded[i]
		}
	}
	return out
}

func (e *Engine) download(ctx context.Context, path string) ([]byte, error) {
	_, body, err := e.files.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, e.maxFileBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if int64(len(data)) > e.maxFileBytes {
		return nil, fmt.Errorf("file %s exceeds %d bytes", path, e.maxFileBytes)
	}
	return data, nil
}

func (e *Engine) complete(ctx context.Context, rc *runContext, cfg records.RunConfig, completedAt time.Time) error {
	notes, err := mergeNotes(cfg.Notes, completedAt, rc.summary)
	if err != nil {
		return fmt.Errorf("merge notes: %w", err)
	}
	if err := e.store.CompleteRun(ctx, rc.tenantID, rc.runID, completedAt, notes); err != nil {
		return fmt.Errorf("complete run: %w", err)
	}
	if err := e.store.ClearWatermarks(ctx, rc.tenantID, rc.runID); err != nil {
		rc.log.Warn("import_watermark_clear_failed", "error", err)
	}
	return nil
}

func (e *Engine) auditRun(ctx context.Context, tenantID, runID uuid.UUID, action string, metadata map[string]any) {
	if e.audit == nil {
		return
	}
	id := runID
	if err := e.audit.Log(ctx, audit.Entry{
		TenantID:   tenantID,
		Action:     action,
		EntityType: "import_run",
		EntityID:   &id,
		Metadata:   metadata,
	}); err != nil {
		e.logger.Warn("import_audit_failed", "action", action, "run_id", runID, "error", err)
	}
}

// mergeNotes records completion on top of whatever notes the run already
// had. Object notes gain an "import" key; any other prior value is kept
// under "previous_notes".
func mergeNotes(prior json.RawMessage, completedAt time.Time, summary Summary) (json.RawMessage, error) {
	notes := map[string]any{}
	if len(prior) > 0 && string(prior) != "null" {
		var obj map[string]any
		if err := json.Unmarshal(prior, &obj); err == nil && obj != nil {
			notes = obj
		} else if json.Valid(prior) {
			notes["previous_notes"] = json.RawMessage(prior)
		} else {
			notes["previous_notes"] = string(prior)
		}
	}
	notes["import"] = map[string]any{
		"completed_at": normalize.ISOInstant(completedAt),
		"summary":      summary,
	}
	encoded, err := json.Marshal(notes)
	if err != nil {
		return nil, err
	}
	return encoded, nil
}
