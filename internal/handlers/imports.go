package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/httpx"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/importer"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/middleware"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
)

type importRunResponse struct {
	ID          openapi_types.UUID        `json:"id"`
	TenantID    openapi_types.UUID        `json:"tenantId"`
	Files       map[records.Entity]string `json:"files"`
	Status      string                    `json:"status"`
	ResumeFrom  map[records.Entity]int    `json:"resumeFrom,omitempty"`
	ProcessedAt *time.Time                `json:"processedAt"`
	Notes       json.RawMessage           `json:"notes,omitempty"`
	CreatedAt   time.Time                 `json:"createdAt"`
}

// PostImportRunsRunIdProcess runs the import synchronously and answers with
// the run summary. The run is detached from the request's cancellation so a
// dropped connection does not abandon it halfway.
func (s *Server) PostImportRunsRunIdProcess(w http.ResponseWriter, r *http.Request) {
	runID, ok := bindRunID(w, r)
	if !ok {
		return
	}
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusBadRequest, "tenant_required", "X-Tenant-Id header is required", nil)
		return
	}

	key := runKey{tenantID: tenantID, runID: runID}
	if !s.claim(key) {
		httpx.WriteError(w, r, http.StatusConflict, "run_in_progress", "Import run is already being processed", nil)
		return
	}
	defer s.release(key)

	summary, err := s.Importer.Run(context.WithoutCancel(r.Context()), tenantID, runID)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrRunConfigUnavailable) && errors.Is(err, records.ErrNotFound):
			httpx.WriteError(w, r, http.StatusNotFound, "import_run_not_found", "Import run not found", nil)
		case errors.Is(err, importer.ErrRunConfigUnavailable):
			s.Logger.Error("import_run_config_failed", "tenant_id", tenantID, "run_id", runID, "error", err)
			httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to load import run", nil)
		default:
			s.Logger.Error("import_run_failed", "tenant_id", tenantID, "run_id", runID, "error", err)
			httpx.WriteError(w, r, http.StatusInternalServerError, "import_failed", "Import run did not complete; trigger it again to resume", map[string]any{
				"rowsTotal":   summary.RowsTotal,
				"issuesTotal": summary.IssuesTotal,
			})
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, summary)
}

func (s *Server) GetImportRunsRunId(w http.ResponseWriter, r *http.Request) {
	runID, ok := bindRunID(w, r)
	if !ok {
		return
	}
	tenantID, ok := middleware.TenantIDFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusBadRequest, "tenant_required", "X-Tenant-Id header is required", nil)
		return
	}

	cfg, err := s.Runs.GetRunConfig(r.Context(), tenantID, runID)
	if err != nil {
		if errors.Is(err, records.ErrNotFound) {
			httpx.WriteError(w, r, http.StatusNotFound, "import_run_not_found", "Import run not found", nil)
			return
		}
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to load import run", nil)
		return
	}
	marks, err := s.Runs.Watermarks(r.Context(), tenantID, runID)
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to load import progress", nil)
		return
	}

	resp := importRunResponse{
		ID:          cfg.ID,
		TenantID:    cfg.TenantID,
		Files:       cfg.Files,
		Status:      runStatus(cfg, marks),
		ProcessedAt: cfg.ProcessedAt,
		Notes:       cfg.Notes,
		CreatedAt:   cfg.CreatedAt,
	}
	if resp.Files == nil {
		resp.Files = map[records.Entity]string{}
	}
	if len(marks) > 0 {
		resp.ResumeFrom = marks
	}
	httpx.WriteJSON(w, http.StatusOK, resp)
}

func runStatus(cfg records.RunConfig, marks map[records.Entity]int) string {
	switch {
	case len(marks) > 0:
		return "in_progress"
	case cfg.ProcessedAt != nil:
		return "processed"
	default:
		return "pending"
	}
}

func bindRunID(w http.ResponseWriter, r *http.Request) (openapi_types.UUID, bool) {
	var runID openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "runId", chi.URLParam(r, "runId"), &runID, runtime.BindStyledParameterOptions{
		ParamLocation: runtime.ParamLocationPath,
		Explode:       false,
		Required:      true,
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusBadRequest, "invalid_run_id", "runId must be a UUID", nil)
		return openapi_types.UUID{}, false
	}
	return runID, true
}
