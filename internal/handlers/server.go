package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/EdwardLakin/ProFixIQ-sub003/internal/config"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/httpx"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/importer"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/records"
)

// RunStore reads import-run configuration and progress.
type RunStore interface {
	GetRunConfig(ctx context.Context, tenantID, runID uuid.UUID) (records.RunConfig, error)
	Watermarks(ctx context.Context, tenantID, runID uuid.UUID) (map[records.Entity]int, error)
}

type Runner interface {
	Run(ctx context.Context, tenantID, runID uuid.UUID) (importer.Summary, error)
}

type Server struct {
	Config   config.Config
	Runs     RunStore
	Importer Runner
	Logger   *slog.Logger

	mu     sync.Mutex
	active map[runKey]struct{}
}

type runKey struct {
	tenantID uuid.UUID
	runID    uuid.UUID
}

func NewServer(cfg config.Config, runs RunStore, runner Runner, logger *slog.Logger) *Server {
	return &Server{
		Config:   cfg,
		Runs:     runs,
		Importer: runner,
		Logger:   logger,
		active:   map[runKey]struct{}{},
	}
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// claim marks a run as in flight in this process. It returns false when the
// run is already being processed.
func (s *Server) claim(key runKey) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.active[key]; busy {
		return false
	}
	s.active[key] = struct{}{}
	return true
}

func (s *Server) release(key runKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.active, key)
}
