package app

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	openapimiddleware "github.com/oapi-codegen/nethttp-middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apispec "github.com/EdwardLakin/ProFixIQ-sub003/api"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/config"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/handlers"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/httpx"
	"github.com/EdwardLakin/ProFixIQ-sub003/internal/middleware"
)

func NewRouter(cfg config.Config, deps Deps, logger *slog.Logger) (http.Handler, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(apispec.Spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(cfg.Env))
	r.Use(middleware.Logging(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.LimitBodyBytes(cfg.APIMaxBodyBytes))

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	api := chi.NewRouter()
	api.Use(openapimiddleware.OapiRequestValidatorWithOptions(doc, &openapimiddleware.Options{
		SilenceServersWarning: true,
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			requestID := w.Header().Get("X-Request-Id")
			httpx.WriteJSON(w, statusCode, httpx.ErrorEnvelope{
				Error:     httpx.ErrorBody{Code: "validation_error", Message: message},
				RequestID: requestID,
			})
		},
	}))

	h := handlers.NewServer(cfg, deps.Runs, deps.Importer, logger)
	triggerLimiter := middleware.NewKeyedRateLimiter(cfg.ImportTriggerLimit, cfg.ImportTriggerWindow, cfg.RateLimitMaxKeys)

	api.Get("/health", h.GetHealth)

	api.Group(func(tenant chi.Router) {
		tenant.Use(middleware.RequireTenant)
		tenant.Get("/import-runs/{runId}", h.GetImportRunsRunId)
		tenant.With(
			triggerLimiter.Middleware("Too many import runs triggered"),
		).Post("/import-runs/{runId}/process", h.PostImportRunsRunIdProcess)
	})

	r.Mount("/api", api)
	return r, nil
}
