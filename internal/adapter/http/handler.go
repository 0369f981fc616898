package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"traffic-analyzer/internal/core/port"
	"traffic-analyzer/internal/metrics"
)

// defaultMaxUploadBytes bounds an imported spreadsheet when no limit is set.
const defaultMaxUploadBytes = 5 << 20

// Handler contains dependencies and routes. It is an inbound adapter for HTTP
// over a DashboardUseCase. Routes are registered on a chi.Router; every route
// except login sits behind HTTP Basic auth when a verifier is configured.
type Handler struct {
	svc       port.DashboardUseCase
	logger    *slog.Logger
	verifier  port.CredentialVerifier
	metrics   *metrics.Metrics
	limiter   *rate.Limiter
	maxUpload int64
	router    chi.Router
}

// Option configures a Handler.
type Option func(*Handler)

// WithVerifier enables the login endpoint and Basic auth on the API.
func WithVerifier(v port.CredentialVerifier) Option {
	return func(h *Handler) { h.verifier = v }
}

// WithMetrics instruments every request and serves /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithMessageLimiter throttles the message ingestion endpoint.
func WithMessageLimiter(l *rate.Limiter) Option {
	return func(h *Handler) { h.limiter = l }
}

// WithMaxUploadBytes caps the body of a spreadsheet import.
func WithMaxUploadBytes(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUpload = n
		}
	}
}

// NewHandler creates a handler with all routes configured.
func NewHandler(svc port.DashboardUseCase, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{svc: svc, logger: logger, maxUpload: defaultMaxUploadBytes}
	for _, opt := range opts {
		opt(h)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	if h.metrics != nil {
		r.Use(h.instrument)
		r.Method(http.MethodGet, "/metrics", h.metrics.Handler())
	}
	r.Get("/healthz", h.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", h.handleLogin)

		r.Group(func(r chi.Router) {
			if h.verifier != nil {
				r.Use(h.basicAuth)
			}
			r.Get("/dashboard", h.handleDashboard)
			r.Get("/reports", h.handleReports)

			r.Route("/campaigns", func(r chi.Router) {
				r.Get("/", h.handleListCampaigns)
				r.Post("/", h.handleCreateCampaign)
				r.Post("/import", h.handleImportCampaigns)
				r.Get("/template", h.handleCampaignTemplate)
				r.Put("/{id}", h.handleUpdateCampaign)
				r.Delete("/{id}", h.handleDeleteCampaign)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", h.handleListProducts)
				r.Post("/", h.handleCreateProduct)
				r.Put("/{id}", h.handleUpdateProduct)
				r.Delete("/{id}", h.handleDeleteProduct)
			})

			r.Get("/users", h.handleListUsers)
			r.Post("/users", h.handleAddUser)

			r.Get("/settings", h.handleGetSettings)
			r.Put("/settings", h.handlePutSettings)
			r.Delete("/data", h.handleClearData)

			r.With(h.rateLimit).Post("/messages", h.handleIngestMessage)
			r.Get("/activity", h.handleActivity)
		})
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"status": "ok"})
}
