package api

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kirychukyurii/dr-dashboard/internal/service"
	"github.com/kirychukyurii/dr-dashboard/ui"
)

// Handler holds the HTTP handlers and dependencies
type Handler struct {
	service   service.DashboardService
	notices   *NoticeBoard
	templates *template.Template
	logger    *slog.Logger
	basePath  string
}

// NewHandler creates a new HTTP handler
func NewHandler(service service.DashboardService, notices *NoticeBoard, basePath string, logger *slog.Logger) (*Handler, error) {
	templates, err := ui.Templates()
	if err != nil {
		return nil, err
	}

	return &Handler{
		service:   service,
		notices:   notices,
		templates: templates,
		logger:    logger,
		basePath:  basePath,
	}, nil
}

// Router creates and configures the HTTP router
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.loggingMiddleware)
	r.Use(middleware.Recoverer)

	// Create routes handler
	routesHandler := h.createRoutes()

	// If base path is configured, mount routes on that path
	if h.basePath != "" {
		r.Mount(h.basePath, routesHandler)
	} else {
		r.Mount("/", routesHandler)
	}

	return r
}

// createRoutes creates the API and UI routes
func (h *Handler) createRoutes() http.Handler {
	r := chi.NewRouter()

	// Dashboard routes
	r.Get("/", h.Dashboard)
	r.Post("/refresh", h.Refresh)
	r.Get("/failover", h.ConfirmFailover)
	r.Post("/failover", h.InitiateFailover)

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", h.GetState)
		r.Post("/refresh", h.RefreshState)
		r.Post("/failover", h.RequestFailover)
	})

	r.Get("/healthz", h.Healthz)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", h.ServeStatic())

	return r
}

// loggingMiddleware logs HTTP requests
func (h *Handler) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Info("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)
		next.ServeHTTP(w, r)
	})
}

// errorResponse represents an error response
type errorResponse struct {
	Error string `json:"error"`
}

// respondJSON writes a JSON response
func (h *Handler) respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response",
			slog.String("error", err.Error()),
		)
	}
}

// respondError writes an error response
func (h *Handler) respondError(w http.ResponseWriter, statusCode int, message string) {
	h.respondJSON(w, statusCode, errorResponse{Error: message})
}
