package transport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/torrejon/vecinored/internal/domain/activity"
	"github.com/torrejon/vecinored/internal/domain/session"
	"github.com/torrejon/vecinored/internal/health"
	"github.com/torrejon/vecinored/internal/metrics"
	"github.com/torrejon/vecinored/internal/registry"
)

// Config holds the dependencies of the HTTP surface.
type Config struct {
	Controller  *registry.Controller
	Sessions    *session.Store
	Activity    *activity.Service
	Tokens      *TokenIssuer
	Health      *health.Checker
	Metrics     *metrics.Registry // optional
	MCP         http.Handler      // optional, mounted at /mcp
	CORSOrigins []string
	Logger      *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	controller *registry.Controller
	sessions   *session.Store
	activity   *activity.Service
	tokens     *TokenIssuer
	health     *health.Checker
	logger     *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(cfg Config) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	srv := &Server{
		controller: cfg.Controller,
		sessions:   cfg.Sessions,
		activity:   cfg.Activity,
		tokens:     cfg.Tokens,
		health:     cfg.Health,
		logger:     logger,
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Mcp-Session-Id"},
		ExposedHeaders:   []string{"Mcp-Session-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", srv.handleHealth)
	r.Post("/api/session/login", srv.handleLogin)
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(cfg.Tokens, cfg.Sessions))

		r.Get("/api/session", srv.handleCurrentSession)
		r.Post("/api/session/logout", srv.handleLogout)

		r.Get("/api/view", srv.handleView)
		r.Put("/api/view/mode", srv.handleSetMode)
		r.Delete("/api/view/error", srv.handleDismissError)
		r.Get("/api/board", srv.handleBoard)
		r.Get("/api/activity", srv.handleActivity)

		r.Route("/api/neighbors", func(r chi.Router) {
			r.Get("/", srv.handleListNeighbors)
			r.Post("/reload", srv.handleReload)
			r.Patch("/{id}/status", srv.handleUpdateStatus)
			r.Delete("/{id}", srv.handleDeleteNeighbor)
		})

		r.Post("/api/form", srv.handleOpenForm)
		r.Delete("/api/form", srv.handleCancelForm)
		r.Post("/api/form/submit", srv.handleSubmitForm)

		r.Post("/api/details/{id}", srv.handleShowDetails)
		r.Delete("/api/details", srv.handleCloseDetails)

		if cfg.MCP != nil {
			r.Handle("/mcp", cfg.MCP)
			r.Handle("/mcp/*", cfg.MCP)
		}
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	st := s.health.Check(r.Context())
	status := http.StatusOK
	if !st.Healthy() {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, st)
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(began),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
