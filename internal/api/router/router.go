package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aurelia-labs/sales-agent-platform/internal/http/handlers"
	httpmiddleware "github.com/aurelia-labs/sales-agent-platform/internal/http/middleware"
	"github.com/aurelia-labs/sales-agent-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	HealthHandler      *handlers.HealthHandler
	ChatHandler        *handlers.ChatHandler
	IngestHandler      *handlers.IngestHandler
	AdminLeadsHandler  *handlers.AdminLeadsHandler
	MetricsHandler     http.Handler
	AdminJWTSecret     string
	CORSAllowedOrigins []string
	RateLimitPerSec    float64
	RateLimitBurst     int
}

// New creates the chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.Check)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/api/v1", func(api chi.Router) {
		if cfg.RateLimitPerSec > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSec, cfg.RateLimitBurst))
		}
		if cfg.ChatHandler != nil {
			api.Post("/chat", cfg.ChatHandler.Handle)
		}
		if cfg.IngestHandler != nil {
			api.Post("/ingest", cfg.IngestHandler.Handle)
		}
	})

	if cfg.AdminLeadsHandler != nil {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(httpmiddleware.AdminJWT(cfg.AdminJWTSecret))
			admin.Get("/orgs/{orgID}/leads", cfg.AdminLeadsHandler.List)
		})
	}

	return r
}
