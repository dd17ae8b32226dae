package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/brc20dash/internal/transport/httpapi/handler"
	"github.com/kislikjeka/brc20dash/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/brc20dash/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger         *logger.Logger
	AllowedOrigins []string
	HistoryHandler *handler.HistoryHandler
	HealthHandler  *handler.HealthHandler
	DocsHandler    *handler.DocsHandler
	JWTMiddleware  func(http.Handler) http.Handler // optional; nil leaves the API open
	RateLimitRPS   int
	RateLimitBurst int

	// TrustProxyHeaders applies chi's RealIP so the rate limiter keys on the
	// forwarded client address. Leave off unless a proxy sets the headers.
	TrustProxyHeaders bool
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	if cfg.Logger == nil {
		cfg.Logger = logger.Discard()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Compress(5))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))
	}

	// Health check endpoints (no authentication required)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health", cfg.HealthHandler.GetHealth)
	}

	// API documentation endpoint
	if cfg.DocsHandler != nil {
		r.Get("/docs", cfg.DocsHandler.GetOpenAPISpec)
		r.Get("/docs/info", cfg.DocsHandler.GetOpenAPIJSON)
	}

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.JWTMiddleware != nil {
			r.Use(cfg.JWTMiddleware)
		}

		if cfg.HistoryHandler != nil {
			r.Get("/timeframes", cfg.HistoryHandler.ListTimeFrames)
			r.Get("/dashboard", cfg.HistoryHandler.GetDashboard)

			r.Route("/history/{type}", func(r chi.Router) {
				r.Get("/", cfg.HistoryHandler.GetHistory)
				r.Get("/export.csv", cfg.HistoryHandler.ExportCSV)
				r.Get("/top", cfg.HistoryHandler.GetTopAddresses)
				r.Get("/volume", cfg.HistoryHandler.GetVolume)
			})
		}
	})

	return r
}
