package main

import (
	"context"
	_ "embed"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kislikjeka/brc20dash/internal/history"
	"github.com/kislikjeka/brc20dash/internal/infra/gateway/unisat"
	"github.com/kislikjeka/brc20dash/internal/transport/httpapi"
	"github.com/kislikjeka/brc20dash/internal/transport/httpapi/handler"
	"github.com/kislikjeka/brc20dash/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/brc20dash/pkg/config"
	"github.com/kislikjeka/brc20dash/pkg/logger"
)

//go:embed openapi.yaml
var openAPISpec []byte

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithFormat(cfg.Env, cfg.LogFormat, os.Stdout)
	log.Info("Starting BRC-20 history dashboard",
		"env", cfg.Env,
		"port", cfg.Port,
		"ticker", cfg.UnisatTicker,
	)

	// Initialize UniSat indexer client
	unisatClient := unisat.NewClient(unisat.Config{
		APIKey:  cfg.UnisatAPIKey,
		BaseURL: cfg.UnisatBaseURL,
		Ticker:  cfg.UnisatTicker,
		Timeout: cfg.UnisatRequestTimeout,
	}, log)

	// Initialize history fetcher and service
	fetcher := history.NewFetcher(
		unisat.NewHistoryAdapter(unisatClient),
		history.FetcherConfig{
			PageSize: cfg.HistoryPageSize,
			MaxPages: cfg.HistoryMaxPages,
		},
		log,
	)
	historySvc := history.NewService(fetcher, log)
	log.Info("History service initialized",
		"page_size", cfg.HistoryPageSize,
		"max_pages", cfg.HistoryMaxPages,
	)

	// Time frame presets (built-in unless a YAML file is configured)
	frames := history.DefaultTimeFrames
	if cfg.TimeFramesPath != "" {
		if frames, err = loadTimeFrames(cfg.TimeFramesPath); err != nil {
			log.Error("Failed to load timeframes config", "error", err)
			os.Exit(1)
		}
		log.Info("Time frames loaded", "path", cfg.TimeFramesPath, "count", len(frames.Frames()))
	}

	// Initialize HTTP handlers
	historyHandler := handler.NewHistoryHandler(historySvc, log,
		handler.WithTimeFrames(frames),
		handler.WithFetchTimeout(cfg.HistoryFetchTimeout),
	)
	healthHandler := handler.NewHealthHandler(unisatClient.Ticker())
	docsHandler := handler.NewDocsHandler(openAPISpec)

	// Bearer auth is optional for a single-operator dashboard
	var jwtMiddleware func(http.Handler) http.Handler
	if cfg.AuthEnabled() {
		jwtMiddleware = middleware.JWTMiddleware(middleware.NewJWTService(cfg.DashboardJWTSecret))
		log.Info("Bearer token authentication enabled")
	} else {
		log.Warn("DASHBOARD_JWT_SECRET not configured, API is unauthenticated")
	}

	// Create HTTP router
	r := httpapi.NewRouter(httpapi.Config{
		Logger:            log,
		AllowedOrigins:    cfg.AllowedOrigins,
		HistoryHandler:    historyHandler,
		HealthHandler:     healthHandler,
		DocsHandler:       docsHandler,
		JWTMiddleware:     jwtMiddleware,
		RateLimitRPS:      cfg.RateLimitRPS,
		RateLimitBurst:    cfg.RateLimitBurst,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})
	if cfg.TrustProxyHeaders {
		log.Info("Trusting proxy headers for client addresses")
	}

	// Handlers stop fetching at HistoryFetchTimeout; the write deadline
	// leaves room to send the response after that
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.HistoryFetchTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
