// Package main provides the study buddy server entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/studybuddy-ai/study-buddy-go/internal/backend"
	"github.com/studybuddy-ai/study-buddy-go/internal/buildinfo"
	"github.com/studybuddy-ai/study-buddy-go/internal/catalog"
	"github.com/studybuddy-ai/study-buddy-go/internal/config"
	"github.com/studybuddy-ai/study-buddy-go/internal/history"
	"github.com/studybuddy-ai/study-buddy-go/internal/httpapi"
	"github.com/studybuddy-ai/study-buddy-go/internal/logger"
	"github.com/studybuddy-ai/study-buddy-go/internal/metrics"
	"github.com/studybuddy-ai/study-buddy-go/internal/orchestrator"
	"github.com/studybuddy-ai/study-buddy-go/internal/ratelimit"
	"github.com/studybuddy-ai/study-buddy-go/internal/sentry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewWithOptions(cfg.LogLevel, os.Stdout, logger.Options{
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log.Info("Starting Study Buddy Server", "version", buildinfo.Version, "commit", buildinfo.Commit)

	// Initialize error tracking (no-op without a token)
	if err := sentry.Initialize(sentry.Config{
		Token:       cfg.SentryToken,
		Host:        cfg.SentryHost,
		Environment: cfg.SentryEnvironment,
		Release:     buildinfo.Version,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Failed to initialize error tracking")
	} else if sentry.IsEnabled() {
		log.Info("Error tracking initialized")
	}
	defer sentry.Flush(2 * time.Second)

	// Load the subject catalog. A load failure degrades to an empty
	// catalog rather than refusing to start; the local responder
	// reports the missing data to users.
	idx, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.WithError(err).WithField("path", cfg.CatalogPath).Warn("Failed to load catalog, starting with empty index")
	}
	subjects, units, topics := idx.Stats()
	log.Info("Catalog loaded", "subjects", subjects, "units", units, "topics", topics)

	// Create Prometheus registry with runtime collectors
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	registry.MustRegister(collectors.NewBuildInfoCollector())

	m := metrics.New(registry)
	m.SetCatalogSize(subjects, topics)
	log.Info("Metrics initialized")

	// Create session store
	sessions, err := history.NewStore(cfg.SessionCapacity, cfg.HistoryCapacity,
		history.WithEvictionCallback(func(string) { m.RecordSessionEvicted() }))
	if err != nil {
		log.WithError(err).Error("Failed to create session store")
		os.Exit(1)
	}

	// Build the answer tiers in fallback order
	tiers := buildTiers(cfg, log)
	if !cfg.HasRemoteTier() {
		log.Warn("No remote tier configured, all queries will be answered locally")
	}

	orch := orchestrator.New(
		tiers,
		orchestrator.NewResponder(idx),
		backend.NewContextBuilder(idx, cfg.MaxContextChars),
		orchestrator.Options{
			TierTimeout:   cfg.TierTimeout,
			ContextWindow: cfg.ContextWindow,
		},
		log,
		m,
	)

	// Per-client rate limiting for the chat endpoint
	limiter := ratelimit.NewPerKeyLimiter(ratelimit.PerKeyLimiterConfig{
		MaxTokens:     cfg.ChatRateBurst,
		RefillRate:    cfg.ChatRateRefill,
		CleanupPeriod: 5 * time.Minute,
	})
	limiter.OnDrop(func() { m.RecordRateLimiterDrop("client") })
	defer limiter.Stop()

	api := httpapi.New(orch, sessions, idx, limiter, log, m)

	// Set Gin mode based on log level
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		log.WithError(err).Error("Invalid trusted proxies")
		os.Exit(1)
	}

	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		// Repanic lets gin.Recovery still produce the 500 after capture.
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(securityHeadersMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(corsMiddleware(cfg.CORSOrigins))
	router.Use(loggingMiddleware(log))

	setupRoutes(router, api, cfg, idx, registry)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  config.ServerHTTPRead,
		WriteTimeout: config.ServerHTTPWrite,
		IdleTimeout:  config.ServerHTTPIdle,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Failed to start server")
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}

	log.Info("Server stopped")
}

// buildTiers assembles the remote tiers in fallback order: the
// retrieval service first, then direct completion providers.
// Unconfigured tiers are skipped at orchestration time.
func buildTiers(cfg *config.Config, log *logger.Logger) []backend.Tier {
	var tiers []backend.Tier

	tiers = append(tiers, backend.NewRAGService(cfg.RAGServiceURL, cfg.TierTimeout, log))
	if cfg.RAGServiceURL != "" {
		log.Info("Retrieval service tier configured", "url", cfg.RAGServiceURL)
	}

	gemini, err := backend.NewGeminiCompleter(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, 3, log)
	if err != nil {
		log.WithError(err).Warn("Failed to create Gemini tier")
	} else if gemini != nil {
		tiers = append(tiers, gemini)
		log.Info("Gemini completion tier configured", "model", cfg.GeminiModel)
	}

	openaiTier := backend.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, 3, log)
	if openaiTier.Configured() {
		tiers = append(tiers, openaiTier)
		log.Info("OpenAI-compatible completion tier configured", "model", cfg.OpenAIModel)
	}

	return tiers
}
