// Package main provides the study buddy server entry point.
package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/studybuddy-ai/study-buddy-go/internal/buildinfo"
	"github.com/studybuddy-ai/study-buddy-go/internal/catalog"
	"github.com/studybuddy-ai/study-buddy-go/internal/config"
	"github.com/studybuddy-ai/study-buddy-go/internal/httpapi"
)

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, api *httpapi.Handler, cfg *config.Config, idx *catalog.Index, registry *prometheus.Registry) {
	// Service banner
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "study-buddy",
			"version": buildinfo.Version,
			"status":  "running",
		})
	})

	// Health check endpoints
	// Liveness probe: only that the process is running, never dependencies
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness probe: reports catalog and tier state. The service
	// stays ready with an empty catalog because the local responder
	// still answers; the payload makes the degradation visible.
	readyHandler := func(c *gin.Context) {
		subjects, units, topics := idx.Stats()
		c.JSON(http.StatusOK, gin.H{
			"status":  "ready",
			"version": buildinfo.Version,
			"catalog": gin.H{
				"subjects": subjects,
				"units":    units,
				"topics":   topics,
			},
			"tiers": gin.H{
				"rag_service": cfg.RAGServiceURL != "",
				"gemini":      cfg.GeminiAPIKey != "",
				"openai":      cfg.OpenAIAPIKey != "",
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Chat API
	router.POST("/api/chat", api.Chat)
	router.GET("/api/subjects", api.Subjects)
	router.POST("/api/search", api.Search)
	router.DELETE("/api/sessions/:id", api.Reset)

	// Prometheus metrics endpoint, behind Basic Auth when configured
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}
