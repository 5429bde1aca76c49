// Package config provides application configuration management.
// It loads settings from environment variables and provides defaults for
// server mode, backend tiers, session limits, and rate limiting.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server Configuration
	Port            string
	LogLevel        string
	ShutdownTimeout time.Duration
	TrustedProxies  []string
	CORSOrigins     []string

	// Catalog Configuration
	CatalogPath string // Path to the subjects JSON catalog

	// Session Configuration
	HistoryCapacity int // Max turns kept per session (FIFO eviction)
	ContextWindow   int // Turns sent as model context (last N)
	SessionCapacity int // Max concurrently tracked sessions (LRU eviction)

	// Backend Tier Configuration
	RAGServiceURL   string        // Primary tier base URL (empty = tier skipped)
	TierTimeout     time.Duration // Per-tier invocation timeout
	GeminiAPIKey    string        // Secondary tier: Gemini credential
	GeminiModel     string        // Gemini completion model
	OpenAIAPIKey    string        // Secondary tier: OpenAI-compatible credential
	OpenAIBaseURL   string        // OpenAI-compatible endpoint (default: Groq)
	OpenAIModel     string        // OpenAI-compatible completion model
	MaxContextChars int           // Cap on inlined syllabus context size

	// Rate Limits (token bucket, per session key)
	ChatRateBurst  float64 // Maximum burst tokens per key (default: 10)
	ChatRateRefill float64 // Tokens refilled per second (default: 0.5)

	// Metrics Authentication
	MetricsUsername string // Username for /metrics Basic Auth (default: "prometheus")
	MetricsPassword string // Password for /metrics Basic Auth (empty = no auth)

	// Sentry (Better Stack Errors)
	SentryToken       string
	SentryHost        string
	SentryEnvironment string
	SentrySampleRate  float64

	// Better Stack Logs
	BetterStackToken    string
	BetterStackEndpoint string
}

// Defaults applied when the corresponding env var is absent.
const (
	DefaultHistoryCapacity = 10
	DefaultContextWindow   = 5
	DefaultSessionCapacity = 512
	DefaultMaxContextChars = 24000
	DefaultGeminiModel     = "gemini-2.0-flash"
	DefaultOpenAIBaseURL   = "https://api.groq.com/openai/v1/"
	DefaultOpenAIModel     = "llama-3.3-70b-versatile"
)

// Load reads configuration from environment variables
// It attempts to load .env file first, then reads from env vars
func Load() (*Config, error) {
	// Try to load .env file (ignore error if file doesn't exist)
	_ = godotenv.Load()

	cfg := &Config{
		// Server Configuration
		Port:            getEnv(EnvPort, "8000"),
		LogLevel:        getEnv(EnvLogLevel, "info"),
		ShutdownTimeout: getDurationEnv(EnvShutdownTimeout, ServerShutdown),
		TrustedProxies:  getListEnv(EnvTrustedProxies, nil),
		CORSOrigins:     getListEnv(EnvCORSOrigins, []string{"*"}),

		// Catalog Configuration
		CatalogPath: getEnv(EnvCatalogPath, "data/syllabus.json"),

		// Session Configuration
		HistoryCapacity: getIntEnv(EnvHistoryCapacity, DefaultHistoryCapacity),
		ContextWindow:   getIntEnv(EnvContextWindow, DefaultContextWindow),
		SessionCapacity: getIntEnv(EnvSessionCapacity, DefaultSessionCapacity),

		// Backend Tier Configuration
		RAGServiceURL:   getEnv(EnvRAGServiceURL, ""),
		TierTimeout:     getDurationEnv(EnvTierTimeout, TierInvoke),
		GeminiAPIKey:    getEnv(EnvGeminiAPIKey, ""),
		GeminiModel:     getEnv(EnvGeminiModel, DefaultGeminiModel),
		OpenAIAPIKey:    getEnv(EnvOpenAIAPIKey, ""),
		OpenAIBaseURL:   getEnv(EnvOpenAIBaseURL, DefaultOpenAIBaseURL),
		OpenAIModel:     getEnv(EnvOpenAIModel, DefaultOpenAIModel),
		MaxContextChars: getIntEnv(EnvMaxContextSize, DefaultMaxContextChars),

		// Rate Limits
		ChatRateBurst:  getFloatEnv(EnvChatRateBurst, 10.0),
		ChatRateRefill: getFloatEnv(EnvChatRateRefill, 0.5),

		// Metrics Authentication
		MetricsUsername: getEnv(EnvMetricsUsername, "prometheus"),
		MetricsPassword: getEnv(EnvMetricsPassword, ""),

		// Sentry
		SentryToken:       getEnv(EnvSentryToken, ""),
		SentryHost:        getEnv(EnvSentryHost, "errors.betterstack.com"),
		SentryEnvironment: getEnv(EnvSentryEnvironment, "production"),
		SentrySampleRate:  getFloatEnv(EnvSentrySampleRate, 1.0),

		// Better Stack Logs
		BetterStackToken:    getEnv(EnvBetterStackToken, ""),
		BetterStackEndpoint: getEnv(EnvBetterStackEndpoint, ""),
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New(EnvPort+" is required"))
	}
	if c.CatalogPath == "" {
		errs = append(errs, errors.New(EnvCatalogPath+" is required"))
	}
	if c.HistoryCapacity <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvHistoryCapacity, c.HistoryCapacity))
	}
	if c.ContextWindow <= 0 || c.ContextWindow > c.HistoryCapacity {
		errs = append(errs, fmt.Errorf("%s must be in 1..%d, got %d", EnvContextWindow, c.HistoryCapacity, c.ContextWindow))
	}
	if c.SessionCapacity <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvSessionCapacity, c.SessionCapacity))
	}
	if c.TierTimeout <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %v", EnvTierTimeout, c.TierTimeout))
	}
	if c.MaxContextChars <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive, got %d", EnvMaxContextSize, c.MaxContextChars))
	}
	if c.OpenAIAPIKey != "" && c.OpenAIModel == "" {
		errs = append(errs, errors.New(EnvOpenAIModel+" is required when an OpenAI-compatible key is set"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// HasRemoteTier returns true if at least one remote backend tier is configured.
func (c *Config) HasRemoteTier() bool {
	return c.RAGServiceURL != "" || c.GeminiAPIKey != "" || c.OpenAIAPIKey != ""
}

// getEnv retrieves environment variable with fallback to default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves integer environment variable with fallback to default value
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getDurationEnv retrieves duration environment variable with fallback to default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// getFloatEnv retrieves float64 environment variable with fallback to default value
func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getListEnv retrieves a comma-separated list with fallback to default value
func getListEnv(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
