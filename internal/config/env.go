// Package config defines environment variable keys for configuration.
package config

//nolint:gosec // Environment variable keys are not credentials.
const (
	// Server
	EnvPort            = "SB_PORT"
	EnvLogLevel        = "SB_LOG_LEVEL"
	EnvShutdownTimeout = "SB_SHUTDOWN_TIMEOUT"
	EnvTrustedProxies  = "SB_TRUSTED_PROXIES"
	EnvCORSOrigins     = "SB_CORS_ORIGINS"

	// Catalog
	EnvCatalogPath = "SB_CATALOG_PATH"

	// Session / history
	EnvHistoryCapacity = "SB_HISTORY_CAPACITY"
	EnvContextWindow   = "SB_CONTEXT_WINDOW"
	EnvSessionCapacity = "SB_SESSION_CAPACITY"

	// Backend tiers
	EnvRAGServiceURL  = "SB_RAG_SERVICE_URL"
	EnvTierTimeout    = "SB_TIER_TIMEOUT"
	EnvGeminiAPIKey   = "SB_GEMINI_API_KEY"
	EnvGeminiModel    = "SB_GEMINI_MODEL"
	EnvOpenAIAPIKey   = "SB_OPENAI_API_KEY"
	EnvOpenAIBaseURL  = "SB_OPENAI_BASE_URL"
	EnvOpenAIModel    = "SB_OPENAI_MODEL"
	EnvMaxContextSize = "SB_MAX_CONTEXT_CHARS"

	// Rate limits
	EnvChatRateBurst  = "SB_CHAT_RATE_BURST"
	EnvChatRateRefill = "SB_CHAT_RATE_REFILL"

	// Metrics auth
	EnvMetricsUsername = "SB_METRICS_USERNAME"
	EnvMetricsPassword = "SB_METRICS_PASSWORD"

	// Sentry
	EnvSentryToken       = "SB_SENTRY_TOKEN"
	EnvSentryHost        = "SB_SENTRY_HOST"
	EnvSentryEnvironment = "SB_SENTRY_ENVIRONMENT"
	EnvSentrySampleRate  = "SB_SENTRY_SAMPLE_RATE"

	// Better Stack
	EnvBetterStackToken    = "SB_BETTERSTACK_TOKEN"
	EnvBetterStackEndpoint = "SB_BETTERSTACK_ENDPOINT"
)
