// Package config provides centralized timeout constants for the application.
//
// These values are tuned for a chat-style request path: the widget keeps
// the user waiting while at most two remote tiers are attempted, so the
// per-tier budget must leave room for the local responder to still answer
// within the HTTP write timeout.
package config

import "time"

// Backend tier timeouts
const (
	// TierInvoke is the per-tier timeout for a single backend attempt.
	// A tier that cannot answer within this window is treated as failed
	// and the orchestrator advances to the next tier.
	TierInvoke = 10 * time.Second

	// TierRetryInitial is the initial delay before retrying a transient
	// tier failure. Exponential backoff with full jitter: 500ms -> 1s -> 2s.
	TierRetryInitial = 500 * time.Millisecond

	// TierRetryMax caps the backoff delay between retries.
	TierRetryMax = 3 * time.Second
)

// HTTP server timeouts
const (
	// ServerHTTPRead bounds reading a chat request body. Requests are
	// small JSON payloads.
	ServerHTTPRead = 10 * time.Second

	// ServerHTTPWrite must accommodate two tier attempts plus rendering.
	ServerHTTPWrite = 25 * time.Second

	// ServerHTTPIdle is the keep-alive idle timeout.
	ServerHTTPIdle = 120 * time.Second

	// ServerShutdown is the default graceful shutdown budget.
	ServerShutdown = 30 * time.Second
)
