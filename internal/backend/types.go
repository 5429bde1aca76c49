// Package backend implements the answer tiers the orchestrator walks:
// the remote retrieval service, direct model completion, and the
// shared request/result contract between them.
package backend

import (
	"context"

	"github.com/studybuddy-ai/study-buddy-go/internal/history"
)

// Status classifies a tier outcome.
type Status int

// Tier outcome statuses.
const (
	// StatusSuccess carries a usable answer.
	StatusSuccess Status = iota
	// StatusEmpty means the tier answered but produced no usable text.
	StatusEmpty
	// StatusUnavailable means the tier could not answer at all.
	StatusUnavailable
)

// String implements fmt.Stringer for metric labels.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusEmpty:
		return "empty"
	case StatusUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Source attributes part of an answer to a catalog location.
type Source struct {
	Subject string `json:"subject"`
	Unit    string `json:"unit"`
}

// Request is the tier-independent input: the user's query, the recent
// conversation window, and optional pre-built catalog context for
// tiers that take the catalog inline.
type Request struct {
	Query   string
	History []history.Turn
	Context string
}

// Result is a tier outcome. Text and Sources are only meaningful when
// Status is StatusSuccess; Err is only set when Status is
// StatusUnavailable.
type Result struct {
	Status  Status
	Text    string
	Sources []Source
	Err     error
}

// Tier is one rung of the fallback ladder.
type Tier interface {
	// Name identifies the tier in logs and metrics.
	Name() string
	// Configured reports whether the tier has the credentials and
	// endpoints it needs. Unconfigured tiers are skipped without
	// counting as failures.
	Configured() bool
	// Invoke answers the request. A Result with StatusUnavailable
	// tells the orchestrator to fall through to the next tier.
	Invoke(ctx context.Context, req Request) Result
}

// Unavailable builds the fall-through result for err.
func Unavailable(err error) Result {
	return Result{Status: StatusUnavailable, Err: err}
}

// Success builds a usable-answer result.
func Success(text string, sources []Source) Result {
	return Result{Status: StatusSuccess, Text: text, Sources: sources}
}
