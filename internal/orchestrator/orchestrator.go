// Package orchestrator walks the answer tiers for each user query:
// the remote retrieval service first, direct model completion next,
// and the deterministic local responder last. The local tier always
// answers, so a query never fails outright.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studybuddy-ai/study-buddy-go/internal/backend"
	sberrors "github.com/studybuddy-ai/study-buddy-go/internal/errors"
	"github.com/studybuddy-ai/study-buddy-go/internal/history"
	"github.com/studybuddy-ai/study-buddy-go/internal/intent"
	"github.com/studybuddy-ai/study-buddy-go/internal/logger"
	"github.com/studybuddy-ai/study-buddy-go/internal/metrics"
	"github.com/studybuddy-ai/study-buddy-go/internal/render"
)

// LocalTierName labels answers produced by the deterministic responder.
const LocalTierName = "local"

// DefaultContextWindow is how many recent turns accompany remote calls.
const DefaultContextWindow = 5

// Answer is one resolved query.
type Answer struct {
	// Tier names the tier that produced the text.
	Tier string
	// Intent is the classified intent kind of the query.
	Intent intent.Kind
	// Text is the plain markup answer.
	Text string
	// HTML is the rendered answer.
	HTML string
	// Sources attribute the answer to catalog locations, when known.
	Sources []backend.Source
	// Notice carries a user-facing degradation message, e.g. an
	// upstream throttling detail, alongside a still-usable answer.
	Notice string
}

// Options tune orchestration behavior.
type Options struct {
	// TierTimeout bounds each remote tier invocation. Zero applies
	// DefaultTierTimeout.
	TierTimeout time.Duration

	// ContextWindow is how many recent turns are sent to remote
	// tiers. Zero applies DefaultContextWindow.
	ContextWindow int

	// AppendLocalTurns also records exchanges answered by the local
	// responder into session history. Off by default: locally
	// answered turns carry no model context worth spending the
	// history window on.
	AppendLocalTurns bool
}

// DefaultTierTimeout bounds a single remote tier invocation.
const DefaultTierTimeout = 10 * time.Second

// Orchestrator resolves queries through the tier ladder.
type Orchestrator struct {
	tiers     []backend.Tier
	responder *Responder
	context   *backend.ContextBuilder
	opts      Options
	log       *logger.Logger
	metrics   *metrics.Metrics
}

// New builds an orchestrator. tiers are tried in order before the
// local responder; nil entries are dropped. metrics may be nil.
func New(tiers []backend.Tier, responder *Responder, ctxBuilder *backend.ContextBuilder, opts Options, log *logger.Logger, m *metrics.Metrics) *Orchestrator {
	if opts.TierTimeout <= 0 {
		opts.TierTimeout = DefaultTierTimeout
	}
	if opts.ContextWindow <= 0 {
		opts.ContextWindow = DefaultContextWindow
	}
	kept := make([]backend.Tier, 0, len(tiers))
	for _, t := range tiers {
		if t != nil {
			kept = append(kept, t)
		}
	}
	return &Orchestrator{
		tiers:     kept,
		responder: responder,
		context:   ctxBuilder,
		opts:      opts,
		log:       log.WithModule("orchestrator"),
		metrics:   m,
	}
}

// Resolve answers one query for the session. It acquires the session's
// in-flight guard, walks the remote tiers, and falls back to the local
// responder when none of them produce a usable answer.
func (o *Orchestrator) Resolve(ctx context.Context, session *history.Session, query string) (*Answer, error) {
	query = strings.TrimSpace(query)
	if !session.Begin() {
		if o.metrics != nil {
			o.metrics.RecordSessionBusy()
		}
		return nil, sberrors.ErrSessionBusy
	}
	defer session.End()

	start := time.Now()
	resolved := o.responder.Classify(query)

	var answer *Answer
	if query == "" {
		// An empty query is an unresolved freeform; there is nothing
		// to send upstream, so the local responder answers directly.
		text, sources := o.responder.Respond(resolved, query)
		answer = &Answer{Tier: LocalTierName, Text: text, Sources: sources}
	} else {
		req := backend.Request{
			Query:   query,
			History: session.Ring.RecentWindow(o.opts.ContextWindow),
		}
		if o.context != nil {
			req.Context = o.context.Build()
		}
		answer = o.walkTiers(ctx, req, resolved, session, query)
	}
	answer.Intent = resolved.Kind
	answer.HTML = render.Render(answer.Text)

	if o.metrics != nil {
		o.metrics.RecordQuery(string(resolved.Kind), answer.Tier, "success", time.Since(start).Seconds())
	}
	return answer, nil
}

// walkTiers tries each remote tier in order and falls back to the
// local responder. Remote failures are logged and swallowed; only the
// last rate-limit detail survives as a user-facing notice.
func (o *Orchestrator) walkTiers(ctx context.Context, req backend.Request, resolved intent.Intent, session *history.Session, query string) *Answer {
	var notice string
	prev := ""

	for _, tier := range o.tiers {
		if !tier.Configured() {
			o.log.Debug("skipping unconfigured tier", "tier", tier.Name())
			if o.metrics != nil {
				o.metrics.RecordTierSkipped(tier.Name())
			}
			continue
		}
		if prev != "" && o.metrics != nil {
			o.metrics.RecordFallback(prev, tier.Name())
		}

		result, elapsed := o.invoke(ctx, tier, req)
		if o.metrics != nil {
			o.metrics.RecordTierAttempt(tier.Name(), result.Status.String(), elapsed.Seconds())
		}

		switch result.Status {
		case backend.StatusSuccess:
			session.Ring.Append(history.RoleUser, query)
			session.Ring.Append(history.RoleAssistant, result.Text)
			return &Answer{
				Tier:    tier.Name(),
				Text:    result.Text,
				Sources: result.Sources,
				Notice:  notice,
			}
		case backend.StatusEmpty:
			o.log.Warn("tier produced empty answer", "tier", tier.Name())
		case backend.StatusUnavailable:
			o.log.Warn("tier unavailable",
				"tier", tier.Name(),
				"duration_ms", elapsed.Milliseconds(),
				"error", errString(result.Err),
			)
			if backend.IsRateLimited(result.Err) {
				// Surface the upstream throttling message verbatim.
				notice = result.Err.Error()
			}
		}
		prev = tier.Name()
	}

	if prev != "" && o.metrics != nil {
		o.metrics.RecordFallback(prev, LocalTierName)
	}

	text, sources := o.responder.Respond(resolved, query)
	if o.opts.AppendLocalTurns {
		session.Ring.Append(history.RoleUser, query)
		session.Ring.Append(history.RoleAssistant, text)
	}
	return &Answer{
		Tier:    LocalTierName,
		Text:    text,
		Sources: sources,
		Notice:  notice,
	}
}

func (o *Orchestrator) invoke(ctx context.Context, tier backend.Tier, req backend.Request) (backend.Result, time.Duration) {
	tierCtx, cancel := context.WithTimeout(ctx, o.opts.TierTimeout)
	defer cancel()

	start := time.Now()
	result := tier.Invoke(tierCtx, req)
	return result, time.Since(start)
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("%v", err)
}
