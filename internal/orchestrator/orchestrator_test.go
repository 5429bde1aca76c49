package orchestrator

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/studybuddy-ai/study-buddy-go/internal/backend"
	sberrors "github.com/studybuddy-ai/study-buddy-go/internal/errors"
	"github.com/studybuddy-ai/study-buddy-go/internal/history"
	"github.com/studybuddy-ai/study-buddy-go/internal/intent"
	"github.com/studybuddy-ai/study-buddy-go/internal/logger"
	"github.com/studybuddy-ai/study-buddy-go/internal/metrics"
)

// fakeTier is a scriptable tier for orchestration tests.
type fakeTier struct {
	name       string
	configured bool
	result     backend.Result
	calls      int
	lastReq    backend.Request
}

func (f *fakeTier) Name() string     { return f.name }
func (f *fakeTier) Configured() bool { return f.configured }
func (f *fakeTier) Invoke(_ context.Context, req backend.Request) backend.Result {
	f.calls++
	f.lastReq = req
	return f.result
}

func newOrchestrator(t *testing.T, opts Options, tiers ...backend.Tier) (*Orchestrator, *history.Store) {
	t.Helper()
	store, err := history.NewStore(8, 10)
	if err != nil {
		t.Fatal(err)
	}
	idx := testIndex()
	o := New(
		tiers,
		NewResponder(idx),
		backend.NewContextBuilder(idx, 0),
		opts,
		logger.NewWithWriter("error", io.Discard),
		nil,
	)
	return o, store
}

func TestResolveFirstTierWins(t *testing.T) {
	primary := &fakeTier{name: "rag_service", configured: true,
		result: backend.Success("grounded answer", []backend.Source{{Subject: "Deep Learning", Unit: "3"}})}
	secondary := &fakeTier{name: "gemini", configured: true,
		result: backend.Success("model answer", nil)}

	o, store := newOrchestrator(t, Options{}, primary, secondary)
	session := store.Get("")

	answer, err := o.Resolve(t.Context(), session, "what is backpropagation")
	if err != nil {
		t.Fatal(err)
	}
	if answer.Tier != "rag_service" || answer.Text != "grounded answer" {
		t.Errorf("answer = %+v, want primary tier result", answer)
	}
	if secondary.calls != 0 {
		t.Error("secondary tier should not run after primary success")
	}
	if len(answer.Sources) != 1 {
		t.Errorf("sources = %v", answer.Sources)
	}
}

func TestResolveFallsThroughToSecondTier(t *testing.T) {
	primary := &fakeTier{name: "rag_service", configured: true,
		result: backend.Unavailable(errors.New("connection refused"))}
	secondary := &fakeTier{name: "gemini", configured: true,
		result: backend.Success("model answer", nil)}

	o, store := newOrchestrator(t, Options{}, primary, secondary)

	answer, err := o.Resolve(t.Context(), store.Get(""), "explain CNNs")
	if err != nil {
		t.Fatal(err)
	}
	if answer.Tier != "gemini" || answer.Text != "model answer" {
		t.Errorf("answer = %+v, want secondary tier result", answer)
	}
	if primary.calls != 1 {
		t.Errorf("primary calls = %d, want 1", primary.calls)
	}
}

func TestResolveAllTiersFailUsesLocal(t *testing.T) {
	primary := &fakeTier{name: "rag_service", configured: true,
		result: backend.Unavailable(errors.New("503 service unavailable"))}
	secondary := &fakeTier{name: "gemini", configured: true,
		result: backend.Unavailable(errors.New("quota exceeded"))}

	o, store := newOrchestrator(t, Options{}, primary, secondary)

	answer, err := o.Resolve(t.Context(), store.Get(""), "show me unit 3 of deep learning")
	if err != nil {
		t.Fatal(err)
	}
	if answer.Tier != LocalTierName {
		t.Fatalf("Tier = %q, want local", answer.Tier)
	}
	if !strings.Contains(answer.Text, "Unit 3: Training") {
		t.Errorf("local answer missing unit content:\n%s", answer.Text)
	}
	if answer.HTML == "" || !strings.Contains(answer.HTML, "<h2>") {
		t.Errorf("HTML = %q, want rendered heading", answer.HTML)
	}
}

func TestResolveSkipsUnconfiguredTiers(t *testing.T) {
	unconfigured := &fakeTier{name: "rag_service", configured: false}
	secondary := &fakeTier{name: "gemini", configured: true,
		result: backend.Success("model answer", nil)}

	o, store := newOrchestrator(t, Options{}, unconfigured, secondary)

	answer, err := o.Resolve(t.Context(), store.Get(""), "anything at all")
	if err != nil {
		t.Fatal(err)
	}
	if unconfigured.calls != 0 {
		t.Error("unconfigured tier must not be invoked")
	}
	if answer.Tier != "gemini" {
		t.Errorf("Tier = %q, want gemini", answer.Tier)
	}
}

func TestResolveRateLimitNoticeVerbatim(t *testing.T) {
	detail := "Rate limit exceeded. Try again in 42 seconds."
	primary := &fakeTier{name: "rag_service", configured: true,
		result: backend.Unavailable(&backend.RateLimitError{Detail: detail, Tier: "rag_service"})}

	o, store := newOrchestrator(t, Options{}, primary)

	answer, err := o.Resolve(t.Context(), store.Get(""), "list all subjects")
	if err != nil {
		t.Fatal(err)
	}
	if answer.Tier != LocalTierName {
		t.Fatalf("Tier = %q, want local fallback", answer.Tier)
	}
	if answer.Notice != detail {
		t.Errorf("Notice = %q, want upstream detail verbatim", answer.Notice)
	}
}

func TestResolveAppendsHistoryOnRemoteSuccess(t *testing.T) {
	primary := &fakeTier{name: "rag_service", configured: true,
		result: backend.Success("an answer", nil)}

	o, store := newOrchestrator(t, Options{}, primary)
	session := store.Get("s")

	if _, err := o.Resolve(t.Context(), session, "first question"); err != nil {
		t.Fatal(err)
	}

	turns := session.Ring.RecentWindow(10)
	if len(turns) != 2 {
		t.Fatalf("history has %d turns, want 2", len(turns))
	}
	if turns[0].Role != history.RoleUser || turns[0].Content != "first question" {
		t.Errorf("turns[0] = %+v", turns[0])
	}
	if turns[1].Role != history.RoleAssistant || turns[1].Content != "an answer" {
		t.Errorf("turns[1] = %+v", turns[1])
	}
}

func TestResolveLocalAnswerSkipsHistoryByDefault(t *testing.T) {
	o, store := newOrchestrator(t, Options{})
	session := store.Get("s")

	if _, err := o.Resolve(t.Context(), session, "list all subjects"); err != nil {
		t.Fatal(err)
	}
	if session.Ring.Len() != 0 {
		t.Errorf("local answers should not consume history, got %d turns", session.Ring.Len())
	}
}

func TestResolveLocalAnswerAppendsWhenEnabled(t *testing.T) {
	o, store := newOrchestrator(t, Options{AppendLocalTurns: true})
	session := store.Get("s")

	if _, err := o.Resolve(t.Context(), session, "list all subjects"); err != nil {
		t.Fatal(err)
	}
	if session.Ring.Len() != 2 {
		t.Errorf("history has %d turns, want 2", session.Ring.Len())
	}
}

func TestResolveHistoryWindowSentToTier(t *testing.T) {
	primary := &fakeTier{name: "rag_service", configured: true,
		result: backend.Success("ok", nil)}

	o, store := newOrchestrator(t, Options{ContextWindow: 5}, primary)
	session := store.Get("s")
	for i := 0; i < 4; i++ {
		session.Ring.Append(history.RoleUser, "q")
		session.Ring.Append(history.RoleAssistant, "a")
	}

	if _, err := o.Resolve(t.Context(), session, "another question"); err != nil {
		t.Fatal(err)
	}
	if len(primary.lastReq.History) != 5 {
		t.Errorf("tier saw %d history turns, want 5", len(primary.lastReq.History))
	}
	if primary.lastReq.Context == "" {
		t.Error("tier request should carry catalog context")
	}
}

func TestResolveRejectsBusySession(t *testing.T) {
	o, store := newOrchestrator(t, Options{})
	session := store.Get("busy")
	session.Begin()

	_, err := o.Resolve(t.Context(), session, "hello")
	if !errors.Is(err, sberrors.ErrSessionBusy) {
		t.Errorf("err = %v, want ErrSessionBusy", err)
	}
	session.End()

	if _, err := o.Resolve(t.Context(), session, "hello"); err != nil {
		t.Errorf("session should accept queries after End: %v", err)
	}
}

func TestResolveEmptyQueryAnswersLocally(t *testing.T) {
	primary := &fakeTier{name: "rag_service", configured: true,
		result: backend.Success("remote answer", nil)}
	o, store := newOrchestrator(t, Options{}, primary)

	for _, query := range []string{"", "   ", "\n\t"} {
		answer, err := o.Resolve(t.Context(), store.Get(""), query)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", query, err)
		}
		if answer.Tier != LocalTierName {
			t.Errorf("Resolve(%q) Tier = %q, want %q", query, answer.Tier, LocalTierName)
		}
		if answer.Intent != intent.KindFreeform {
			t.Errorf("Resolve(%q) Intent = %v, want freeform", query, answer.Intent)
		}
		if strings.TrimSpace(answer.Text) == "" || strings.TrimSpace(answer.HTML) == "" {
			t.Errorf("Resolve(%q) must produce a renderable answer, got text %q", query, answer.Text)
		}
	}
	if primary.calls != 0 {
		t.Errorf("remote tier invoked %d times for empty queries, want 0", primary.calls)
	}
}

func TestResolveIntentReported(t *testing.T) {
	o, store := newOrchestrator(t, Options{})
	answer, err := o.Resolve(t.Context(), store.Get(""), "list all subjects")
	if err != nil {
		t.Fatal(err)
	}
	if answer.Intent != intent.KindListSubjects {
		t.Errorf("Intent = %v, want list_subjects", answer.Intent)
	}
}

func TestResolveRecordsMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	primary := &fakeTier{name: "rag_service", configured: true,
		result: backend.Unavailable(errors.New("timeout"))}
	store, err := history.NewStore(8, 10)
	if err != nil {
		t.Fatal(err)
	}
	idx := testIndex()
	o := New([]backend.Tier{primary}, NewResponder(idx), backend.NewContextBuilder(idx, 0),
		Options{TierTimeout: time.Second}, logger.NewWithWriter("error", io.Discard), m)

	if _, err := o.Resolve(t.Context(), store.Get(""), "list all subjects"); err != nil {
		t.Fatal(err)
	}

	if got := promtest.ToFloat64(m.TierAttemptsTotal.WithLabelValues("rag_service", "unavailable")); got != 1 {
		t.Errorf("tier attempts = %v, want 1", got)
	}
	if got := promtest.ToFloat64(m.FallbacksTotal.WithLabelValues("rag_service", LocalTierName)); got != 1 {
		t.Errorf("fallbacks = %v, want 1", got)
	}
}
