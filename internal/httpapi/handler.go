// Package httpapi implements the HTTP surface: the chat endpoint that
// drives the tier orchestrator, plus catalog listing and topic search.
package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studybuddy-ai/study-buddy-go/internal/backend"
	"github.com/studybuddy-ai/study-buddy-go/internal/catalog"
	sberrors "github.com/studybuddy-ai/study-buddy-go/internal/errors"
	"github.com/studybuddy-ai/study-buddy-go/internal/history"
	"github.com/studybuddy-ai/study-buddy-go/internal/logger"
	"github.com/studybuddy-ai/study-buddy-go/internal/metrics"
	"github.com/studybuddy-ai/study-buddy-go/internal/orchestrator"
	"github.com/studybuddy-ai/study-buddy-go/internal/ratelimit"
	"github.com/studybuddy-ai/study-buddy-go/internal/sentry"
)

// Handler owns the API endpoints and their dependencies.
type Handler struct {
	orch     *orchestrator.Orchestrator
	sessions *history.Store
	idx      *catalog.Index
	limiter  *ratelimit.PerKeyLimiter
	log      *logger.Logger
	metrics  *metrics.Metrics
}

// New creates the API handler. limiter and m may be nil.
func New(orch *orchestrator.Orchestrator, sessions *history.Store, idx *catalog.Index, limiter *ratelimit.PerKeyLimiter, log *logger.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		orch:     orch,
		sessions: sessions,
		idx:      idx,
		limiter:  limiter,
		log:      log.WithModule("httpapi"),
		metrics:  m,
	}
}

// ChatRequest is the POST /api/chat payload.
type ChatRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the POST /api/chat reply.
type ChatResponse struct {
	SessionID string           `json:"session_id"`
	Tier      string           `json:"tier"`
	Intent    string           `json:"intent"`
	Text      string           `json:"text"`
	HTML      string           `json:"html"`
	Sources   []backend.Source `json:"sources"`
	Notice    string           `json:"notice,omitempty"`
}

// Chat answers one user query.
func (h *Handler) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpError(c, "bad_request", "/api/chat")
		c.JSON(http.StatusBadRequest, gin.H{"detail": "message is required"})
		return
	}

	key := req.SessionID
	if key == "" {
		key = c.ClientIP()
	}
	if h.limiter != nil && !h.limiter.Allow(key) {
		h.httpError(c, "rate_limit", "/api/chat")
		c.JSON(http.StatusTooManyRequests, gin.H{"detail": "too many requests, slow down"})
		return
	}

	session := h.sessions.Get(req.SessionID)
	start := time.Now()
	answer, err := h.orch.Resolve(c.Request.Context(), session, req.Message)
	if err != nil {
		switch {
		case errors.Is(err, sberrors.ErrSessionBusy):
			h.httpError(c, "session_busy", "/api/chat")
			c.JSON(http.StatusConflict, gin.H{"detail": "a query for this session is already being answered"})
		default:
			h.log.WithRequestID(requestID(c)).WithError(err).Error("chat resolution failed")
			sentry.CaptureExceptionWithContext(c.Request.Context(), err)
			h.httpError(c, "internal", "/api/chat")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
		}
		return
	}

	h.log.WithRequestID(requestID(c)).Info("query answered",
		"session_id", session.ID,
		"intent", string(answer.Intent),
		"tier", answer.Tier,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	if h.metrics != nil {
		h.metrics.SetActiveSessions(h.sessions.Len())
	}

	sources := answer.Sources
	if sources == nil {
		sources = []backend.Source{}
	}
	c.JSON(http.StatusOK, ChatResponse{
		SessionID: session.ID,
		Tier:      answer.Tier,
		Intent:    string(answer.Intent),
		Text:      answer.Text,
		HTML:      answer.HTML,
		Sources:   sources,
		Notice:    answer.Notice,
	})
}

// SubjectSummary is one entry of the GET /api/subjects reply.
type SubjectSummary struct {
	Code     string `json:"code"`
	Name     string `json:"name"`
	FullName string `json:"fullName"`
	Credits  int    `json:"credits"`
	Type     string `json:"type"`
	Units    int    `json:"units"`
}

// Subjects lists the loaded catalog.
func (h *Handler) Subjects(c *gin.Context) {
	subjects := h.idx.Subjects()
	out := make([]SubjectSummary, 0, len(subjects))
	for _, s := range subjects {
		out = append(out, SubjectSummary{
			Code:     s.Code,
			Name:     s.Name,
			FullName: s.FullName,
			Credits:  s.Credits,
			Type:     string(s.Type),
			Units:    len(s.Units),
		})
	}
	c.JSON(http.StatusOK, gin.H{"subjects": out, "count": len(out)})
}

// SearchRequest is the POST /api/search payload.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// SearchResult is one topic hit.
type SearchResult struct {
	Subject string `json:"subject"`
	Unit    int    `json:"unit"`
	Title   string `json:"title"`
	Topic   string `json:"topic"`
}

// Search runs a topic substring search over the catalog.
func (h *Handler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.httpError(c, "bad_request", "/api/search")
		c.JSON(http.StatusBadRequest, gin.H{"detail": "query is required"})
		return
	}

	matches := h.idx.SearchTopics(req.Query)
	out := make([]SearchResult, 0, len(matches))
	for _, m := range matches {
		out = append(out, SearchResult{
			Subject: m.SubjectName,
			Unit:    m.UnitNumber,
			Title:   m.UnitTitle,
			Topic:   m.Topic,
		})
	}
	c.JSON(http.StatusOK, gin.H{"results": out, "count": len(out)})
}

// Reset drops the conversation history for a session.
func (h *Handler) Reset(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "session id is required"})
		return
	}
	h.sessions.Reset(id)
	c.JSON(http.StatusOK, gin.H{"status": "reset"})
}

func (h *Handler) httpError(c *gin.Context, errorType, route string) {
	if h.metrics != nil {
		h.metrics.RecordHTTPError(errorType, route)
	}
}

func requestID(c *gin.Context) string {
	return c.GetString("request_id")
}
