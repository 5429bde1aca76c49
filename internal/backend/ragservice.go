package backend

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	sberrors "github.com/studybuddy-ai/study-buddy-go/internal/errors"
	"github.com/studybuddy-ai/study-buddy-go/internal/history"
	"github.com/studybuddy-ai/study-buddy-go/internal/logger"
)

// RAGService is the primary tier: a remote retrieval-augmented service
// that owns its own syllabus store. It receives the query and the
// recent history and returns grounded text with source attributions.
type RAGService struct {
	baseURL string
	client  *http.Client
	log     *logger.Logger

	// Identical concurrent requests collapse into one upstream call.
	group singleflight.Group
}

// ragRequest is the upstream query payload.
type ragRequest struct {
	Query   string         `json:"query"`
	History []history.Turn `json:"history"`
}

// ragResponse is the upstream answer payload.
type ragResponse struct {
	Response string      `json:"response"`
	Sources  []ragSource `json:"sources"`
}

type ragSource struct {
	Subject string `json:"subject"`
	Unit    string `json:"unit"`
}

// ragError is the upstream failure payload.
type ragError struct {
	Detail string `json:"detail"`
}

// maxErrorBodySize bounds how much of an upstream error body is read.
const maxErrorBodySize = 4 << 10

// NewRAGService builds the primary tier client. An empty baseURL
// leaves the tier unconfigured; timeout bounds each upstream call.
func NewRAGService(baseURL string, timeout time.Duration, log *logger.Logger) *RAGService {
	return &RAGService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		log:     log.WithModule("ragservice"),
	}
}

// Name implements Tier.
func (s *RAGService) Name() string {
	return "rag_service"
}

// Configured implements Tier. It checks endpoint presence only; the
// service's actual health surfaces as an Unavailable result at call
// time.
func (s *RAGService) Configured() bool {
	return s.baseURL != ""
}

// Invoke implements Tier. Identical queries with identical history
// share one upstream round trip.
func (s *RAGService) Invoke(ctx context.Context, req Request) Result {
	if !s.Configured() {
		return Unavailable(sberrors.ErrUnconfigured)
	}

	v, err, shared := s.group.Do(requestKey(req), func() (any, error) {
		return s.query(ctx, req)
	})
	if shared {
		s.log.Debug("collapsed duplicate upstream query")
	}
	if err != nil {
		return Unavailable(err)
	}

	resp := v.(*ragResponse)
	if strings.TrimSpace(resp.Response) == "" {
		return Result{Status: StatusEmpty}
	}
	return Success(resp.Response, filterSources(resp.Sources))
}

func (s *RAGService) query(ctx context.Context, req Request) (*ragResponse, error) {
	payload := ragRequest{Query: req.Query, History: req.History}
	if payload.History == nil {
		payload.History = []history.Turn{}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, sberrors.Wrap("ragservice", "marshal request", err, "")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/query", bytes.NewReader(body))
	if err != nil {
		return nil, sberrors.Wrap("ragservice", "build request", err, "")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("query upstream: %w: %w", sberrors.ErrNetworkFailure, err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{Detail: readDetail(httpResp.Body), Tier: s.Name()}
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		detail := readDetail(httpResp.Body)
		if detail == "" {
			detail = http.StatusText(httpResp.StatusCode)
		}
		return nil, &TierError{
			Err:        fmt.Errorf("upstream error: %s", detail),
			StatusCode: httpResp.StatusCode,
			Tier:       s.Name(),
		}
	}

	var resp ragResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("decode upstream response: %w", sberrors.ErrMalformedResponse)
	}
	return &resp, nil
}

// readDetail extracts the upstream error detail field, falling back to
// the raw body when the payload is not the expected JSON shape.
func readDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return ""
	}
	var e ragError
	if json.Unmarshal(raw, &e) == nil && e.Detail != "" {
		return e.Detail
	}
	return strings.TrimSpace(string(raw))
}

// filterSources drops attributions the upstream could not ground.
func filterSources(in []ragSource) []Source {
	var out []Source
	for _, s := range in {
		if s.Subject == "" || s.Subject == "Unknown" {
			continue
		}
		out = append(out, Source{Subject: s.Subject, Unit: s.Unit})
	}
	return out
}

// requestKey derives the deduplication key for a request.
func requestKey(req Request) string {
	h := sha256.New()
	io.WriteString(h, req.Query)
	for _, turn := range req.History {
		io.WriteString(h, "\x00")
		io.WriteString(h, string(turn.Role))
		io.WriteString(h, "\x01")
		io.WriteString(h, turn.Content)
	}
	return hex.EncodeToString(h.Sum(nil))
}
