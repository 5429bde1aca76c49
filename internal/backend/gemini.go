package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	sberrors "github.com/studybuddy-ai/study-buddy-go/internal/errors"
	"github.com/studybuddy-ai/study-buddy-go/internal/logger"
)

// Completion generation parameters shared by the direct tiers. Low
// temperature keeps syllabus answers factual.
const (
	completionTemperature     = 0.3
	completionMaxOutputTokens = 1024
)

// GeminiCompleter is a secondary tier: direct model completion via the
// Gemini API with the syllabus context inlined into the prompt.
type GeminiCompleter struct {
	client  *genai.Client
	model   string
	retries int
	log     *logger.Logger
}

// NewGeminiCompleter builds the Gemini tier. Returns (nil, nil) when
// apiKey is empty so callers can skip the tier without special-casing.
func NewGeminiCompleter(ctx context.Context, apiKey, model string, retries int, log *logger.Logger) (*GeminiCompleter, error) {
	if apiKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiCompleter{
		client:  client,
		model:   model,
		retries: retries,
		log:     log.WithModule("gemini"),
	}, nil
}

// Name implements Tier.
func (g *GeminiCompleter) Name() string {
	return "gemini"
}

// Configured implements Tier.
func (g *GeminiCompleter) Configured() bool {
	return g != nil && g.client != nil
}

// Invoke implements Tier.
func (g *GeminiCompleter) Invoke(ctx context.Context, req Request) Result {
	if !g.Configured() {
		return Unavailable(sberrors.ErrUnconfigured)
	}

	prompt := BuildPrompt(req)

	var text string
	err := WithRetry(ctx, g.retries, defaultRetryInitial, defaultRetryMax, func() error {
		start := time.Now()
		resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature:     genai.Ptr[float32](completionTemperature),
			MaxOutputTokens: completionMaxOutputTokens,
		})
		if err != nil {
			g.log.Warn("generation failed",
				"model", g.model,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err.Error(),
			)
			return err
		}
		text = extractText(resp)
		return nil
	})
	if err != nil {
		return Unavailable(err)
	}

	if strings.TrimSpace(text) == "" {
		return Result{Status: StatusEmpty}
	}
	// Direct completions have no retrieval step, so no sources.
	return Success(text, nil)
}

// extractText concatenates the text parts of the first candidate.
func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}
