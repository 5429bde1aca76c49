package backend

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	sberrors "github.com/studybuddy-ai/study-buddy-go/internal/errors"
	"github.com/studybuddy-ai/study-buddy-go/internal/logger"
)

// OpenAICompleter is a secondary tier: direct model completion through
// any OpenAI-compatible chat endpoint (Groq, OpenAI, local gateways).
type OpenAICompleter struct {
	client     openai.Client
	model      string
	retries    int
	configured bool
	log        *logger.Logger
}

// NewOpenAICompleter builds the OpenAI-compatible tier. An empty
// apiKey leaves the tier unconfigured.
func NewOpenAICompleter(apiKey, baseURL, model string, retries int, log *logger.Logger) *OpenAICompleter {
	c := &OpenAICompleter{
		model:   model,
		retries: retries,
		log:     log.WithModule("openai"),
	}
	if apiKey == "" {
		return c
	}
	c.client = openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)
	c.configured = true
	return c
}

// Name implements Tier.
func (o *OpenAICompleter) Name() string {
	return "openai_compat"
}

// Configured implements Tier.
func (o *OpenAICompleter) Configured() bool {
	return o != nil && o.configured
}

// Invoke implements Tier.
func (o *OpenAICompleter) Invoke(ctx context.Context, req Request) Result {
	if !o.Configured() {
		return Unavailable(sberrors.ErrUnconfigured)
	}

	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt()),
			openai.UserMessage(UserPrompt(req)),
		},
		Temperature: openai.Float(completionTemperature),
		MaxTokens:   openai.Int(completionMaxOutputTokens),
	}

	var text string
	err := WithRetry(ctx, o.retries, defaultRetryInitial, defaultRetryMax, func() error {
		start := time.Now()
		resp, err := o.client.Chat.Completions.New(ctx, params)
		if err != nil {
			o.log.Warn("completion failed",
				"model", o.model,
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err.Error(),
			)
			return err
		}
		if len(resp.Choices) == 0 {
			return sberrors.ErrEmptyResponse
		}
		text = resp.Choices[0].Message.Content
		return nil
	})
	if err != nil {
		return Unavailable(err)
	}

	if strings.TrimSpace(text) == "" {
		return Result{Status: StatusEmpty}
	}
	return Success(text, nil)
}
