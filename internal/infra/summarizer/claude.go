package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"marketpulse/internal/resilience/circuitbreaker"
	"marketpulse/internal/resilience/retry"
)

const providerClaude = "claude"

// DefaultClaudeModel is used when CLAUDE_MODEL is not set.
const DefaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// LoadClaudeConfig loads the Claude digest configuration from the environment.
func LoadClaudeConfig(model string) (Config, error) {
	if model == "" {
		model = DefaultClaudeModel
	}
	return LoadConfig(model, 1024)
}

// Claude summarizes headlines with Anthropic's Messages API.
type Claude struct {
	client          anthropic.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	metricsRecorder SummaryMetricsRecorder
}

// NewClaude creates a Claude summarizer. The SDK's own retries are disabled
// because calls already go through retry.WithBackoff.
func NewClaude(apiKey string, cfg Config) *Claude {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	slog.Info("initialized claude summarizer",
		slog.String("model", cfg.Model),
		slog.Int("character_limit", cfg.CharacterLimit))

	return &Claude{
		client:          anthropic.NewClient(opts...),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ProviderConfig("claude")),
		retryConfig:     retry.AIAPIConfig(),
		config:          cfg,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// Summarize returns an English digest of input.
func (c *Claude) Summarize(ctx context.Context, input string) (string, error) {
	return call(ctx, providerClaude, c.circuitBreaker, c.retryConfig, c.config.Timeout, func(ctx context.Context) (string, error) {
		return c.doSummarize(ctx, input)
	})
}

// doSummarize performs one API call without retry or circuit breaker.
func (c *Claude) doSummarize(ctx context.Context, input string) (string, error) {
	prompt := buildPrompt(c.config.CharacterLimit, prepareInput(ctx, providerClaude, input))

	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: int64(c.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	duration := time.Since(start)
	if err != nil {
		return "", fmt.Errorf("claude api error: %w", classifyClaudeError(err))
	}

	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok && tb.Text != "" {
			observe(ctx, c.metricsRecorder, providerClaude, c.config.CharacterLimit, tb.Text, duration)
			return tb.Text, nil
		}
	}
	return "", ErrEmptyResponse
}

// classifyClaudeError exposes the HTTP status so that retry.IsRetryable
// can decide on 429 and 5xx responses.
func classifyClaudeError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &retry.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
	}
	return err
}
