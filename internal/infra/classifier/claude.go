// Package classifier provides LLM-backed sentiment classifiers. They are
// meant to sit in front of the lexicon classifier via
// analysis.FallbackClassifier.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"

	"marketpulse/internal/resilience/circuitbreaker"
	"marketpulse/internal/resilience/retry"
	"marketpulse/internal/usecase/analysis"
	"marketpulse/internal/utils/text"
)

// maxTitleRunes bounds a single classification input.
const maxTitleRunes = 500

// ErrUnavailable is returned while the circuit breaker is open.
var ErrUnavailable = errors.New("sentiment classifier unavailable: circuit breaker open")

// Config holds the Claude classifier settings.
type Config struct {
	Model   string
	Timeout time.Duration
	// BaseURL overrides the API endpoint. Empty uses the SDK default.
	BaseURL string
}

// DefaultConfig returns the production settings.
func DefaultConfig() Config {
	return Config{
		Model:   string(anthropic.ModelClaudeSonnet4_5_20250929),
		Timeout: 10 * time.Second,
	}
}

// Claude labels headline sentiment with a one-word Claude answer.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	config         Config
}

var _ analysis.Classifier = (*Claude)(nil)

// NewClaude creates a Claude sentiment classifier.
func NewClaude(apiKey string, cfg Config) *Claude {
	if cfg.Model == "" {
		cfg.Model = DefaultConfig().Model
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	breakerCfg := circuitbreaker.ProviderConfig("claude")
	breakerCfg.Name = "claude-sentiment"

	return &Claude{
		client:         anthropic.NewClient(opts...),
		circuitBreaker: circuitbreaker.New(breakerCfg),
		retryConfig:    retry.AIAPIConfig(),
		config:         cfg,
	}
}

// Classify implements analysis.Classifier.
func (c *Claude) Classify(ctx context.Context, title string) (analysis.Label, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var label analysis.Label
	err := retry.WithBackoff(ctx, c.retryConfig, func() error {
		l, err := circuitbreaker.Run(c.circuitBreaker, func() (analysis.Label, error) {
			return c.doClassify(ctx, title)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				return ErrUnavailable
			}
			return err
		}
		label = l
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("claude classify: %w", err)
	}
	return label, nil
}

func (c *Claude) doClassify(ctx context.Context, title string) (analysis.Label, error) {
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.config.Model),
		MaxTokens: 5,
		System: []anthropic.TextBlockParam{{
			Text: "You classify the sentiment of financial news headlines. " +
				"Answer with exactly one word: positive, neutral or negative.",
		}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(text.Truncate(title, maxTitleRunes))),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &retry.HTTPError{StatusCode: apiErr.StatusCode, Message: apiErr.Error()}
		}
		return "", err
	}

	for _, block := range message.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			label, err := analysis.ParseLabel(tb.Text)
			if err != nil {
				slog.DebugContext(ctx, "unexpected sentiment answer", slog.String("answer", tb.Text))
				return "", fmt.Errorf("%w: %q", err, tb.Text)
			}
			return label, nil
		}
	}
	return "", analysis.ErrUnknownLabel
}
