package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"marketpulse/internal/resilience/circuitbreaker"
	"marketpulse/internal/resilience/retry"
)

const providerOpenAI = "openai"

// DefaultOpenAIModel is used when OPENAI_MODEL is not set.
const DefaultOpenAIModel = openai.GPT4oMini

// LoadOpenAIConfig loads the OpenAI digest configuration from the environment.
func LoadOpenAIConfig(model string) (Config, error) {
	if model == "" {
		model = DefaultOpenAIModel
	}
	return LoadConfig(model, 1024)
}

// OpenAI summarizes headlines with the chat completions API.
type OpenAI struct {
	client          *openai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	metricsRecorder SummaryMetricsRecorder
}

// NewOpenAI creates an OpenAI summarizer.
func NewOpenAI(apiKey string, cfg Config) *OpenAI {
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	slog.Info("initialized openai summarizer",
		slog.String("model", cfg.Model),
		slog.Int("character_limit", cfg.CharacterLimit))

	return &OpenAI{
		client:          openai.NewClientWithConfig(clientCfg),
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ProviderConfig("openai")),
		retryConfig:     retry.AIAPIConfig(),
		config:          cfg,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}
}

// Summarize returns an English digest of input.
func (o *OpenAI) Summarize(ctx context.Context, input string) (string, error) {
	return call(ctx, providerOpenAI, o.circuitBreaker, o.retryConfig, o.config.Timeout, func(ctx context.Context) (string, error) {
		return o.doSummarize(ctx, input)
	})
}

func (o *OpenAI) doSummarize(ctx context.Context, input string) (string, error) {
	prompt := buildPrompt(o.config.CharacterLimit, prepareInput(ctx, providerOpenAI, input))

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.config.Model,
		MaxTokens: o.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	duration := time.Since(start)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", classifyOpenAIError(err))
	}

	// Guard the index; some proxies answer 200 with no choices.
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}

	summary := resp.Choices[0].Message.Content
	observe(ctx, o.metricsRecorder, providerOpenAI, o.config.CharacterLimit, summary, duration)
	return summary, nil
}

func classifyOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &retry.HTTPError{StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &retry.HTTPError{StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error()}
	}
	return err
}
