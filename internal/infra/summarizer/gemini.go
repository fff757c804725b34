package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"marketpulse/internal/resilience/circuitbreaker"
	"marketpulse/internal/resilience/retry"
)

const providerGemini = "gemini"

// DefaultGeminiModel is used when GEMINI_MODEL is not set.
const DefaultGeminiModel = "gemini-1.5-flash"

// LoadGeminiConfig loads the Gemini digest configuration from the environment.
func LoadGeminiConfig(model string) (Config, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	return LoadConfig(model, 1024)
}

// Gemini summarizes headlines with Google's Generative Language API.
type Gemini struct {
	client          *genai.Client
	circuitBreaker  *circuitbreaker.CircuitBreaker
	retryConfig     retry.Config
	config          Config
	metricsRecorder SummaryMetricsRecorder
}

// NewGemini dials the Gemini API. Close releases the underlying connection.
func NewGemini(ctx context.Context, apiKey string, cfg Config) (*Gemini, error) {
	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(cfg.BaseURL))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	slog.Info("initialized gemini summarizer",
		slog.String("model", cfg.Model),
		slog.Int("character_limit", cfg.CharacterLimit))

	return &Gemini{
		client:          client,
		circuitBreaker:  circuitbreaker.New(circuitbreaker.ProviderConfig("gemini")),
		retryConfig:     retry.AIAPIConfig(),
		config:          cfg,
		metricsRecorder: NewPrometheusSummaryMetrics(),
	}, nil
}

// Close closes the client connection.
func (g *Gemini) Close() error {
	return g.client.Close()
}

// Summarize returns an English digest of input.
func (g *Gemini) Summarize(ctx context.Context, input string) (string, error) {
	return call(ctx, providerGemini, g.circuitBreaker, g.retryConfig, g.config.Timeout, func(ctx context.Context) (string, error) {
		return g.doSummarize(ctx, input)
	})
}

func (g *Gemini) doSummarize(ctx context.Context, input string) (string, error) {
	model := g.client.GenerativeModel(g.config.Model)
	model.SetMaxOutputTokens(int32(g.config.MaxTokens))

	prompt := buildPrompt(g.config.CharacterLimit, prepareInput(ctx, providerGemini, input))

	start := time.Now()
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	duration := time.Since(start)
	if err != nil {
		return "", fmt.Errorf("gemini api error: %w", classifyGeminiError(err))
	}

	summary := geminiText(resp)
	if summary == "" {
		return "", ErrEmptyResponse
	}
	observe(ctx, g.metricsRecorder, providerGemini, g.config.CharacterLimit, summary, duration)
	return summary, nil
}

// geminiText concatenates the text parts of the first candidate.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	return strings.TrimSpace(sb.String())
}

// classifyGeminiError maps gRPC status codes onto retryable HTTP statuses.
func classifyGeminiError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.ResourceExhausted:
		return &retry.HTTPError{StatusCode: http.StatusTooManyRequests, Message: st.Message()}
	case codes.Unavailable, codes.Internal:
		return &retry.HTTPError{StatusCode: http.StatusServiceUnavailable, Message: st.Message()}
	case codes.InvalidArgument, codes.PermissionDenied, codes.Unauthenticated:
		return &retry.HTTPError{StatusCode: http.StatusBadRequest, Message: st.Message()}
	}
	return err
}
