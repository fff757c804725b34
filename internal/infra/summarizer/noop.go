// Package summarizer provides LLM-backed implementations of the headline
// digest summarizer, plus a NoOp summarizer for development.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"marketpulse/internal/observability/logging"
	"marketpulse/internal/resilience/circuitbreaker"
	"marketpulse/internal/resilience/retry"
	"marketpulse/internal/utils/text"
)

var (
	// ErrEmptyResponse is returned when a provider answers without any text.
	ErrEmptyResponse = errors.New("summarizer returned empty response")

	// ErrUnavailable is returned while a provider's circuit breaker is open.
	ErrUnavailable = errors.New("summarizer unavailable: circuit breaker open")
)

// NoOp returns the leading sentences of the input, bounded by a character
// limit. It stands in for an LLM when no API key is configured.
type NoOp struct {
	limit int
}

// NewNoOp creates a NoOp summarizer that keeps at most limit characters.
// A limit outside the valid range falls back to DefaultCharLimit.
func NewNoOp(limit int) *NoOp {
	if ValidateCharacterLimit(limit) != nil {
		limit = DefaultCharLimit
	}
	return &NoOp{limit: limit}
}

// Summarize returns whole leading sentences that fit within the limit, or a
// hard truncation when the first sentence alone is too long.
func (n *NoOp) Summarize(_ context.Context, input string) (string, error) {
	input = strings.TrimSpace(input)
	if text.CountRunes(input) <= n.limit {
		return input, nil
	}

	var sb strings.Builder
	for _, sentence := range strings.SplitAfter(input, ". ") {
		if text.CountRunes(sb.String())+text.CountRunes(sentence) > n.limit {
			break
		}
		sb.WriteString(sentence)
	}
	if sb.Len() == 0 {
		return text.Truncate(input, n.limit-3) + "...", nil
	}
	return strings.TrimSpace(sb.String()), nil
}

// buildPrompt asks for an English digest of market headlines.
func buildPrompt(limit int, input string) string {
	return fmt.Sprintf("Summarize the following news headlines in English in no more than %d characters. "+
		"Describe the main market themes in plain prose without bullet points.\n\n%s", limit, input)
}

// prepareInput caps the provider input at maxInputRunes.
func prepareInput(ctx context.Context, provider, input string) string {
	if text.CountRunes(input) <= maxInputRunes {
		return input
	}
	truncated := text.Truncate(input, maxInputRunes) + "..."
	logging.FromContext(ctx).Warn("summarizer input truncated",
		slog.String("provider", provider),
		slog.Int("original_length", text.CountRunes(input)),
		slog.Int("truncated_length", maxInputRunes))
	return truncated
}

// call runs fn under the breaker with retries, bounded by timeout.
func call(ctx context.Context, provider string, cb *circuitbreaker.CircuitBreaker, rc retry.Config,
	timeout time.Duration, fn func(ctx context.Context) (string, error)) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var result string
	err := retry.WithBackoff(ctx, rc, func() error {
		out, err := circuitbreaker.Run(cb, func() (string, error) {
			return fn(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
				logging.FromContext(ctx).Warn("summarizer circuit breaker open, request rejected",
					slog.String("provider", provider),
					slog.String("state", cb.State().String()))
				return ErrUnavailable
			}
			return err
		}
		result = out
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%s summarize failed: %w", provider, err)
	}
	return result, nil
}

// observe logs and records metrics for one completed provider call.
func observe(ctx context.Context, rec SummaryMetricsRecorder, provider string, limit int,
	summary string, duration time.Duration) {
	length := text.CountRunes(summary)
	withinLimit := length <= limit

	logging.FromContext(ctx).Info("summarization completed",
		slog.String("provider", provider),
		slog.String("request_id", uuid.NewString()),
		slog.Int("summary_length", length),
		slog.Int("character_limit", limit),
		slog.Bool("within_limit", withinLimit),
		slog.Duration("duration", duration))

	rec.RecordLength(provider, length)
	rec.RecordDuration(provider, duration)
	if !withinLimit {
		// Soft limit: the summary is still returned.
		rec.RecordLimitExceeded(provider)
	}
}
