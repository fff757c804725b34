package classifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketpulse/internal/resilience/retry"
	"marketpulse/internal/usecase/analysis"
)

func answer(text string) []byte {
	b, _ := json.Marshal(map[string]any{
		"id":          "msg_01",
		"type":        "message",
		"role":        "assistant",
		"model":       "test-model",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"stop_reason": "end_turn",
		"usage":       map[string]any{"input_tokens": 3, "output_tokens": 1},
	})
	return b
}

func newTestClaude(t *testing.T, h http.HandlerFunc) *Claude {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c := NewClaude("test-key", Config{Model: "test-model", Timeout: 5 * time.Second, BaseURL: srv.URL})
	c.retryConfig = retry.Config{Name: "test", MaxAttempts: 2, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Multiplier: 1}
	return c
}

func TestClaude_Classify(t *testing.T) {
	tests := []struct {
		answer string
		want   analysis.Label
	}{
		{answer: "positive", want: analysis.LabelPositive},
		{answer: "Negative.", want: analysis.LabelNegative},
		{answer: " NEUTRAL ", want: analysis.LabelNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			var req map[string]any
			c := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewDecoder(r.Body).Decode(&req)
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write(answer(tt.answer))
			})

			got, err := c.Classify(context.Background(), "Chipmakers surge on AI demand")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "test-model", req["model"])
			assert.NotEmpty(t, req["system"])
		})
	}
}

func TestClaude_UnknownAnswer(t *testing.T) {
	c := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(answer("mixed"))
	})

	_, err := c.Classify(context.Background(), "Stocks flat")
	assert.ErrorIs(t, err, analysis.ErrUnknownLabel)
}

func TestClaude_FallsBackToLexicon(t *testing.T) {
	var calls atomic.Int32
	c := newTestClaude(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"overloaded_error","message":"overloaded"}}`))
	})

	fc := &analysis.FallbackClassifier{Primary: c, Fallback: analysis.NewLexiconClassifier()}
	got, err := fc.Classify(context.Background(), "Shares plunge after profit warning")
	require.NoError(t, err)
	assert.Equal(t, analysis.LabelNegative, got)
	assert.Equal(t, int32(2), calls.Load(), "503 is retried once")
}
