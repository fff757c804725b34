package analysis

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"
	"unicode/utf8"

	"marketpulse/internal/observability/logging"
	"marketpulse/internal/observability/metrics"
)

// Digest text limits, in characters.
const (
	DigestInputLimit = 1000
	DigestMinInput   = 50
)

// Fixed digest messages shown in place of a summary.
const (
	MsgSummarizationUnavailable = "Summarization not available"
	MsgInsufficientText         = "Insufficient text for summarization"
	MsgSummarizationFailed      = "Summarization error: the summarization service did not respond"
)

// DigestStatus describes how a digest was produced.
type DigestStatus string

// Digest statuses.
const (
	DigestOK           DigestStatus = "ok"
	DigestUnavailable  DigestStatus = "unavailable"
	DigestInsufficient DigestStatus = "insufficient_text"
	DigestFailed       DigestStatus = "error"
)

// Summarizer condenses text into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// DigestResult is the summary shown on the dashboard.
type DigestResult struct {
	Text   string       `json:"text"`
	Status DigestStatus `json:"status"`
}

// Digest summarizes a random selection of headlines.
type Digest struct {
	// Summarizer may be nil, in which case summaries are unavailable.
	Summarizer Summarizer
	// Shuffle reorders titles in place. Nil uses math/rand/v2.
	Shuffle func(titles []string)
}

// Summarize builds the digest input from a shuffled copy of titles and sends it
// to the summarizer. It never returns an error; failures are reported through
// DigestResult.Status and the fixed messages.
func (d *Digest) Summarize(ctx context.Context, titles []string) DigestResult {
	start := time.Now()
	result := d.summarize(ctx, titles)

	var elapsed time.Duration
	if result.Status == DigestOK || result.Status == DigestFailed {
		elapsed = time.Since(start)
	}
	metrics.RecordDigest(string(result.Status), elapsed)
	return result
}

func (d *Digest) summarize(ctx context.Context, titles []string) DigestResult {
	if d.Summarizer == nil || len(titles) == 0 {
		return DigestResult{Text: MsgSummarizationUnavailable, Status: DigestUnavailable}
	}

	input := d.BuildInput(titles)
	if utf8.RuneCountInString(input) < DigestMinInput {
		return DigestResult{Text: MsgInsufficientText, Status: DigestInsufficient}
	}

	summary, err := d.Summarizer.Summarize(ctx, input)
	if err != nil {
		logging.FromContext(ctx).Warn("headline digest failed", "error", err)
		return DigestResult{Text: MsgSummarizationFailed, Status: DigestFailed}
	}
	return DigestResult{Text: strings.TrimSpace(summary), Status: DigestOK}
}

// BuildInput joins shuffled titles as "title. " until the text reaches
// DigestInputLimit characters, then trims and truncates it to that limit.
func (d *Digest) BuildInput(titles []string) string {
	shuffled := make([]string, len(titles))
	copy(shuffled, titles)
	d.shuffle(shuffled)

	var sb strings.Builder
	runes := 0
	for _, t := range shuffled {
		if runes >= DigestInputLimit {
			break
		}
		part := strings.TrimSpace(t) + ". "
		sb.WriteString(part)
		runes += utf8.RuneCountInString(part)
	}

	text := strings.TrimSpace(sb.String())
	if utf8.RuneCountInString(text) > DigestInputLimit {
		text = string([]rune(text)[:DigestInputLimit])
	}
	return text
}

func (d *Digest) shuffle(titles []string) {
	if d.Shuffle != nil {
		d.Shuffle(titles)
		return
	}
	rand.Shuffle(len(titles), func(i, j int) {
		titles[i], titles[j] = titles[j], titles[i]
	})
}
