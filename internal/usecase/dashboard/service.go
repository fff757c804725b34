package dashboard

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"marketpulse/internal/domain/entity"
	"marketpulse/internal/observability/logging"
	"marketpulse/internal/observability/metrics"
	"marketpulse/internal/observability/tracing"
	"marketpulse/internal/usecase/analysis"
	"marketpulse/internal/usecase/headline"
)

// Status tells the presentation layer which view to show.
type Status string

// Report statuses.
const (
	StatusOK          Status = "ok"
	StatusNoArticles  Status = "no_articles"
	StatusFilteredOut Status = "filtered_out"
)

// Bounds for the number of headline rows shown.
const (
	MinHeadlines     = 5
	MaxHeadlines     = 50
	DefaultHeadlines = 10
)

// Request is one dashboard query.
type Request struct {
	Query       entity.FeedQuery
	MaxArticles int
	// Filter is a comma-separated keyword list applied to titles.
	Filter string
	// Exclude overrides the service's excluded keywords when non-nil.
	Exclude []string
	// Headlines is the number of rows to display.
	Headlines int
}

// Row is an article with its sentiment label.
type Row struct {
	Title     string         `json:"title"`
	Link      string         `json:"link"`
	Published string         `json:"published"`
	Summary   string         `json:"summary"`
	Source    string         `json:"source"`
	Sentiment analysis.Label `json:"sentiment_label"`
}

// Report is the analysed result of one Request.
type Report struct {
	FeedURL     string `json:"url"`
	Status      Status `json:"status"`
	Message     string `json:"message,omitempty"`
	FetchFailed bool   `json:"fetch_failed,omitempty"`
	// Fetched counts articles before the keyword filter.
	Fetched         int                   `json:"fetched"`
	Rows            []Row                 `json:"articles"`
	Displayable     int                   `json:"displayable"`
	Headlines       []Row                 `json:"headlines"`
	Stats           analysis.Stats        `json:"stats"`
	Keywords        []analysis.WordCount  `json:"top_keywords"`
	WordFrequencies []analysis.WordCount  `json:"word_frequencies"`
	Summary         analysis.DigestResult `json:"summary"`
	GeneratedAt     time.Time             `json:"generated_at"`
}

// Service builds dashboard reports.
type Service struct {
	Source headline.Source
	// Classifier defaults to the lexicon classifier when nil.
	Classifier analysis.Classifier
	// Digest may be nil, in which case summaries are unavailable.
	Digest *analysis.Digest
	// BaseURL is the feed base URL; empty uses headline.DefaultBaseURL.
	BaseURL string
	// ExcludeWords are removed from the top keywords and word frequencies
	// unless a Request overrides them.
	ExcludeWords []string
	Now          func() time.Time
}

// ClampHeadlines clamps n into [MinHeadlines, MaxHeadlines].
// Non-positive input selects DefaultHeadlines.
func ClampHeadlines(n int) int {
	if n <= 0 {
		return DefaultHeadlines
	}
	return min(max(n, MinHeadlines), MaxHeadlines)
}

// FeedURL validates q and returns the feed URL it maps to.
func (s *Service) FeedURL(q entity.FeedQuery) (string, error) {
	q = q.WithDefaults()
	if err := q.Validate(); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	base := s.BaseURL
	if base == "" {
		base = headline.DefaultBaseURL
	}
	return headline.BuildFeedURL(base, q), nil
}

// Build runs one request end to end. Upstream failures degrade the report
// instead of failing it; the only errors are invalid requests and a
// cancelled context.
func (s *Service) Build(ctx context.Context, req Request) (*Report, error) {
	feedURL, err := s.FeedURL(req.Query)
	if err != nil {
		return nil, err
	}
	maxArticles := headline.ClampMaxArticles(req.MaxArticles)

	ctx, span := tracing.StartSpan(ctx, "dashboard.Build",
		attribute.String("feed.url", feedURL),
		attribute.Int("feed.max_articles", maxArticles),
	)
	defer span.End()

	logger := logging.FromContext(ctx)
	report := &Report{
		FeedURL:         feedURL,
		Rows:            []Row{},
		Headlines:       []Row{},
		Keywords:        []analysis.WordCount{},
		WordFrequencies: []analysis.WordCount{},
		GeneratedAt:     s.now().UTC(),
	}

	articles, fetchErr := s.Source.Collect(ctx, feedURL, maxArticles)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	report.Fetched = len(articles)
	if len(articles) == 0 {
		report.Status = StatusNoArticles
		report.Message = MsgNoArticles
		if fetchErr != nil {
			report.FetchFailed = true
			report.Message = MsgFetchError
			logger.Warn("dashboard built without articles", "url", feedURL, "error", fetchErr)
		}
		return s.finish(span, report), nil
	}

	filtered := analysis.FilterByKeywords(articles, req.Filter)
	if len(filtered) == 0 {
		report.Status = StatusFilteredOut
		report.Message = MsgFilteredOut
		return s.finish(span, report), nil
	}

	titles := make([]string, len(filtered))
	for i, a := range filtered {
		titles[i] = a.Title
	}

	var (
		labels []analysis.Label
		digest analysis.DigestResult
		g      errgroup.Group
	)
	g.Go(func() error {
		labels = analysis.ClassifyAll(ctx, s.classifier(), titles)
		return nil
	})
	g.Go(func() error {
		if s.Digest == nil {
			digest = analysis.DigestResult{Text: analysis.MsgSummarizationUnavailable, Status: analysis.DigestUnavailable}
			return nil
		}
		digest = s.Digest.Summarize(ctx, titles)
		return nil
	})
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rows := make([]Row, len(filtered))
	for i, a := range filtered {
		rows[i] = Row{
			Title:     a.Title,
			Link:      a.Link,
			Published: a.Published,
			Summary:   a.Summary,
			Source:    a.Source,
			Sentiment: labels[i],
		}
	}

	exclude := s.ExcludeWords
	if req.Exclude != nil {
		exclude = req.Exclude
	}

	report.Status = StatusOK
	report.Rows = rows
	report.Displayable = min(ClampHeadlines(req.Headlines), len(rows))
	report.Headlines = rows[:report.Displayable]
	report.Stats = analysis.Summarize(labels, filtered)
	report.Keywords = analysis.TopKeywords(titles, exclude, analysis.DefaultTopKeywords)
	report.WordFrequencies = analysis.WordFrequencies(titles, exclude, analysis.DefaultWordCloudLimit)
	report.Summary = digest

	logger.Info("dashboard built",
		"url", feedURL,
		"fetched", report.Fetched,
		"rows", len(rows),
		"summary_status", digest.Status)
	return s.finish(span, report), nil
}

func (s *Service) finish(span trace.Span, r *Report) *Report {
	if r.Status != StatusOK {
		r.Summary = analysis.DigestResult{Text: analysis.MsgSummarizationUnavailable, Status: analysis.DigestUnavailable}
		r.Stats = analysis.Summarize(nil, nil)
	}
	span.SetAttributes(
		attribute.String("dashboard.status", string(r.Status)),
		attribute.Int("dashboard.rows", len(r.Rows)),
	)
	metrics.RecordDashboardBuild(string(r.Status))
	return r
}

func (s *Service) classifier() analysis.Classifier {
	if s.Classifier == nil {
		return analysis.NewLexiconClassifier()
	}
	return s.Classifier
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
