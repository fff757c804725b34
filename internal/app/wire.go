// Package app wires the configured infrastructure into a dashboard service.
// Both the API server and the command line tool build their components here.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketpulse/internal/config"
	"marketpulse/internal/infra/cache"
	"marketpulse/internal/infra/classifier"
	"marketpulse/internal/infra/scraper"
	"marketpulse/internal/infra/summarizer"
	"marketpulse/internal/usecase/analysis"
	"marketpulse/internal/usecase/dashboard"
	"marketpulse/internal/usecase/headline"
)

// cacheBackend is a headline cache that can be probed and released.
type cacheBackend interface {
	headline.CacheStore
	Ping(ctx context.Context) error
	Close() error
}

// Components are the wired services plus what the entrypoints probe or release.
type Components struct {
	Dashboard *dashboard.Service
	Presets   config.DashboardPresets
	Fetcher   *scraper.RSSFetcher
	// Cache is nil when caching is disabled.
	Cache cacheBackend

	closers []func() error
}

// Build creates every component selected by cfg.
func Build(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (*Components, error) {
	presets, err := config.LoadDashboardPresets(cfg.DashboardConfig)
	if err != nil {
		return nil, err
	}

	c := &Components{Presets: presets}

	fetcherCfg := scraper.DefaultConfig()
	fetcherCfg.RatePerSecond = cfg.Feed.RatePerSec
	fetcherCfg.Burst = cfg.Feed.Burst
	c.Fetcher = scraper.NewRSSFetcher(scraper.NewHTTPClient(cfg.Feed.Timeout), fetcherCfg)

	var source headline.Source = headline.NewService(c.Fetcher)
	switch cfg.Cache.Backend {
	case config.CacheRedis:
		client, err := cache.NewRedisClient(ctx, cfg.Cache.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("connect cache: %w", err)
		}
		c.Cache = cache.NewRedis(client, "")
	case config.CacheMemory:
		c.Cache = cache.NewMemory(time.Minute)
	}
	if c.Cache != nil {
		c.closers = append(c.closers, c.Cache.Close)
		source = headline.NewCachedSource(source, c.Cache, cfg.Cache.TTL)
	}
	logger.Info("headline source ready",
		slog.String("cache", cfg.Cache.Backend),
		slog.Duration("cache_ttl", cfg.Cache.TTL),
		slog.String("feed_base_url", cfg.Feed.BaseURL))

	sum, err := c.newSummarizer(ctx, cfg, logger)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	c.Dashboard = &dashboard.Service{
		Source:       source,
		Classifier:   newClassifier(cfg, logger),
		Digest:       &analysis.Digest{Summarizer: sum},
		BaseURL:      cfg.Feed.BaseURL,
		ExcludeWords: presets.ExcludeWords,
	}
	return c, nil
}

// Close releases the cache connection and provider clients.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Components) newSummarizer(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (analysis.Summarizer, error) {
	switch cfg.Summarizer.Type {
	case config.SummarizerClaude:
		sc, err := summarizer.LoadClaudeConfig(cfg.Summarizer.Model)
		if err != nil {
			return nil, fmt.Errorf("load claude summarizer config: %w", err)
		}
		logger.Info("using Claude for headline digests",
			slog.String("model", sc.Model), slog.Int("character_limit", sc.CharacterLimit))
		return summarizer.NewClaude(cfg.AnthropicAPIKey, sc), nil

	case config.SummarizerOpenAI:
		sc, err := summarizer.LoadOpenAIConfig(cfg.Summarizer.Model)
		if err != nil {
			return nil, fmt.Errorf("load openai summarizer config: %w", err)
		}
		logger.Info("using OpenAI for headline digests",
			slog.String("model", sc.Model), slog.Int("character_limit", sc.CharacterLimit))
		return summarizer.NewOpenAI(cfg.OpenAIAPIKey, sc), nil

	case config.SummarizerGemini:
		sc, err := summarizer.LoadGeminiConfig(cfg.Summarizer.Model)
		if err != nil {
			return nil, fmt.Errorf("load gemini summarizer config: %w", err)
		}
		g, err := summarizer.NewGemini(ctx, cfg.GeminiAPIKey, sc)
		if err != nil {
			return nil, err
		}
		c.closers = append(c.closers, g.Close)
		logger.Info("using Gemini for headline digests",
			slog.String("model", sc.Model), slog.Int("character_limit", sc.CharacterLimit))
		return g, nil

	default:
		limit, err := summarizer.LoadCharacterLimit()
		if err != nil {
			return nil, fmt.Errorf("load summarizer config: %w", err)
		}
		logger.Info("using extractive headline digests", slog.Int("character_limit", limit))
		return summarizer.NewNoOp(limit), nil
	}
}

// newClassifier returns the lexicon classifier, or Claude backed by the
// lexicon when Claude is selected.
func newClassifier(cfg *config.AppConfig, logger *slog.Logger) analysis.Classifier {
	lexicon := analysis.NewLexiconClassifier()
	if cfg.Classifier.Type != config.ClassifierClaude {
		return lexicon
	}

	cc := classifier.DefaultConfig()
	if cfg.Classifier.Model != "" {
		cc.Model = cfg.Classifier.Model
	}
	logger.Info("using Claude for sentiment", slog.String("model", cc.Model))
	return &analysis.FallbackClassifier{
		Primary:  classifier.NewClaude(cfg.AnthropicAPIKey, cc),
		Fallback: lexicon,
	}
}
