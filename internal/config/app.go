// Package config assembles the application settings: AppConfig from the
// environment and the dashboard presets from YAML.
package config

import (
	"errors"
	"fmt"
	"time"

	"marketpulse/internal/domain/entity"
	"marketpulse/internal/usecase/headline"
	envcfg "marketpulse/pkg/config"
)

// Supported backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"

	SummarizerNoOp   = "noop"
	SummarizerClaude = "claude"
	SummarizerOpenAI = "openai"
	SummarizerGemini = "gemini"

	ClassifierLexicon = "lexicon"
	ClassifierClaude  = "claude"
)

// AppConfig holds everything the entrypoints need to wire the service.
type AppConfig struct {
	Port     int
	Version  string
	LogLevel string

	Feed       FeedConfig
	Cache      CacheConfig
	Summarizer SummarizerConfig
	Classifier ClassifierConfig
	RateLimit  RateLimitConfig

	// RequestTimeout bounds each API request. Zero disables it.
	RequestTimeout time.Duration

	// TracingEnabled installs an SDK tracer provider.
	TracingEnabled bool

	// DashboardConfig is the presets YAML path. Empty selects the built-in presets.
	DashboardConfig string

	AnthropicAPIKey string
	OpenAIAPIKey    string
	GeminiAPIKey    string
}

// FeedConfig controls the upstream feed client.
type FeedConfig struct {
	BaseURL    string
	Timeout    time.Duration
	RatePerSec float64
	Burst      int
}

// CacheConfig selects the headline cache.
type CacheConfig struct {
	Backend  string
	TTL      time.Duration
	RedisURL string
}

// SummarizerConfig selects the digest provider.
type SummarizerConfig struct {
	Type  string
	Model string
}

// ClassifierConfig selects the sentiment classifier.
type ClassifierConfig struct {
	Type  string
	Model string
}

// RateLimitConfig is the per-IP API limit.
type RateLimitConfig struct {
	Enabled bool
	Limit   int
	Window  time.Duration
}

// Load reads AppConfig from the environment and validates it.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:     envcfg.GetEnvInt("PORT", 8080),
		Version:  envcfg.GetEnvString("VERSION", "dev"),
		LogLevel: envcfg.GetEnvString("LOG_LEVEL", "info"),
		Feed: FeedConfig{
			BaseURL:    envcfg.GetEnvString("FEED_BASE_URL", headline.DefaultBaseURL),
			Timeout:    envcfg.GetEnvDuration("FEED_TIMEOUT", 10*time.Second),
			RatePerSec: envcfg.GetEnvFloat("FEED_RATE_PER_SEC", 2),
			Burst:      envcfg.GetEnvInt("FEED_BURST", 2),
		},
		Cache: CacheConfig{
			Backend:  envcfg.GetEnvString("CACHE_BACKEND", CacheMemory),
			TTL:      envcfg.GetEnvDuration("CACHE_TTL", headline.DefaultCacheTTL),
			RedisURL: envcfg.GetEnvString("REDIS_URL", ""),
		},
		Summarizer: SummarizerConfig{
			Type:  envcfg.GetEnvString("SUMMARIZER_TYPE", SummarizerNoOp),
			Model: envcfg.GetEnvString("SUMMARIZER_MODEL", ""),
		},
		Classifier: ClassifierConfig{
			Type:  envcfg.GetEnvString("CLASSIFIER_TYPE", ClassifierLexicon),
			Model: envcfg.GetEnvString("CLASSIFIER_MODEL", ""),
		},
		RateLimit: RateLimitConfig{
			Enabled: envcfg.GetEnvBool("RATE_LIMIT_ENABLED", true),
			Limit:   envcfg.GetEnvInt("RATE_LIMIT_REQUESTS", 60),
			Window:  envcfg.GetEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		RequestTimeout:  envcfg.GetEnvDuration("REQUEST_TIMEOUT", 60*time.Second),
		TracingEnabled:  envcfg.GetEnvBool("TRACING_ENABLED", true),
		DashboardConfig: envcfg.GetEnvString("DASHBOARD_CONFIG", ""),
		AnthropicAPIKey: envcfg.GetEnvString("ANTHROPIC_API_KEY", ""),
		OpenAIAPIKey:    envcfg.GetEnvString("OPENAI_API_KEY", ""),
		GeminiAPIKey:    envcfg.GetEnvString("GEMINI_API_KEY", ""),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks value ranges and that every selected provider has its credentials.
func (c *AppConfig) Validate() error {
	var errs []error
	check := func(field string, err error) {
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
	}

	check("PORT", envcfg.ValidateIntRange(c.Port, 1, 65535))
	check("FEED_BASE_URL", entity.ValidateURL(c.Feed.BaseURL))
	check("FEED_TIMEOUT", envcfg.ValidateDurationRange(c.Feed.Timeout, time.Second, 2*time.Minute))
	check("CACHE_BACKEND", envcfg.ValidateOneOf(c.Cache.Backend, CacheMemory, CacheRedis, CacheNone))
	if c.Cache.Backend != CacheNone {
		check("CACHE_TTL", envcfg.ValidatePositiveDuration(c.Cache.TTL))
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "" {
		errs = append(errs, errors.New("REDIS_URL is required when CACHE_BACKEND=redis"))
	}
	check("SUMMARIZER_TYPE", envcfg.ValidateOneOf(c.Summarizer.Type,
		SummarizerNoOp, SummarizerClaude, SummarizerOpenAI, SummarizerGemini))
	check("CLASSIFIER_TYPE", envcfg.ValidateOneOf(c.Classifier.Type, ClassifierLexicon, ClassifierClaude))
	if c.RateLimit.Enabled {
		check("RATE_LIMIT_REQUESTS", envcfg.ValidateIntRange(c.RateLimit.Limit, 1, 100000))
		check("RATE_LIMIT_WINDOW", envcfg.ValidatePositiveDuration(c.RateLimit.Window))
	}

	if c.Summarizer.Type == SummarizerClaude || c.Classifier.Type == ClassifierClaude {
		if c.AnthropicAPIKey == "" {
			errs = append(errs, errors.New("ANTHROPIC_API_KEY is required for the claude provider"))
		}
	}
	if c.Summarizer.Type == SummarizerOpenAI && c.OpenAIAPIKey == "" {
		errs = append(errs, errors.New("OPENAI_API_KEY is required when SUMMARIZER_TYPE=openai"))
	}
	if c.Summarizer.Type == SummarizerGemini && c.GeminiAPIKey == "" {
		errs = append(errs, errors.New("GEMINI_API_KEY is required when SUMMARIZER_TYPE=gemini"))
	}

	return errors.Join(errs...)
}

