package summarizer

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	// minCharLimit is the minimum allowed character limit for summaries.
	minCharLimit = 100

	// maxCharLimit is the maximum allowed character limit for summaries.
	maxCharLimit = 5000

	// DefaultCharLimit keeps headline digests to a short paragraph.
	DefaultCharLimit = 600

	// DefaultTimeout bounds a single summarization call, retries included.
	DefaultTimeout = 60 * time.Second

	// maxInputRunes caps the text sent to a provider.
	maxInputRunes = 10000
)

// Config holds the provider independent summarizer settings.
type Config struct {
	// CharacterLimit is the maximum summary length requested from the model.
	// Loaded from SUMMARIZER_CHAR_LIMIT. Valid range: 100-5000.
	CharacterLimit int

	// Model is the provider model identifier.
	Model string

	// MaxTokens is the maximum number of tokens for the response.
	MaxTokens int

	// Timeout is the maximum duration of one Summarize call.
	Timeout time.Duration

	// BaseURL overrides the provider endpoint. Empty uses the SDK default.
	BaseURL string
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	if err := ValidateCharacterLimit(c.CharacterLimit); err != nil {
		return fmt.Errorf("invalid character limit: %w", err)
	}
	if c.Model == "" {
		return errors.New("model cannot be empty")
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", c.MaxTokens)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	return nil
}

// ValidateCharacterLimit validates that the character limit is within the valid range (100-5000).
//
// Example:
//
//	err := ValidateCharacterLimit(600)  // nil (valid)
//	err := ValidateCharacterLimit(50)   // error: "character limit 50 is below minimum 100"
//	err := ValidateCharacterLimit(6000) // error: "character limit 6000 exceeds maximum 5000"
func ValidateCharacterLimit(limit int) error {
	if limit < minCharLimit {
		return fmt.Errorf("character limit %d is below minimum %d", limit, minCharLimit)
	}
	if limit > maxCharLimit {
		return fmt.Errorf("character limit %d exceeds maximum %d", limit, maxCharLimit)
	}
	return nil
}

// LoadCharacterLimit reads SUMMARIZER_CHAR_LIMIT, defaulting to DefaultCharLimit.
// Invalid values are rejected rather than defaulted.
func LoadCharacterLimit() (int, error) {
	envLimit := os.Getenv("SUMMARIZER_CHAR_LIMIT")
	if envLimit == "" {
		return DefaultCharLimit, nil
	}
	parsed, err := strconv.Atoi(envLimit)
	if err != nil {
		return 0, fmt.Errorf("invalid SUMMARIZER_CHAR_LIMIT format: %s: %w", envLimit, err)
	}
	if err := ValidateCharacterLimit(parsed); err != nil {
		return 0, fmt.Errorf("SUMMARIZER_CHAR_LIMIT out of valid range: %w", err)
	}
	return parsed, nil
}

// LoadConfig builds a validated Config for the given model with the
// character limit from LoadCharacterLimit.
func LoadConfig(model string, maxTokens int) (Config, error) {
	charLimit, err := LoadCharacterLimit()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		CharacterLimit: charLimit,
		Model:          model,
		MaxTokens:      maxTokens,
		Timeout:        DefaultTimeout,
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid summarizer configuration: %w", err)
	}
	return cfg, nil
}
