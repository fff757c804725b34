package summarizer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Default(t *testing.T) {
	t.Setenv("SUMMARIZER_CHAR_LIMIT", "")

	cfg, err := LoadConfig("model-x", 512)
	require.NoError(t, err)
	assert.Equal(t, DefaultCharLimit, cfg.CharacterLimit)
	assert.Equal(t, "model-x", cfg.Model)
	assert.Equal(t, 512, cfg.MaxTokens)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestLoadConfig_CharLimitFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int
		wantErr bool
	}{
		{name: "custom", value: "400", want: 400},
		{name: "minimum", value: "100", want: 100},
		{name: "maximum", value: "5000", want: 5000},
		{name: "below minimum", value: "99", wantErr: true},
		{name: "above maximum", value: "5001", wantErr: true},
		{name: "not a number", value: "lots", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SUMMARIZER_CHAR_LIMIT", tt.value)

			cfg, err := LoadConfig("model-x", 512)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "SUMMARIZER_CHAR_LIMIT")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.CharacterLimit)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := Config{CharacterLimit: 600, Model: "m", MaxTokens: 10, Timeout: time.Second}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "limit", mutate: func(c *Config) { c.CharacterLimit = 10 }, errMsg: "character limit"},
		{name: "model", mutate: func(c *Config) { c.Model = "" }, errMsg: "model"},
		{name: "tokens", mutate: func(c *Config) { c.MaxTokens = 0 }, errMsg: "max tokens"},
		{name: "timeout", mutate: func(c *Config) { c.Timeout = 0 }, errMsg: "timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestProviderConfigs_DefaultModels(t *testing.T) {
	t.Setenv("SUMMARIZER_CHAR_LIMIT", "")

	claude, err := LoadClaudeConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultClaudeModel, claude.Model)

	oa, err := LoadOpenAIConfig("gpt-custom")
	require.NoError(t, err)
	assert.Equal(t, "gpt-custom", oa.Model)

	gem, err := LoadGeminiConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultGeminiModel, gem.Model)
}

func TestLoadCharacterLimit(t *testing.T) {
	t.Setenv("SUMMARIZER_CHAR_LIMIT", "")
	limit, err := LoadCharacterLimit()
	require.NoError(t, err)
	assert.Equal(t, DefaultCharLimit, limit)

	t.Setenv("SUMMARIZER_CHAR_LIMIT", "250")
	limit, err = LoadCharacterLimit()
	require.NoError(t, err)
	assert.Equal(t, 250, limit)

	t.Setenv("SUMMARIZER_CHAR_LIMIT", "20")
	_, err = LoadCharacterLimit()
	assert.Error(t, err)
}
