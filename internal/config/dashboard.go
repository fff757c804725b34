package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"marketpulse/internal/domain/entity"
	"marketpulse/internal/usecase/dashboard"
	"marketpulse/internal/usecase/headline"
)

// CategoryPreset maps a display label to a topic code.
type CategoryPreset struct {
	Label string `yaml:"label" json:"label"`
	Code  string `yaml:"code" json:"code"`
}

// DashboardPresets are the choices and defaults offered to dashboard users.
type DashboardPresets struct {
	Regions      []string         `yaml:"regions" json:"regions"`
	Categories   []CategoryPreset `yaml:"categories" json:"categories"`
	ExcludeWords []string         `yaml:"exclude_words" json:"exclude_words"`
	MaxArticles  int              `yaml:"max_articles" json:"max_articles"`
	Headlines    int              `yaml:"headlines" json:"headlines"`
}

// dashboardFile is the on-disk layout.
type dashboardFile struct {
	Dashboard DashboardPresets `yaml:"dashboard"`
}

// DefaultExcludeWords are dropped from the top keywords unless a request overrides them.
var DefaultExcludeWords = []string{"news", "says", "new", "get", "make", "with", "this"}

// DefaultDashboardPresets returns the built-in presets.
func DefaultDashboardPresets() DashboardPresets {
	categories := make([]CategoryPreset, 0, len(entity.Categories))
	for _, code := range entity.Categories {
		categories = append(categories, CategoryPreset{Label: titleCase(code), Code: code})
	}
	return DashboardPresets{
		Regions:      append([]string(nil), entity.Regions...),
		Categories:   categories,
		ExcludeWords: append([]string(nil), DefaultExcludeWords...),
		MaxArticles:  headline.DefaultMaxArticles,
		Headlines:    dashboard.DefaultHeadlines,
	}
}

// LoadDashboardPresets reads presets from a YAML file. An empty path selects
// the defaults; fields missing from the file keep their default values.
// The path comes from trusted configuration, not from requests.
func LoadDashboardPresets(path string) (DashboardPresets, error) {
	presets := DefaultDashboardPresets()
	if path == "" {
		return presets, nil
	}

	// #nosec G304 -- path is operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return DashboardPresets{}, fmt.Errorf("failed to read dashboard config: %w", err)
	}

	file := dashboardFile{Dashboard: presets}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return DashboardPresets{}, fmt.Errorf("failed to parse dashboard config: %w", err)
	}
	if err := file.Dashboard.Validate(); err != nil {
		return DashboardPresets{}, fmt.Errorf("dashboard config validation failed: %w", err)
	}
	return file.Dashboard, nil
}

// Validate checks that codes are well formed and limits are in range.
func (p DashboardPresets) Validate() error {
	if len(p.Regions) == 0 {
		return fmt.Errorf("regions are required")
	}
	for _, r := range p.Regions {
		if err := (entity.FeedQuery{Region: r}).WithDefaults().Validate(); err != nil {
			return fmt.Errorf("region %q: %w", r, err)
		}
	}
	for _, c := range p.Categories {
		if c.Label == "" {
			return fmt.Errorf("category %q: label is required", c.Code)
		}
		if !entity.IsKnownCategory(strings.ToUpper(c.Code)) {
			return fmt.Errorf("category %q: unknown code", c.Code)
		}
	}
	if p.MaxArticles < headline.MinMaxArticles || p.MaxArticles > headline.MaxMaxArticles {
		return fmt.Errorf("max_articles must be between %d and %d", headline.MinMaxArticles, headline.MaxMaxArticles)
	}
	if p.Headlines < dashboard.MinHeadlines || p.Headlines > dashboard.MaxHeadlines {
		return fmt.Errorf("headlines must be between %d and %d", dashboard.MinHeadlines, dashboard.MaxHeadlines)
	}
	return nil
}

func titleCase(code string) string {
	if code == "" {
		return ""
	}
	lower := strings.ToLower(code)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
