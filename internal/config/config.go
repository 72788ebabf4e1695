// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Items     string `json:"items,omitempty"`     // Path to work items JSON file
	Judgments string `json:"judgments,omitempty"` // Path to pairwise judgments JSON file
	Context   string `json:"context,omitempty"`   // Path to strategy context file (text or HTML)

	// Behavior
	APIKey               string   `json:"api_key,omitempty"`               // Gemini API key for enhancement
	Enhance              bool     `json:"enhance,omitempty"`               // Enable LLM enhancement of alignment scores
	Verbose              bool     `json:"verbose,omitempty"`               // Print detailed debug information
	ConsistencyThreshold float64  `json:"consistency_threshold,omitempty"` // Max acceptable consistency ratio (0.0-1.0)
	AlignmentShare       *float64 `json:"alignment_share,omitempty"`       // Share of final score driven by alignment (0.0-1.0); applies when the judgments file leaves it unset
	UnmappedPolicy       string   `json:"unmapped_policy,omitempty"`       // abort, skip, or default
	Workers              int      `json:"workers,omitempty"`               // Max concurrent item scorers
	EnhanceTimeoutMS     int      `json:"enhance_timeout_ms,omitempty"`    // Per-item enhancement timeout in milliseconds
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate numeric ranges
	if c.ConsistencyThreshold < 0 || c.ConsistencyThreshold > 1 {
		return fmt.Errorf("config error: 'consistency_threshold' must be between 0.0 and 1.0")
	}
	if c.AlignmentShare != nil && (*c.AlignmentShare < 0 || *c.AlignmentShare > 1) {
		return fmt.Errorf("config error: 'alignment_share' must be between 0.0 and 1.0")
	}
	if c.Workers < 0 {
		return fmt.Errorf("config error: 'workers' must be non-negative")
	}
	if c.EnhanceTimeoutMS < 0 {
		return fmt.Errorf("config error: 'enhance_timeout_ms' must be non-negative")
	}

	switch c.UnmappedPolicy {
	case "", "abort", "skip", "default":
	default:
		return fmt.Errorf("config error: 'unmapped_policy' must be one of abort, skip, default")
	}

	// Validate file paths exist (if specified)
	if c.Items != "" {
		if _, err := os.Stat(c.Items); os.IsNotExist(err) {
			return fmt.Errorf("config error: items file not found: %s", c.Items)
		}
	}

	if c.Judgments != "" {
		if _, err := os.Stat(c.Judgments); os.IsNotExist(err) {
			return fmt.Errorf("config error: judgments file not found: %s", c.Judgments)
		}
	}

	if c.Context != "" {
		if _, err := os.Stat(c.Context); os.IsNotExist(err) {
			return fmt.Errorf("config error: context file not found: %s", c.Context)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Items == "" {
		result.Items = defaults.Items
	}
	if result.Judgments == "" {
		result.Judgments = defaults.Judgments
	}
	if result.Context == "" {
		result.Context = defaults.Context
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.UnmappedPolicy == "" {
		result.UnmappedPolicy = defaults.UnmappedPolicy
	}

	// Int fields: use default if zero
	if result.Workers == 0 {
		result.Workers = defaults.Workers
	}
	if result.EnhanceTimeoutMS == 0 {
		result.EnhanceTimeoutMS = defaults.EnhanceTimeoutMS
	}

	// Float fields
	if result.ConsistencyThreshold == 0 {
		if defaults.ConsistencyThreshold > 0 {
			result.ConsistencyThreshold = defaults.ConsistencyThreshold
		} else {
			result.ConsistencyThreshold = 0.10 // Saaty's standard acceptance bound
		}
	}
	// Alignment share stays nil when unset: the judgments file (or the
	// criteria-level default) decides, and an explicit zero is honored.
	if result.AlignmentShare == nil {
		result.AlignmentShare = defaults.AlignmentShare
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// EnhanceTimeout converts the millisecond setting to a duration, falling back
// to zero (caller default) when unset.
func (c *Config) EnhanceTimeout() time.Duration {
	return time.Duration(c.EnhanceTimeoutMS) * time.Millisecond
}
