package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/termfs/internal/util"
	"gopkg.in/yaml.v3"
)

// Default configuration constants. See [Config] for field descriptions.
const (
	// DefaultContentLimit is the maximum number of characters a file may hold
	DefaultContentLimit = 1000

	// DefaultLineWidth is the width `ls` wraps its listing at
	DefaultLineWidth = 80

	// DefaultEntryGap is the number of spaces between two `ls` entries on a line
	DefaultEntryGap = 5

	// DefaultHostname is shown in the prompt after the login name
	DefaultHostname = "computer"

	// DefaultMaxUsernameLen is the longest login name a host will accept
	DefaultMaxUsernameLen = 10

	// DefaultRootName is the name given to the root directory of new trees
	DefaultRootName = ""

	// DefaultHistoryLimit is how many past command lines a session remembers
	DefaultHistoryLimit = 16

	DefaultLogLvl = util.InfoLevel
)

// Verbosity values accepted from the CLI, mapped onto [util.LogLevel].
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Config contains runtime configuration values for the filesystem engine and its hosts.
type Config struct {
	LogLvl         util.LogLevel `yaml:"log_level" json:"log_level" validate:"gte=0,lte=4"`        // Global log level (Default Info)
	ContentLimit   int           `yaml:"content_limit" json:"content_limit" validate:"gt=0"`       // Max characters per file; writes beyond are truncated (Default 1000)
	LineWidth      int           `yaml:"line_width" json:"line_width" validate:"gt=0"`             // `ls` wrap width (Default 80)
	EntryGap       int           `yaml:"entry_gap" json:"entry_gap" validate:"gte=0"`              // Spaces between `ls` entries (Default 5)
	Hostname       string        `yaml:"hostname" json:"hostname" validate:"required"`             // Prompt host name (Default "computer")
	MaxUsernameLen int           `yaml:"max_username_len" json:"max_username_len" validate:"gt=0"` // Longest accepted login name (Default 10)
	RootName       string        `yaml:"root_name" json:"root_name"`                               // Name of the root directory in new trees (Default "")
	HistoryLimit   int           `yaml:"history_limit" json:"history_limit" validate:"gte=0"`      // Remembered command lines per session (Default 16)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
//
// LogLvl is a CLI verbosity between 1 (error) and 5 (trace), not a [util.LogLevel].
type ConfigOverride struct {
	LogLvl         *int    `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	ContentLimit   *int    `yaml:"content_limit,omitempty" json:"content_limit,omitempty"`
	LineWidth      *int    `yaml:"line_width,omitempty" json:"line_width,omitempty"`
	EntryGap       *int    `yaml:"entry_gap,omitempty" json:"entry_gap,omitempty"`
	Hostname       *string `yaml:"hostname,omitempty" json:"hostname,omitempty"`
	MaxUsernameLen *int    `yaml:"max_username_len,omitempty" json:"max_username_len,omitempty"`
	RootName       *string `yaml:"root_name,omitempty" json:"root_name,omitempty"`
	HistoryLimit   *int    `yaml:"history_limit,omitempty" json:"history_limit,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:         DefaultLogLvl,
		ContentLimit:   DefaultContentLimit,
		LineWidth:      DefaultLineWidth,
		EntryGap:       DefaultEntryGap,
		Hostname:       DefaultHostname,
		MaxUsernameLen: DefaultMaxUsernameLen,
		RootName:       DefaultRootName,
		HistoryLimit:   DefaultHistoryLimit,
	}
}

// NewConfig returns the default config with override applied. A nil override
// yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = VerboseToLogLevel(*override.LogLvl)
	}
	if override.ContentLimit != nil {
		c.ContentLimit = *override.ContentLimit
	}
	if override.LineWidth != nil {
		c.LineWidth = *override.LineWidth
	}
	if override.EntryGap != nil {
		c.EntryGap = *override.EntryGap
	}
	if override.Hostname != nil {
		c.Hostname = *override.Hostname
	}
	if override.MaxUsernameLen != nil {
		c.MaxUsernameLen = *override.MaxUsernameLen
	}
	if override.RootName != nil {
		c.RootName = *override.RootName
	}
	if override.HistoryLimit != nil {
		c.HistoryLimit = *override.HistoryLimit
	}
}

// VerboseToLogLevel maps a CLI verbosity (clamped to 1..5) onto a log level.
func VerboseToLogLevel(verbose int) util.LogLevel {
	if verbose < ErrorVerbose {
		verbose = ErrorVerbose
	}
	if verbose > TraceVerbose {
		verbose = TraceVerbose
	}
	logLvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return logLvls[verbose-1]
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
// The result is validated before it is returned.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewConfig(override)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
