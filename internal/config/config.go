// Package config loads gosmell settings from file, environment and flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"github.com/pthm/gosmell/internal/logging"
	"github.com/pthm/gosmell/internal/profile"
	"github.com/pthm/gosmell/internal/reporter"
	"github.com/pthm/gosmell/internal/rules"
)

// Defaults
const (
	DefaultFormat      = reporter.FormatTerminal
	DefaultTimeout     = 30 * time.Second
	DefaultLogLevel    = "warn"
	DefaultLogFormat   = logging.FormatText
	DefaultMaxFileSize = 1 << 20
)

// Sentinel errors for invalid settings
var (
	ErrInvalidThreshold = rules.ErrInvalidThreshold
	ErrInvalidWorkers   = errors.New("workers must not be negative")
	ErrInvalidTimeout   = errors.New("timeout must not be negative")
	ErrUnknownFormat    = reporter.ErrUnknownFormat
)

// Config is the top-level configuration struct for gosmell.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	// Profile names the built-in threshold set to start from
	Profile string `mapstructure:"profile"`

	// Thresholds override the profile. Zero fields keep the profile value.
	Thresholds rules.Thresholds `mapstructure:"thresholds"`

	Rules    RulesConfig    `mapstructure:"rules"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// RulesConfig selects rules
type RulesConfig struct {
	Disabled []string `mapstructure:"disabled"`
}

// AnalysisConfig holds resource knobs for analyzing many files
type AnalysisConfig struct {
	// Workers bounds parallel file analysis, 0 means one per CPU
	Workers int `mapstructure:"workers"`

	// Timeout bounds the analysis of one file, 0 disables the limit
	Timeout time.Duration `mapstructure:"timeout"`

	// Exclude lists directory or file names skipped during discovery
	Exclude []string `mapstructure:"exclude"`

	// MaxFileSize skips larger files, 0 disables the limit
	MaxFileSize int64 `mapstructure:"max_file_size"`
}

// OutputConfig controls reporting
type OutputConfig struct {
	Format   string `mapstructure:"format"`
	ShowCode bool   `mapstructure:"show_code"`
}

// LoggingConfig controls the diagnostic logger
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Validate checks every setting
func (c *Config) Validate() error {
	for name, v := range map[string]int{
		"max_method_length": c.Thresholds.MaxMethodLength,
		"max_conditionals":  c.Thresholds.MaxConditionals,
		"max_params":        c.Thresholds.MaxParams,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s=%d", ErrInvalidThreshold, name, v)
		}
	}

	if c.Analysis.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, c.Analysis.Workers)
	}
	if c.Analysis.Timeout < 0 {
		return fmt.Errorf("%w: %s", ErrInvalidTimeout, c.Analysis.Timeout)
	}

	if c.Output.Format != "" && !reporter.ValidFormat(c.Output.Format) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Output.Format)
	}

	if _, err := profile.Load(c.Profile); err != nil {
		return err
	}

	if c.Logging.Level != "" {
		if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
			return err
		}
	}
	switch c.Logging.Format {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("%w: %q", logging.ErrInvalidFormat, c.Logging.Format)
	}

	return nil
}

// ResolveThresholds returns the profile thresholds overridden by the
// non-zero configured ones
func (c *Config) ResolveThresholds() (rules.Thresholds, error) {
	p, err := profile.Load(c.Profile)
	if err != nil {
		return rules.Thresholds{}, err
	}

	th := p.Thresholds
	if c.Thresholds.MaxMethodLength > 0 {
		th.MaxMethodLength = c.Thresholds.MaxMethodLength
	}
	if c.Thresholds.MaxConditionals > 0 {
		th.MaxConditionals = c.Thresholds.MaxConditionals
	}
	if c.Thresholds.MaxParams > 0 {
		th.MaxParams = c.Thresholds.MaxParams
	}
	return th.WithDefaults(), nil
}

// Registry returns the default rules without those disabled by the
// profile or the configuration
func (c *Config) Registry() (*rules.Registry, error) {
	p, err := profile.Load(c.Profile)
	if err != nil {
		return nil, err
	}
	disabled := append(append([]string(nil), p.DisabledRules...), c.Rules.Disabled...)
	return rules.DefaultRegistry().Without(disabled...), nil
}

// WorkerCount returns the number of parallel workers to use
func (c *Config) WorkerCount() int {
	if c.Analysis.Workers > 0 {
		return c.Analysis.Workers
	}
	return runtime.NumCPU()
}

// LogLevel returns the configured level, warn when unset
func (c *Config) LogLevel() slog.Level {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}
