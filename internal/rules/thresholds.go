package rules

import (
	"errors"
	"fmt"
)

// Default thresholds
const (
	DefaultMaxMethodLength = 10
	DefaultMaxConditionals = 3
	DefaultMaxParams       = 5
)

// ErrInvalidThreshold is returned for thresholds that are not positive
var ErrInvalidThreshold = errors.New("threshold must be positive")

// Thresholds are the limits above which a smell is reported
type Thresholds struct {
	MaxMethodLength int `yaml:"max_method_length" mapstructure:"max_method_length"`
	MaxConditionals int `yaml:"max_conditionals" mapstructure:"max_conditionals"`
	MaxParams       int `yaml:"max_params" mapstructure:"max_params"`
}

// DefaultThresholds returns the default thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxMethodLength: DefaultMaxMethodLength,
		MaxConditionals: DefaultMaxConditionals,
		MaxParams:       DefaultMaxParams,
	}
}

// WithDefaults replaces zero or negative fields with the defaults
func (t Thresholds) WithDefaults() Thresholds {
	if t.MaxMethodLength <= 0 {
		t.MaxMethodLength = DefaultMaxMethodLength
	}
	if t.MaxConditionals <= 0 {
		t.MaxConditionals = DefaultMaxConditionals
	}
	if t.MaxParams <= 0 {
		t.MaxParams = DefaultMaxParams
	}
	return t
}

// Validate checks that every threshold is positive
func (t Thresholds) Validate() error {
	if t.MaxMethodLength <= 0 {
		return fmt.Errorf("%w: max_method_length=%d", ErrInvalidThreshold, t.MaxMethodLength)
	}
	if t.MaxConditionals <= 0 {
		return fmt.Errorf("%w: max_conditionals=%d", ErrInvalidThreshold, t.MaxConditionals)
	}
	if t.MaxParams <= 0 {
		return fmt.Errorf("%w: max_params=%d", ErrInvalidThreshold, t.MaxParams)
	}
	return nil
}

// SplitPoint is the number of statements a split function keeps
func (t Thresholds) SplitPoint() int {
	return t.WithDefaults().MaxMethodLength / 2
}
