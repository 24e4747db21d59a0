// Package logging builds the structured logger used by the CLI.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Log formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrInvalidLevel is returned for a level name slog does not know
var ErrInvalidLevel = errors.New("invalid log level")

// ErrInvalidFormat is returned for a format other than text or json
var ErrInvalidFormat = errors.New("invalid log format")

// ParseLevel converts a level name such as "debug" or "WARN" to a level
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
	}
	return level, nil
}

// New returns a logger writing to w at the given level and format
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case FormatText, "":
		handler = slog.NewTextHandler(w, handlerOpts)
	case FormatJSON:
		handler = slog.NewJSONHandler(w, handlerOpts)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}

	return slog.New(handler), nil
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
