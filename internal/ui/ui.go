// Package ui renders progress and styled output for the gosmell CLI.
package ui

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/pthm/gosmell/internal/reporter"
)

// OutputMode determines how output should be formatted
type OutputMode int

const (
	// OutputModeInteractive enables colors, spinners and progress bars
	OutputModeInteractive OutputMode = iota
	// OutputModePlain disables colors and progress (for piped output)
	OutputModePlain
	// OutputModeDocument means stdout carries a json, markdown or html
	// document that must not be decorated
	OutputModeDocument
)

// UI provides a unified interface for terminal output with TTY detection
type UI struct {
	Mode      OutputMode
	Writer    io.Writer
	ErrWriter io.Writer
	Styles    *Styles

	// progress is set when the error stream is a terminal that can host
	// progress display
	progress bool
}

// New creates a UI for the given report format. Styles follow the main
// writer, progress display follows the error writer.
func New(w, errW io.Writer, format string) *UI {
	mode := detectMode(w, format)
	return &UI{
		Mode:      mode,
		Writer:    w,
		ErrWriter: errW,
		Styles:    NewStyles(mode == OutputModeInteractive),
		progress:  mode != OutputModeDocument && isTerminal(errW),
	}
}

func detectMode(w io.Writer, format string) OutputMode {
	switch format {
	case reporter.FormatJSON, reporter.FormatMarkdown, reporter.FormatHTML:
		return OutputModeDocument
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return OutputModePlain
	}
	if isTerminal(w) {
		return OutputModeInteractive
	}
	return OutputModePlain
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsInteractive returns true if the output is interactive (TTY)
func (ui *UI) IsInteractive() bool {
	return ui.Mode == OutputModeInteractive
}

// IsDocument returns true if stdout carries a machine-readable document
func (ui *UI) IsDocument() bool {
	return ui.Mode == OutputModeDocument
}

// ShowsProgress reports whether progress display is enabled
func (ui *UI) ShowsProgress() bool {
	return ui.progress
}
