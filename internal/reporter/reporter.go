// Package reporter renders analysis results.
package reporter

import (
	"errors"
	"fmt"
	"io"

	"github.com/pthm/gosmell/internal/rules"
)

// Output formats
const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatTable    = "table"
)

// Formats lists every supported output format
var Formats = []string{FormatTerminal, FormatJSON, FormatMarkdown, FormatHTML, FormatTable}

// ErrUnknownFormat is returned for an output format not in Formats
var ErrUnknownFormat = errors.New("unknown output format")

// FileResult is the analysis outcome for one input
type FileResult struct {
	Path     string
	Findings []rules.Finding

	// Report is the assembled report text
	Report string

	// Refactored is the regenerated source, empty when Regenerated is false
	Refactored  string
	Regenerated bool

	// Err is a parse or generation failure
	Err error
}

// Options configures reporters
type Options struct {
	// ShowCode includes the refactored source in the output
	ShowCode bool
}

// Reporter defines the interface for outputting analysis results
type Reporter interface {
	// Report outputs the analysis results
	Report(results []FileResult) error
}

// New returns the reporter for format
func New(format string, w io.Writer, opts Options) (Reporter, error) {
	switch format {
	case FormatTerminal, "":
		return NewTerminalReporter(w, opts), nil
	case FormatJSON:
		return NewJSONReporter(w, opts), nil
	case FormatMarkdown:
		return NewMarkdownReporter(w, opts), nil
	case FormatHTML:
		return NewHTMLReporter(w, opts), nil
	case FormatTable:
		return NewTableReporter(w), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ValidFormat reports whether format is supported
func ValidFormat(format string) bool {
	for _, f := range Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Summary holds summary statistics for an analysis run
type Summary struct {
	TotalFindings int `json:"totalFindings"`
	Errors        int `json:"errors"`
	Warnings      int `json:"warnings"`
	Suggestions   int `json:"suggestions"`
	Info          int `json:"info"`

	LongMethods         int `json:"longMethods"`
	LongParameterLists  int `json:"longParameterLists"`
	ComplexConditionals int `json:"complexConditionals"`

	Files       int `json:"files"`
	FailedFiles int `json:"failedFiles"`
}

// ComputeSummary computes summary statistics from results
func ComputeSummary(results []FileResult) Summary {
	s := Summary{Files: len(results)}

	for _, res := range results {
		if res.Err != nil && !res.Regenerated && len(res.Findings) == 0 {
			s.FailedFiles++
		}
		for _, f := range res.Findings {
			s.TotalFindings++
			switch f.Severity {
			case rules.Error:
				s.Errors++
			case rules.Warning:
				s.Warnings++
			case rules.Suggestion:
				s.Suggestions++
			case rules.Info:
				s.Info++
			}
			switch f.Kind {
			case rules.LongMethod:
				s.LongMethods++
			case rules.LongParameterList:
				s.LongParameterLists++
			case rules.ComplexConditional:
				s.ComplexConditionals++
			}
		}
	}

	return s
}
