package reporter

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/pthm/gosmell/internal/rules"
)

// ErrSevereFindings is returned by the terminal reporter when any finding
// has error severity
var ErrSevereFindings = errors.New("error-level code smells found")

// TerminalReporter outputs results to the terminal with colors
type TerminalReporter struct {
	w    io.Writer
	opts Options
}

// NewTerminalReporter creates a new terminal reporter
func NewTerminalReporter(w io.Writer, opts Options) *TerminalReporter {
	return &TerminalReporter{w: w, opts: opts}
}

// Report outputs results to the terminal
func (r *TerminalReporter) Report(results []FileResult) error {
	summary := ComputeSummary(results)
	if summary.TotalFindings == 0 && summary.FailedFiles == 0 {
		color.New(color.FgGreen).Fprintf(r.w, "✓ %s\n", NoSmellsMessage)
		return nil
	}

	for _, res := range results {
		if len(res.Findings) == 0 && res.Err == nil {
			continue
		}

		// Print file header
		fmt.Fprintln(r.w)
		color.New(color.FgWhite, color.Bold).Fprintf(r.w, "%s\n", filepath.Base(res.Path))
		color.New(color.FgHiBlack).Fprintf(r.w, "  %s\n", res.Path)

		if res.Err != nil && len(res.Findings) == 0 {
			color.New(color.FgRed).Fprintf(r.w, "  ✗ %s\n", res.Report)
			continue
		}

		for _, f := range res.Findings {
			r.printFinding(res.Path, f)
		}
		if res.Err != nil {
			color.New(color.FgRed).Fprintf(r.w, "  ✗ %v\n", res.Err)
		}

		if r.opts.ShowCode && res.Regenerated {
			r.printCode(res.Refactored)
		}
	}

	r.printSummary(summary)

	if summary.Errors > 0 {
		return ErrSevereFindings
	}
	return nil
}

func (r *TerminalReporter) printFinding(path string, f rules.Finding) {
	var severityColor *color.Color
	var icon string

	switch f.Severity {
	case rules.Error:
		severityColor = color.New(color.FgRed)
		icon = "✗"
	case rules.Warning:
		severityColor = color.New(color.FgYellow)
		icon = "⚠"
	case rules.Suggestion:
		severityColor = color.New(color.FgCyan)
		icon = "💡"
	default:
		severityColor = color.New(color.FgBlue)
		icon = "ℹ"
	}

	lineInfo := ""
	if f.Line > 0 {
		lineInfo = fmt.Sprintf(":%d", f.Line)
	}

	severityColor.Fprintf(r.w, "  %s ", icon)
	fmt.Fprintf(r.w, "%s%s", filepath.Base(path), lineInfo)
	color.New(color.FgHiBlack).Fprintf(r.w, " [%s]", f.Rule)
	fmt.Fprintln(r.w)
	fmt.Fprintf(r.w, "    %s\n", f.Message)
	if f.Rewrite != rules.RewriteNone {
		color.New(color.FgHiBlack).Fprintf(r.w, "    > rewrite: %s\n", f.Rewrite)
	}
}

func (r *TerminalReporter) printCode(src string) {
	if src == "" {
		return
	}
	fmt.Fprintln(r.w)
	color.New(color.FgHiBlack).Fprintln(r.w, "  Refactored:")
	for _, line := range strings.Split(strings.TrimRight(src, "\n"), "\n") {
		fmt.Fprintf(r.w, "    %s\n", line)
	}
}

func (r *TerminalReporter) printSummary(summary Summary) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, "─────────────────────────────────────")

	parts := []string{}

	if summary.Errors > 0 {
		parts = append(parts, color.RedString("%d errors", summary.Errors))
	}
	if summary.Warnings > 0 {
		parts = append(parts, color.YellowString("%d warnings", summary.Warnings))
	}
	if summary.Suggestions > 0 {
		parts = append(parts, color.CyanString("%d suggestions", summary.Suggestions))
	}
	if summary.Info > 0 {
		parts = append(parts, color.BlueString("%d info", summary.Info))
	}
	if summary.FailedFiles > 0 {
		parts = append(parts, color.RedString("%d unparsable", summary.FailedFiles))
	}

	fmt.Fprintf(r.w, "Found %d smells in %d files: ", summary.TotalFindings, summary.Files)
	for i, part := range parts {
		if i > 0 {
			fmt.Fprint(r.w, ", ")
		}
		fmt.Fprint(r.w, part)
	}
	fmt.Fprintln(r.w)
}
