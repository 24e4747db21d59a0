package reporter

import (
	"fmt"
	"io"
	"strings"
)

// MarkdownReporter outputs results as a Markdown document
type MarkdownReporter struct {
	w    io.Writer
	opts Options
}

// NewMarkdownReporter creates a new Markdown reporter
func NewMarkdownReporter(w io.Writer, opts Options) *MarkdownReporter {
	return &MarkdownReporter{w: w, opts: opts}
}

// Report outputs results as Markdown
func (r *MarkdownReporter) Report(results []FileResult) error {
	_, err := io.WriteString(r.w, RenderMarkdown(results, r.opts))
	return err
}

// RenderMarkdown renders results as a Markdown document
func RenderMarkdown(results []FileResult, opts Options) string {
	var sb strings.Builder
	summary := ComputeSummary(results)

	sb.WriteString("# Code smell report\n\n")
	fmt.Fprintf(&sb, "%d smells in %d files", summary.TotalFindings, summary.Files)
	if summary.FailedFiles > 0 {
		fmt.Fprintf(&sb, ", %d unparsable", summary.FailedFiles)
	}
	sb.WriteString(".\n")

	for _, res := range results {
		fmt.Fprintf(&sb, "\n## %s\n\n", res.Path)

		if len(res.Findings) == 0 {
			fmt.Fprintf(&sb, "%s\n", res.Report)
			continue
		}

		sb.WriteString("| Line | Severity | Rule | Message |\n")
		sb.WriteString("|---:|---|---|---|\n")
		for _, f := range res.Findings {
			fmt.Fprintf(&sb, "| %d | %s | `%s` | %s |\n", f.Line, f.Severity, f.Rule, escapeCell(f.Message))
		}

		if res.Err != nil {
			fmt.Fprintf(&sb, "\n> %s\n", res.Err)
		}

		if opts.ShowCode && res.Regenerated && res.Refactored != "" {
			sb.WriteString("\n### Refactored\n\n```go\n")
			sb.WriteString(res.Refactored)
			if !strings.HasSuffix(res.Refactored, "\n") {
				sb.WriteByte('\n')
			}
			sb.WriteString("```\n")
		}
	}

	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
