package reporter

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// TableReporter outputs every finding as a row of a single table
type TableReporter struct {
	w io.Writer
}

// NewTableReporter creates a new table reporter
func NewTableReporter(w io.Writer) *TableReporter {
	return &TableReporter{w: w}
}

// Report outputs results as a table
func (r *TableReporter) Report(results []FileResult) error {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(r.w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Line", "Kind", "Subject", "Measured", "Limit", "Severity", "Rewrite"})

	for _, res := range results {
		if res.Err != nil && len(res.Findings) == 0 {
			tbl.AppendRow(table.Row{res.Path, "", "", res.Report, "", "", "", ""})
			continue
		}
		for _, f := range res.Findings {
			tbl.AppendRow(table.Row{res.Path, f.Line, f.Kind, f.Subject, f.Measured, f.Threshold, f.Severity, f.Rewrite})
		}
	}

	summary := ComputeSummary(results)
	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d smells", summary.TotalFindings), "", "", "", "", "", "", ""})
	tbl.Render()
	return nil
}
