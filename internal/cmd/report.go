package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/pthm/gosmell/internal/analyzer"
	"github.com/pthm/gosmell/internal/parser"
	"github.com/pthm/gosmell/internal/reporter"
	"github.com/pthm/gosmell/internal/rules"
)

var reportFunctions bool

var reportCmd = &cobra.Command{
	Use:   "report [path...]",
	Short: "Print structural metrics of Go source",
	Long: `Generate a metrics report for Go source without rewriting it.

This includes:
  - File sizes
  - Function, conditional and statement counts
  - Longest body, widest parameter list and deepest conditional
  - Number of smells at the active thresholds

Examples:
  gosmell report .
  gosmell report --functions main.go
  gosmell report --format json . > metrics.json`,
	Args: cobra.ArbitraryArgs,
	RunE: runReport,
}

func init() {
	addThresholdFlags(reportCmd)
	reportCmd.Flags().BoolVar(&reportFunctions, "functions", false, "List every function")
	RootCmd.AddCommand(reportCmd)
}

// fileMetrics is the report row of one file
type fileMetrics struct {
	Path    string            `json:"path"`
	Bytes   int               `json:"bytes"`
	Smells  int               `json:"smells"`
	Error   string            `json:"error,omitempty"`
	Summary *analyzer.Summary `json:"summary,omitempty"`
}

func runReport(cmd *cobra.Command, args []string) error {
	u := GetUI()

	inputs, err := collectInputs(cmd, args)
	if err != nil {
		return err
	}
	th, err := thresholds(cmd)
	if err != nil {
		return err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}

	spinner := u.StartSpinner(u.ErrWriter, fmt.Sprintf("Measuring %d files...", len(inputs)))
	rows := make([]fileMetrics, 0, len(inputs))
	for _, in := range inputs {
		rows = append(rows, measure(in, th, registry))
	}
	spinner.Stop()

	if cfg.Output.Format == reporter.FormatJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	w := cmd.OutOrStdout()
	color.New(color.FgCyan).Fprintln(w, "Code Metrics Report")
	color.New(color.FgCyan).Fprintln(w, "===================")
	fmt.Fprintf(w, "Thresholds: %d statements, %d conditionals, %d params\n\n",
		th.MaxMethodLength, th.MaxConditionals, th.MaxParams)

	renderFiles(w, rows)
	if reportFunctions {
		fmt.Fprintln(w)
		color.New(color.FgYellow).Fprintln(w, "Functions:")
		renderFunctions(w, rows)
	}
	return nil
}

func measure(in input, th rules.Thresholds, registry *rules.Registry) fileMetrics {
	row := fileMetrics{Path: in.path}
	source := in.source
	if !in.loaded {
		data, err := os.ReadFile(in.path)
		if err != nil {
			row.Error = err.Error()
			return row
		}
		source = string(data)
	}
	row.Bytes = len(source)

	tree, err := parser.Parse(source)
	if err != nil {
		row.Error = reporter.ParseFailure(err)
		return row
	}
	row.Summary = analyzer.ComputeMetrics(tree)
	findings, _ := rules.Detect(tree, th, registry)
	row.Smells = len(findings)
	return row
}

func renderFiles(w io.Writer, rows []fileMetrics) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Size", "Functions", "Conditionals", "Statements", "Max Body", "Max Params", "Max Nesting", "Smells"})

	var bytes uint64
	var functions, conditionals, statements, smells int
	for _, row := range rows {
		bytes += uint64(row.Bytes)
		if row.Summary == nil {
			tbl.AppendRow(table.Row{filepath.ToSlash(row.Path), humanize.Bytes(uint64(row.Bytes)), row.Error})
			continue
		}
		s := row.Summary
		functions += s.TotalFunctions
		conditionals += s.TotalConditionals
		statements += s.TotalStatements
		smells += row.Smells
		tbl.AppendRow(table.Row{
			filepath.ToSlash(row.Path), humanize.Bytes(uint64(row.Bytes)),
			s.TotalFunctions, s.TotalConditionals, s.TotalStatements,
			s.MaxBodyLength, s.MaxParams, s.MaxNesting, row.Smells,
		})
	}

	tbl.AppendFooter(table.Row{
		fmt.Sprintf("%s files", humanize.Comma(int64(len(rows)))), humanize.Bytes(bytes),
		functions, conditionals, statements, "", "", "", smells,
	})
	tbl.Render()
}

func renderFunctions(w io.Writer, rows []fileMetrics) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Function", "Line", "Statements", "Params", "Conditionals", "Max Nesting"})
	for _, row := range rows {
		if row.Summary == nil {
			continue
		}
		for _, fn := range row.Summary.Functions {
			tbl.AppendRow(table.Row{filepath.ToSlash(row.Path), fn.Name, fn.Line, fn.BodyLength, fn.ParamCount, fn.Conditionals, fn.MaxNesting})
		}
	}
	tbl.Render()
}
