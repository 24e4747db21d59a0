package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pthm/gosmell/internal/analyzer"
	"github.com/pthm/gosmell/internal/parser"
	"github.com/pthm/gosmell/internal/rules"
	"github.com/pthm/gosmell/internal/ui"
)

var (
	outlinePrint      bool
	outlineStatements bool
)

var outlineCmd = &cobra.Command{
	Use:   "outline <file>",
	Short: "Explore the function and conditional structure of a file",
	Long: `Displays an interactive tree of the functions and conditionals of a Go
file, with the smells found on each.

Controls:
  ↑/k, ↓/j    Navigate up/down
  ←/h, →/l    Collapse/expand nodes
  Enter/Space Toggle expand/collapse
  s           Toggle plain statements
  n           Jump to the next smell
  q           Quit

Examples:
  gosmell outline main.go
  gosmell outline --print --statements main.go
  gosmell outline --print - < main.go`,
	Args: cobra.ExactArgs(1),
	RunE: runOutline,
}

func init() {
	outlineCmd.Flags().BoolVar(&outlinePrint, "print", false, "Print tree to stdout instead of interactive mode")
	outlineCmd.Flags().BoolVar(&outlineStatements, "statements", false, "Include statements without conditionals")
	addThresholdFlags(outlineCmd)
	RootCmd.AddCommand(outlineCmd)
}

func runOutline(cmd *cobra.Command, args []string) error {
	u := GetUI()

	// Check if interactive mode is available (unless --print is used)
	if !outlinePrint && !u.IsInteractive() {
		return fmt.Errorf("outline command requires an interactive terminal (TTY). Use --print for non-interactive output")
	}

	path, source, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}
	tree, err := parser.Parse(source)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Print mode - output tree to stdout
	if outlinePrint {
		analyzer.PrintOutline(cmd.OutOrStdout(), tree, analyzer.OutlineOptions{Statements: outlineStatements})
		return nil
	}

	th, err := thresholds(cmd)
	if err != nil {
		return err
	}
	registry, err := cfg.Registry()
	if err != nil {
		return err
	}
	findings, _ := rules.Detect(tree, th, registry)

	model := ui.NewOutlineModel(tree, findings, path)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running outline viewer: %w", err)
	}
	return nil
}
