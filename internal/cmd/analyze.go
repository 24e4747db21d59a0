package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pthm/gosmell/internal/reporter"
	"github.com/pthm/gosmell/internal/ui"
)

var showCode bool

var analyzeCmd = &cobra.Command{
	Use:     "analyze [path...]",
	Aliases: []string{"lint"},
	Short:   "Detect code smells in Go source",
	Long: `Analyze Go files for long methods, long parameter lists and complex
conditionals. Directories are searched recursively; "-" reads standard
input.

Examples:
  gosmell analyze .
  gosmell analyze --max-method-length 20 ./internal
  gosmell analyze --show-code - < main.go
  gosmell analyze --format json . > smells.json`,
	Args: cobra.ArbitraryArgs,
	RunE: runAnalyze,
}

func init() {
	addThresholdFlags(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&showCode, "show-code", false, "Print the refactored source of each file")
	RootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	u := GetUI()

	progress := u.StartProgress()
	defer progress.Done(nil)

	progress.SetStage(ui.StageDiscover)
	inputs, err := collectInputs(cmd, args)
	if err != nil {
		return err
	}
	th, err := thresholds(cmd)
	if err != nil {
		return err
	}
	opts, err := engineOptions()
	if err != nil {
		return err
	}
	logger.Debug("analyzing", "files", len(inputs), "thresholds", th)

	progress.SetFileCount(len(inputs))
	progress.SetStage(ui.StageAnalyze)
	analyses, err := analyzeInputs(cmd.Context(), inputs, th, progress, opts...)
	if err != nil {
		return err
	}

	// Clear progress before the report is written
	progress.SetStage(ui.StageReport)
	progress.Done(nil)

	rep, err := reporter.New(cfg.Output.Format, cmd.OutOrStdout(), reporter.Options{
		ShowCode: showCode || cfg.Output.ShowCode,
	})
	if err != nil {
		return err
	}
	return rep.Report(fileResults(analyses))
}
