package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/pthm/gosmell/internal/config"
	"github.com/pthm/gosmell/internal/logging"
	"github.com/pthm/gosmell/internal/reporter"
	"github.com/pthm/gosmell/internal/ui"
)

var (
	// Global flags
	configPath  string
	verbose     bool
	format      string
	profileName string
)

var (
	cfg      *config.Config
	logger   = logging.Discard()
	globalUI *ui.UI
)

// RootCmd is the gosmell command tree
var RootCmd = &cobra.Command{
	Use:   "gosmell",
	Short: "Detect and refactor code smells in Go source",
	Long: `gosmell parses Go source, reports long methods, long parameter
lists and deeply nested conditionals, and rewrites the flagged code.

Each function over the statement limit is split in two, parameter lists
over the limit are truncated and the first nested conditional of a
complex conditional is merged into its parent.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default .gosmell.yaml in the working or home directory)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	RootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", fmt.Sprintf("Output format %v", reporter.Formats))
	RootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "Threshold profile (default, strict, relaxed)")
}

// setup loads the configuration and builds the logger and UI shared by
// every subcommand. Flags override configured values.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}

	if format != "" {
		c.Output.Format = format
	}
	if profileName != "" {
		c.Profile = profileName
	}
	if verbose {
		c.Logging.Level = slog.LevelDebug.String()
	}
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	l, err := logging.New(cmd.ErrOrStderr(), c.Logging.Level, c.Logging.Format)
	if err != nil {
		return err
	}

	cfg = c
	logger = l
	globalUI = ui.New(cmd.OutOrStdout(), cmd.ErrOrStderr(), c.Output.Format)
	logger.Debug("configuration loaded", "profile", c.Profile, "format", c.Output.Format)
	return nil
}

// GetUI returns the UI built for the running command
func GetUI() *ui.UI {
	return globalUI
}
