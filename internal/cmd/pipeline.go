package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/pthm/gosmell/internal/analyzer"
	"github.com/pthm/gosmell/internal/engine"
	"github.com/pthm/gosmell/internal/reporter"
	"github.com/pthm/gosmell/internal/rules"
	"github.com/pthm/gosmell/internal/ui"
)

// stdinPath is the argument that selects standard input
const stdinPath = "-"

// stdinName is the path reported for standard input
const stdinName = "<stdin>"

// Threshold flags shared by analyze and fix
var (
	maxMethodLength int
	maxConditionals int
	maxParams       int
)

func addThresholdFlags(c *cobra.Command) {
	c.Flags().IntVar(&maxMethodLength, "max-method-length", 0, "Maximum statements in a function body")
	c.Flags().IntVar(&maxConditionals, "max-conditionals", 0, "Maximum conditionals in one conditional subtree")
	c.Flags().IntVar(&maxParams, "max-params", 0, "Maximum parameters of a function")
}

// thresholds resolves the profile and configured thresholds, then applies
// the threshold flags that were set on c
func thresholds(c *cobra.Command) (rules.Thresholds, error) {
	th, err := cfg.ResolveThresholds()
	if err != nil {
		return rules.Thresholds{}, err
	}

	flags := c.Flags()
	if flags.Changed("max-method-length") {
		th.MaxMethodLength = maxMethodLength
	}
	if flags.Changed("max-conditionals") {
		th.MaxConditionals = maxConditionals
	}
	if flags.Changed("max-params") {
		th.MaxParams = maxParams
	}
	if err := th.Validate(); err != nil {
		return rules.Thresholds{}, fmt.Errorf("invalid flags: %w", err)
	}
	return th, nil
}

func engineOptions() ([]engine.Option, error) {
	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}
	return []engine.Option{
		engine.WithRegistry(registry),
		engine.WithLogger(logger),
	}, nil
}

// input is one source to analyze. Sources of files are read by the
// worker that analyzes them.
type input struct {
	path   string
	source string
	loaded bool
}

// collectInputs expands args into inputs in argument order, each
// directory contributing its files in lexical order. Files over the
// configured size limit are skipped with a warning.
func collectInputs(c *cobra.Command, args []string) ([]input, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var inputs []input
	seen := make(map[string]bool)
	for _, arg := range args {
		if arg == stdinPath {
			data, err := io.ReadAll(c.InOrStdin())
			if err != nil {
				return nil, fmt.Errorf("failed to read stdin: %w", err)
			}
			inputs = append(inputs, input{path: stdinName, source: string(data), loaded: true})
			continue
		}

		files, err := analyzer.DiscoverFiles(arg, cfg.Analysis.Exclude)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		for _, file := range files {
			if seen[file] {
				continue
			}
			seen[file] = true

			if tooLarge(file) {
				warn(fmt.Sprintf("skipping %s: larger than %d bytes", file, cfg.Analysis.MaxFileSize))
				continue
			}
			inputs = append(inputs, input{path: file})
		}
	}
	return inputs, nil
}

func tooLarge(path string) bool {
	if cfg.Analysis.MaxFileSize <= 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Size() > cfg.Analysis.MaxFileSize
}

// analysis is the outcome for one input. err is set when the input could
// not be read or its analysis timed out.
type analysis struct {
	input
	result *engine.Result
	err    error
}

func (a analysis) fileResult() reporter.FileResult {
	if a.result == nil {
		return reporter.FileResult{Path: a.path, Report: a.err.Error(), Err: a.err}
	}
	return reporter.FileResult{
		Path:        a.path,
		Findings:    a.result.Findings,
		Report:      a.result.Report,
		Refactored:  a.result.Source,
		Regenerated: a.result.Regenerated,
		Err:         a.result.Err,
	}
}

// analyzeInputs analyzes inputs in parallel, bounded by the configured
// worker count. Results keep the order of inputs. Per-file failures are
// recorded on the analysis; only cancellation of ctx fails the run.
func analyzeInputs(ctx context.Context, inputs []input, th rules.Thresholds, progress *ui.Progress, opts ...engine.Option) ([]analysis, error) {
	results := make([]analysis, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.WorkerCount())
	for i, in := range inputs {
		g.Go(func() error {
			progress.FileStart(in.path)
			a := analyzeOne(gctx, in, th, opts)
			results[i] = a

			smells := 0
			if a.result != nil {
				smells = len(a.result.Findings)
			}
			progress.FileDone(in.path, smells)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func analyzeOne(ctx context.Context, in input, th rules.Thresholds, opts []engine.Option) analysis {
	a := analysis{input: in}
	if !a.loaded {
		data, err := os.ReadFile(a.path)
		if err != nil {
			a.err = fmt.Errorf("failed to read %s: %w", a.path, err)
			return a
		}
		a.source = string(data)
		a.loaded = true
	}

	if cfg.Analysis.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Analysis.Timeout)
		defer cancel()
	}

	res, err := engine.AnalyzeContext(ctx, a.source, th, opts...)
	if err != nil {
		logger.Warn("analysis abandoned", "path", a.path, "error", err)
		a.err = fmt.Errorf("failed to analyze %s: %w", a.path, err)
		return a
	}
	logger.Debug("analyzed", "path", a.path, "findings", len(res.Findings), "rewrites", res.Stats.Applied())
	a.result = res
	return a
}

func fileResults(analyses []analysis) []reporter.FileResult {
	results := make([]reporter.FileResult, 0, len(analyses))
	for _, a := range analyses {
		results = append(results, a.fileResult())
	}
	return results
}

// warn prints a styled warning to the error stream
func warn(msg string) {
	u := GetUI()
	fmt.Fprintln(u.ErrWriter, u.Styles.Warning.Render(
		fmt.Sprintf("%s Warning: %s", u.Styles.IconWarning, msg),
	))
}

// readSource reads a single file argument, or stdin for "-"
func readSource(c *cobra.Command, path string) (string, string, error) {
	if path == stdinPath {
		data, err := io.ReadAll(c.InOrStdin())
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return stdinName, string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return path, string(data), nil
}
