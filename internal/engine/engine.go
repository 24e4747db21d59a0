// Package engine runs a complete analysis of one source text: parse,
// detect, rewrite, regenerate and assemble the report.
package engine

import (
	"context"
	"io"
	"log/slog"

	"github.com/pthm/gosmell/internal/classifier"
	"github.com/pthm/gosmell/internal/codegen"
	"github.com/pthm/gosmell/internal/fixer"
	"github.com/pthm/gosmell/internal/parser"
	"github.com/pthm/gosmell/internal/reporter"
	"github.com/pthm/gosmell/internal/rules"
)

// Result is the outcome of one analysis
type Result struct {
	// Findings are in discovery order
	Findings []rules.Finding

	// Report is the assembled report, never empty
	Report string

	// Source is the regenerated program, valid when Regenerated is set
	Source      string
	Regenerated bool

	// Stats counts the rewrites applied to the tree
	Stats fixer.Stats

	// Err is a *parser.ParseError or *codegen.GenerationError
	Err error
}

type options struct {
	registry   *rules.Registry
	classifier classifier.Classifier
	logger     *slog.Logger
	rewrite    bool
}

// Option configures an analysis
type Option func(*options)

// WithRegistry sets the rules to evaluate
func WithRegistry(r *rules.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithClassifier sets the classifier that assigns finding severities
func WithClassifier(c classifier.Classifier) Option {
	return func(o *options) {
		o.classifier = c
	}
}

// WithLogger sets the logger for debug output
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithoutRewrite detects smells but leaves the tree untouched, so the
// regenerated source is the input reformatted
func WithoutRewrite() Option {
	return func(o *options) {
		o.rewrite = false
	}
}

func buildOptions(opts []Option) options {
	o := options{
		registry:   rules.DefaultRegistry(),
		classifier: classifier.Default(),
		rewrite:    true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.registry == nil {
		o.registry = rules.DefaultRegistry()
	}
	return o
}

// Analyze parses source, reports smells and rewrites the flagged nodes.
// It never panics and always returns a report. A parse failure yields a
// syntax error report and no regenerated source; a generation failure
// keeps the findings and drops the source.
func Analyze(source string, th rules.Thresholds, opts ...Option) *Result {
	o := buildOptions(opts)
	th = th.WithDefaults()
	log := o.logger

	tree, err := parser.Parse(source)
	if err != nil {
		log.Debug("parse failed", "error", err)
		return &Result{Report: reporter.ParseFailure(err), Err: err}
	}

	findings, plan := rules.Detect(tree, th, o.registry)
	if o.classifier != nil {
		findings = classifier.Apply(o.classifier, findings)
	}
	log.Debug("detection finished", "findings", len(findings), "rewrites", plan.Len())

	res := &Result{
		Findings: findings,
		Report:   reporter.Assemble(findings),
	}

	if o.rewrite {
		res.Stats = fixer.New(fixer.Options{Thresholds: th, Logger: log}).Apply(tree, plan)
		log.Debug("rewrites applied",
			"splits", res.Stats.Splits,
			"truncations", res.Stats.Truncations,
			"flattens", res.Stats.Flattens,
			"skipped", res.Stats.Skipped,
			"dropped", res.Stats.Dropped,
		)
	}

	src, err := codegen.Generate(tree)
	if err != nil {
		log.Warn("generation failed", "error", err)
		res.Err = err
		return res
	}
	res.Source = src
	res.Regenerated = true
	return res
}

// AnalyzeContext runs Analyze, giving up when ctx is done first. The
// abandoned analysis runs to completion in the background and its result
// is discarded.
func AnalyzeContext(ctx context.Context, source string, th rules.Thresholds, opts ...Option) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan *Result, 1)
	go func() {
		done <- Analyze(source, th, opts...)
	}()

	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
