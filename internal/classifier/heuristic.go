package classifier

import (
	"github.com/pthm/gosmell/internal/rules"
)

// Ratio bounds of the default heuristic
const (
	DefaultWarningRatio = 1.5
	DefaultErrorRatio   = 2.0
)

// HeuristicClassifier grades a finding by how far its measured value
// overshoots the threshold
type HeuristicClassifier struct {
	// WarningRatio is the measured/threshold ratio above which a finding
	// is a warning rather than a suggestion
	WarningRatio float64

	// ErrorRatio is the ratio above which a finding is an error
	ErrorRatio float64
}

// NewHeuristicClassifier creates a new heuristic classifier
func NewHeuristicClassifier() *HeuristicClassifier {
	return &HeuristicClassifier{
		WarningRatio: DefaultWarningRatio,
		ErrorRatio:   DefaultErrorRatio,
	}
}

// Classify grades f. Truncating a parameter list breaks every caller, so
// long parameter lists are never graded below a warning.
func (c *HeuristicClassifier) Classify(f rules.Finding) rules.Severity {
	if f.Threshold <= 0 {
		return rules.Info
	}

	ratio := float64(f.Measured) / float64(f.Threshold)

	severity := rules.Suggestion
	switch {
	case ratio > c.ErrorRatio:
		severity = rules.Error
	case ratio > c.WarningRatio:
		severity = rules.Warning
	}

	if f.Kind == rules.LongParameterList && severity < rules.Warning {
		severity = rules.Warning
	}
	return severity
}
