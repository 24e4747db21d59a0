package classifier

import (
	"github.com/pthm/gosmell/internal/rules"
)

// Classifier assigns a severity to a finding
type Classifier interface {
	// Classify returns the severity of f
	Classify(f rules.Finding) rules.Severity
}

// Apply returns a copy of findings with the severity set by c
func Apply(c Classifier, findings []rules.Finding) []rules.Finding {
	if len(findings) == 0 {
		return findings
	}

	out := make([]rules.Finding, len(findings))
	for i, f := range findings {
		f.Severity = c.Classify(f)
		out[i] = f
	}
	return out
}

// Default returns the classifier used when none is configured
func Default() Classifier {
	return NewHeuristicClassifier()
}
