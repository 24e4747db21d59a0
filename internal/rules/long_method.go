package rules

import (
	"fmt"

	"github.com/pthm/gosmell/internal/analyzer"
	"github.com/pthm/gosmell/internal/syntax"
)

// LongMethodRule checks for functions with too many top-level statements
type LongMethodRule struct{}

func (r *LongMethodRule) Name() string {
	return "long-method"
}

func (r *LongMethodRule) Description() string {
	return "Checks for functions whose body has too many top-level statements"
}

func (r *LongMethodRule) Config() RuleConfig {
	return RuleConfig{
		Kinds:    []syntax.Kind{syntax.KindFunction},
		Rewrites: true,
	}
}

func (r *LongMethodRule) Evaluate(node syntax.Node, m analyzer.Metrics, th Thresholds) (Finding, bool) {
	fn, ok := node.(*syntax.FunctionDefinition)
	if !ok {
		return Finding{}, false
	}

	maxLength := th.WithDefaults().MaxMethodLength
	if m.BodyLength <= maxLength {
		return Finding{}, false
	}

	name := fn.QualifiedName()
	return Finding{
		Kind:      LongMethod,
		Rule:      r.Name(),
		Subject:   name,
		Line:      fn.Line(),
		Pos:       fn.Pos(),
		Measured:  m.BodyLength,
		Threshold: maxLength,
		Message: fmt.Sprintf("Long method: %s is %d lines long. Consider breaking it into smaller functions.",
			name, m.BodyLength),
		Rewrite: RewriteSplit,
	}, true
}
