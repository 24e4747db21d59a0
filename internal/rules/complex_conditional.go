package rules

import (
	"fmt"

	"github.com/pthm/gosmell/internal/analyzer"
	"github.com/pthm/gosmell/internal/syntax"
)

// ComplexConditionalRule checks for conditionals containing too many
// nested conditionals. Every conditional in the subtree is counted, so a
// nested conditional that is itself over the limit is reported again.
type ComplexConditionalRule struct{}

func (r *ComplexConditionalRule) Name() string {
	return "complex-conditional"
}

func (r *ComplexConditionalRule) Description() string {
	return "Checks for deeply nested conditionals"
}

func (r *ComplexConditionalRule) Config() RuleConfig {
	return RuleConfig{
		Kinds:    []syntax.Kind{syntax.KindConditional},
		Rewrites: true,
	}
}

func (r *ComplexConditionalRule) Evaluate(node syntax.Node, m analyzer.Metrics, th Thresholds) (Finding, bool) {
	cond, ok := node.(*syntax.Conditional)
	if !ok {
		return Finding{}, false
	}

	maxConditionals := th.WithDefaults().MaxConditionals
	if m.Conditionals <= maxConditionals {
		return Finding{}, false
	}

	rewrite := RewriteNone
	if CanFlatten(cond) {
		rewrite = RewriteFlatten
	}

	return Finding{
		Kind:      ComplexConditional,
		Rule:      r.Name(),
		Subject:   fmt.Sprintf("line %d", cond.Line()),
		Line:      cond.Line(),
		Pos:       cond.Pos(),
		Measured:  m.Conditionals,
		Threshold: maxConditionals,
		Message: fmt.Sprintf("Complex conditional at line %d with %d nested conditions. Consider simplifying the conditions.",
			cond.Line(), m.Conditionals),
		Rewrite: rewrite,
	}, true
}

// CanFlatten reports whether c starts with a nested conditional that can
// be merged into it. A nested conditional with its own init statement
// cannot be folded into a single test, and function literals in either
// header would not survive rebuilding the test.
func CanFlatten(c *syntax.Conditional) bool {
	if len(c.Body) == 0 || len(c.Closures) > 0 {
		return false
	}
	inner, ok := c.Body[0].(*syntax.Conditional)
	return ok && inner.Init == nil && len(inner.Closures) == 0
}
