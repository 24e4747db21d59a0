package rules

import (
	"fmt"

	"github.com/pthm/gosmell/internal/analyzer"
	"github.com/pthm/gosmell/internal/syntax"
)

// LongParameterListRule checks for functions declaring too many parameters.
// The scheduled rewrite drops the excess parameters, which breaks every
// caller; it exists to demonstrate the smell, not to fix it.
type LongParameterListRule struct{}

func (r *LongParameterListRule) Name() string {
	return "long-parameter-list"
}

func (r *LongParameterListRule) Description() string {
	return "Checks for functions with too many parameters"
}

func (r *LongParameterListRule) Config() RuleConfig {
	return RuleConfig{
		Kinds:    []syntax.Kind{syntax.KindFunction},
		Rewrites: true,
	}
}

func (r *LongParameterListRule) Evaluate(node syntax.Node, m analyzer.Metrics, th Thresholds) (Finding, bool) {
	fn, ok := node.(*syntax.FunctionDefinition)
	if !ok {
		return Finding{}, false
	}

	maxParams := th.WithDefaults().MaxParams
	if m.ParamCount <= maxParams {
		return Finding{}, false
	}

	name := fn.QualifiedName()
	return Finding{
		Kind:      LongParameterList,
		Rule:      r.Name(),
		Subject:   name,
		Line:      fn.Line(),
		Pos:       fn.Pos(),
		Measured:  m.ParamCount,
		Threshold: maxParams,
		Message: fmt.Sprintf("Long parameter list: %s has %d parameters. Consider reducing the number of parameters.",
			name, m.ParamCount),
		Rewrite: RewriteTruncate,
	}, true
}
