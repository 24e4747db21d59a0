package rules

import (
	"go/token"

	"github.com/pthm/gosmell/internal/analyzer"
	"github.com/pthm/gosmell/internal/syntax"
)

// Severity represents the severity level of a finding
type Severity int

const (
	Info Severity = iota
	Suggestion
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Suggestion:
		return "suggestion"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// SmellKind identifies the smell a finding reports
type SmellKind int

const (
	LongMethod SmellKind = iota
	LongParameterList
	ComplexConditional
)

func (k SmellKind) String() string {
	switch k {
	case LongMethod:
		return "LongMethod"
	case LongParameterList:
		return "LongParameterList"
	case ComplexConditional:
		return "ComplexConditional"
	default:
		return "Unknown"
	}
}

// RewriteKind identifies the tree rewrite scheduled for a finding
type RewriteKind int

const (
	RewriteNone RewriteKind = iota
	RewriteSplit
	RewriteTruncate
	RewriteFlatten
)

func (r RewriteKind) String() string {
	switch r {
	case RewriteSplit:
		return "split"
	case RewriteTruncate:
		return "truncate"
	case RewriteFlatten:
		return "flatten"
	default:
		return "none"
	}
}

// Finding is one detected smell. Findings are values and are never
// modified after detection.
type Finding struct {
	Kind     SmellKind
	Rule     string
	Severity Severity

	// Subject is the function name, or "line N" for conditionals
	Subject   string
	Line      int
	Measured  int
	Threshold int
	Message   string

	// Pos is the position of the flagged node. It tells apart distinct
	// nodes that share a line.
	Pos token.Pos

	// Rewrite is the rewrite scheduled for the flagged node
	Rewrite RewriteKind
}

// RuleConfig defines which nodes a rule inspects
type RuleConfig struct {
	// Kinds lists the node kinds this rule is evaluated on
	Kinds []syntax.Kind

	// Rewrites indicates the rule can schedule a tree rewrite
	Rewrites bool
}

// AppliesTo reports whether the rule inspects nodes of kind k
func (c RuleConfig) AppliesTo(k syntax.Kind) bool {
	for _, kind := range c.Kinds {
		if kind == k {
			return true
		}
	}
	return false
}

// Rule defines the interface for smell rules
type Rule interface {
	// Name returns the unique identifier for this rule
	Name() string

	// Description returns a human-readable description
	Description() string

	// Config returns the rule's configuration
	Config() RuleConfig

	// Evaluate maps a node's metrics and the thresholds to a finding.
	// It must not modify the node.
	Evaluate(node syntax.Node, m analyzer.Metrics, th Thresholds) (Finding, bool)
}
