package rules

import (
	"github.com/pthm/gosmell/internal/analyzer"
	"github.com/pthm/gosmell/internal/syntax"
)

// Intent is a rewrite scheduled for a node during detection
type Intent struct {
	Node    syntax.Node
	Rewrite RewriteKind
}

// Plan collects the rewrite intents of one detection pass
type Plan struct {
	intents []Intent
	byNode  map[syntax.Node][]RewriteKind
}

// NewPlan creates an empty plan
func NewPlan() *Plan {
	return &Plan{byNode: make(map[syntax.Node][]RewriteKind)}
}

// Add schedules rewrite for node
func (p *Plan) Add(node syntax.Node, rewrite RewriteKind) {
	if rewrite == RewriteNone || p.Has(node, rewrite) {
		return
	}
	p.intents = append(p.intents, Intent{Node: node, Rewrite: rewrite})
	p.byNode[node] = append(p.byNode[node], rewrite)
}

// Has reports whether rewrite is scheduled for node
func (p *Plan) Has(node syntax.Node, rewrite RewriteKind) bool {
	for _, r := range p.byNode[node] {
		if r == rewrite {
			return true
		}
	}
	return false
}

// Intents returns the intents in discovery order
func (p *Plan) Intents() []Intent {
	return p.intents
}

// Len returns the number of scheduled rewrites
func (p *Plan) Len() int {
	return len(p.intents)
}

// Detect walks the tree once, evaluating every applicable rule on every
// node. It returns the findings in traversal order and the rewrites they
// schedule. The tree is not modified.
func Detect(tree *syntax.Tree, th Thresholds, registry *Registry) ([]Finding, *Plan) {
	th = th.WithDefaults()
	if registry == nil {
		registry = DefaultRegistry()
	}

	plan := NewPlan()
	var findings []Finding

	analyzer.Walk(tree, func(v analyzer.Visit) bool {
		for _, rule := range registry.Rules() {
			if !rule.Config().AppliesTo(v.Node.Kind()) {
				continue
			}

			finding, ok := rule.Evaluate(v.Node, v.Metrics, th)
			if !ok {
				continue
			}

			findings = append(findings, finding)
			plan.Add(v.Node, finding.Rewrite)
		}
		return true
	})

	return findings, plan
}
