package analyzer

import (
	"github.com/pthm/gosmell/internal/syntax"
)

// Metrics holds the structural measurements of a single node. Only the
// fields relevant to the node's kind are set.
type Metrics struct {
	// BodyLength is the number of direct statements in a function body
	BodyLength int
	// ParamCount is the number of declared parameters of a function
	ParamCount int
	// Conditionals is the number of conditionals in the subtree rooted at a
	// conditional, itself included
	Conditionals int
}

// Visit describes one step of a walk
type Visit struct {
	Node    syntax.Node
	Depth   int
	Metrics Metrics
}

// VisitFunc is called once per node. Returning false skips the children
// of the visited node.
type VisitFunc func(v Visit) bool

// Walk traverses the tree in pre-order and calls fn exactly once for every
// node. Metrics are computed before fn sees the node.
func Walk(tree *syntax.Tree, fn VisitFunc) {
	for _, decl := range tree.Decls {
		walk(decl, 0, fn)
	}
}

func walk(n syntax.Node, depth int, fn VisitFunc) {
	if !fn(Visit{Node: n, Depth: depth, Metrics: Measure(n)}) {
		return
	}
	for _, child := range syntax.Children(n) {
		walk(child, depth+1, fn)
	}
}

// Measure computes the metrics of n
func Measure(n syntax.Node) Metrics {
	switch n := n.(type) {
	case *syntax.FunctionDefinition:
		return Metrics{
			BodyLength: len(n.Body),
			ParamCount: len(n.Params),
		}
	case *syntax.Conditional:
		return Metrics{Conditionals: CountConditionals(n)}
	}
	return Metrics{}
}

// CountConditionals counts the conditionals in the subtree rooted at n,
// including n itself. Body, else branches and nested statement lists of
// other statements are all searched.
func CountConditionals(n syntax.Node) int {
	count := 0
	if n.Kind() == syntax.KindConditional {
		count++
	}
	for _, child := range syntax.Children(n) {
		count += CountConditionals(child)
	}
	return count
}
