package analyzer

import (
	"github.com/pthm/gosmell/internal/syntax"
)

// FunctionMetrics summarizes a single function
type FunctionMetrics struct {
	Name       string
	Line       int
	BodyLength int
	ParamCount int
	// Conditionals is the total number of conditionals anywhere in the body
	Conditionals int
	// MaxNesting is the largest conditional count of any single conditional
	// subtree in the body
	MaxNesting int
}

// Summary contains computed metrics about a syntax tree
type Summary struct {
	TotalDecls        int
	TotalFunctions    int
	TotalConditionals int
	TotalStatements   int
	MaxBodyLength     int
	MaxParams         int
	MaxNesting        int
	MaxDepth          int
	Functions         []FunctionMetrics
	NodesByKind       map[string]int
}

// ComputeMetrics computes metrics for a syntax tree
func ComputeMetrics(tree *syntax.Tree) *Summary {
	s := &Summary{
		TotalDecls:  len(tree.Decls),
		NodesByKind: make(map[string]int),
	}

	var current *FunctionMetrics
	Walk(tree, func(v Visit) bool {
		s.NodesByKind[v.Node.Kind().String()]++
		if v.Depth > s.MaxDepth {
			s.MaxDepth = v.Depth
		}
		if v.Depth > 0 {
			s.TotalStatements++
		}

		switch n := v.Node.(type) {
		case *syntax.FunctionDefinition:
			s.TotalFunctions++
			s.MaxBodyLength = max(s.MaxBodyLength, v.Metrics.BodyLength)
			s.MaxParams = max(s.MaxParams, v.Metrics.ParamCount)

			s.Functions = append(s.Functions, FunctionMetrics{
				Name:       n.QualifiedName(),
				Line:       n.Line(),
				BodyLength: v.Metrics.BodyLength,
				ParamCount: v.Metrics.ParamCount,
			})
			current = &s.Functions[len(s.Functions)-1]

		case *syntax.Conditional:
			s.TotalConditionals++
			s.MaxNesting = max(s.MaxNesting, v.Metrics.Conditionals)
			if current != nil {
				current.Conditionals++
				current.MaxNesting = max(current.MaxNesting, v.Metrics.Conditionals)
			}
		}
		return true
	})

	return s
}
