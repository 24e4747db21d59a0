// Package fixer applies the rewrites scheduled during detection to a
// syntax tree.
package fixer

import (
	"errors"
	"go/ast"
	"go/token"
	"io"
	"log/slog"

	"github.com/pthm/gosmell/internal/rules"
	"github.com/pthm/gosmell/internal/syntax"
)

var errNotFlattenable = errors.New("body does not start with a conditional without init")

// PartSuffix is appended to the name of the function created by a split
const PartSuffix = "_part2"

// Options configures the fixer behavior
type Options struct {
	Thresholds rules.Thresholds
	Logger     *slog.Logger
}

// Stats counts the rewrites applied by one pass
type Stats struct {
	Splits      int
	Truncations int
	Flattens    int

	// Skipped counts intents that were reached but could not be applied
	Skipped int

	// Dropped counts intents on nodes removed by an earlier rewrite
	Dropped int
}

// Applied returns the number of rewrites that changed the tree
func (s Stats) Applied() int {
	return s.Splits + s.Truncations + s.Flattens
}

// Fixer rewrites a tree according to a detection plan
type Fixer struct {
	opts Options
	log  *slog.Logger
}

// New creates a new Fixer
func New(opts Options) *Fixer {
	opts.Thresholds = opts.Thresholds.WithDefaults()
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fixer{opts: opts, log: log}
}

// Apply performs every rewrite in plan, top-down in source order. Nodes
// created by a rewrite are never evaluated again. Intents whose node was
// consumed by an enclosing rewrite are dropped.
func (f *Fixer) Apply(tree *syntax.Tree, plan *rules.Plan) Stats {
	var st Stats
	if tree == nil || plan == nil || plan.Len() == 0 {
		return st
	}

	decls := make([]syntax.Node, 0, len(tree.Decls))
	for _, decl := range tree.Decls {
		switch d := decl.(type) {
		case *syntax.FunctionDefinition:
			decls = append(decls, f.function(tree.Fset, d, plan, &st)...)
		case *syntax.Other:
			before := st.Applied()
			f.node(tree.Fset, d, plan, &st)
			if st.Applied() > before {
				d.Rewritten = true
				syntax.Tighten(tree.Fset, d)
			}
			decls = append(decls, d)
		default:
			decls = append(decls, decl)
		}
	}
	tree.Decls = decls

	st.Dropped = plan.Len() - st.Applied() - st.Skipped
	if st.Dropped > 0 {
		f.log.Debug("dropped rewrites on consumed nodes", "count", st.Dropped)
	}
	return st
}

// function rewrites fn and returns it, followed by its second part when
// fn was split
func (f *Fixer) function(fset *token.FileSet, fn *syntax.FunctionDefinition, plan *rules.Plan, st *Stats) []syntax.Node {
	before := st.Applied()
	if plan.Has(fn, rules.RewriteTruncate) {
		f.truncate(fn)
		st.Truncations++
	}

	out := []syntax.Node{fn}
	if plan.Has(fn, rules.RewriteSplit) {
		part, err := f.split(fset, fn)
		if err != nil {
			f.log.Warn("split skipped", "function", fn.QualifiedName(), "error", err)
			st.Skipped++
		} else {
			out = append(out, part)
			st.Splits++
		}
	}

	for _, n := range out {
		part := n.(*syntax.FunctionDefinition)
		part.Body = f.stmts(fset, part.Body, plan, st)
	}
	if st.Applied() > before {
		for _, n := range out {
			n.(*syntax.FunctionDefinition).Rewritten = true
			syntax.Tighten(fset, n)
		}
	}
	return out
}

func (f *Fixer) truncate(fn *syntax.FunctionDefinition) {
	limit := f.opts.Thresholds.MaxParams
	if len(fn.Params) <= limit {
		return
	}
	f.log.Debug("truncating parameters", "function", fn.QualifiedName(), "from", len(fn.Params), "to", limit)
	fn.Params = append([]syntax.Param(nil), fn.Params[:limit]...)
}

// split keeps the first SplitPoint statements in fn and moves the rest
// into a new function with the same signature, named fn.Name+PartSuffix
func (f *Fixer) split(fset *token.FileSet, fn *syntax.FunctionDefinition) (*syntax.FunctionDefinition, error) {
	at := min(f.opts.Thresholds.SplitPoint(), len(fn.Body))

	part, err := syntax.CloneSignature(fset, fn)
	if err != nil {
		return nil, err
	}
	part.Name = fn.Name + PartSuffix

	kept := append([]syntax.Node(nil), fn.Body[:at]...)
	moved := append([]syntax.Node(nil), fn.Body[at:]...)

	part.Body = moved
	part.Rbrace = fn.Rbrace
	if len(moved) > 0 {
		part.Lbrace = moved[0].Pos()
	}

	fn.Body = kept
	if len(kept) > 0 {
		fn.Rbrace = kept[len(kept)-1].End()
	} else {
		fn.Rbrace = fn.Lbrace
	}

	f.log.Debug("split function", "function", fn.QualifiedName(), "kept", len(kept), "moved", len(moved))
	return part, nil
}

func (f *Fixer) stmts(fset *token.FileSet, nodes []syntax.Node, plan *rules.Plan, st *Stats) []syntax.Node {
	out := make([]syntax.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, f.node(fset, n, plan, st))
	}
	return out
}

func (f *Fixer) node(fset *token.FileSet, n syntax.Node, plan *rules.Plan, st *Stats) syntax.Node {
	switch n := n.(type) {
	case *syntax.Conditional:
		c := n
		if plan.Has(c, rules.RewriteFlatten) {
			merged, err := f.flatten(fset, c)
			if err != nil {
				f.log.Warn("flatten skipped", "line", c.Line(), "error", err)
				st.Skipped++
			} else {
				c = merged
				st.Flattens++
			}
		}
		for _, slot := range c.Closures {
			slot.Nodes = f.stmts(fset, slot.Nodes, plan, st)
		}
		c.Body = f.stmts(fset, c.Body, plan, st)
		if c.Else != nil {
			c.Else.Nodes = f.stmts(fset, c.Else.Nodes, plan, st)
		}
		return c
	case *syntax.Other:
		for _, slot := range n.Slots {
			slot.Nodes = f.stmts(fset, slot.Nodes, plan, st)
		}
		return n
	}
	return n
}

func (f *Fixer) flatten(fset *token.FileSet, c *syntax.Conditional) (*syntax.Conditional, error) {
	if !rules.CanFlatten(c) {
		return nil, errNotFlattenable
	}
	merged, err := merge(fset, c)
	if err != nil {
		return nil, err
	}
	f.log.Debug("flattened conditional", "line", c.Line())
	return merged, nil
}

// merge folds the leading nested conditional of c into c. The result
// tests both conditions, runs the inner body and keeps the outer else.
// Statements after the inner conditional and the inner else are discarded.
func merge(fset *token.FileSet, c *syntax.Conditional) (*syntax.Conditional, error) {
	inner := c.Body[0].(*syntax.Conditional)

	test, err := conjoin(fset, c.Test, inner.Test)
	if err != nil {
		return nil, err
	}

	merged := syntax.NewConditional(test, inner.Body, c.Line())
	merged.Init = c.Init
	merged.Else = c.Else
	merged.If = c.If
	merged.Lbrace = inner.Lbrace
	merged.Rbrace = inner.Rbrace
	return merged, nil
}

// conjoin returns x && y as a fresh expression, parenthesizing operands
// that bind looser than &&
func conjoin(fset *token.FileSet, x, y ast.Expr) (ast.Expr, error) {
	left, err := operand(fset, x)
	if err != nil {
		return nil, err
	}
	right, err := operand(fset, y)
	if err != nil {
		return nil, err
	}
	return syntax.ParseExpr(fset, left+" && "+right)
}

func operand(fset *token.FileSet, e ast.Expr) (string, error) {
	src, err := syntax.FormatNode(fset, e)
	if err != nil {
		return "", err
	}
	if b, ok := e.(*ast.BinaryExpr); ok && b.Op.Precedence() < token.LAND.Precedence() {
		return "(" + src + ")", nil
	}
	return src, nil
}
