package analyzer

import (
	"fmt"
	"go/ast"
	"go/token"
	"io"
	"strings"

	"github.com/pthm/gosmell/internal/syntax"
)

// OutlineOptions controls PrintOutline
type OutlineOptions struct {
	// Statements includes plain statements that contain no conditionals
	Statements bool
}

// PrintOutline writes the tree structure of functions and conditionals
func PrintOutline(w io.Writer, tree *syntax.Tree, opts OutlineOptions) {
	for _, decl := range tree.Decls {
		if !opts.Statements && !showInOutline(decl) {
			continue
		}
		fmt.Fprintln(w, Label(decl))
		printChildren(w, decl, "", opts)
	}
}

func printChildren(w io.Writer, n syntax.Node, prefix string, opts OutlineOptions) {
	var children []syntax.Node
	for _, child := range syntax.Children(n) {
		if opts.Statements || showInOutline(child) {
			children = append(children, child)
		}
	}

	for i, child := range children {
		isLast := i == len(children)-1

		connector := "├─"
		childPrefix := prefix + "│ "
		if isLast {
			connector = "└─"
			childPrefix = prefix + "  "
		}

		fmt.Fprintf(w, "%s%s %s\n", prefix, connector, Label(child))
		printChildren(w, child, childPrefix, opts)
	}
}

// showInOutline reports whether n is a function or conditional, or
// contains a conditional
func showInOutline(n syntax.Node) bool {
	switch n.Kind() {
	case syntax.KindFunction, syntax.KindConditional:
		return true
	}
	return CountConditionals(n) > 0
}

// Label returns a one-line description of n
func Label(n syntax.Node) string {
	switch n := n.(type) {
	case *syntax.FunctionDefinition:
		return fmt.Sprintf("func %s (line %d, %d statements, %d params)",
			n.QualifiedName(), n.Line(), len(n.Body), len(n.Params))
	case *syntax.Conditional:
		return fmt.Sprintf("if (line %d, %d conditionals)", n.Line(), CountConditionals(n))
	case *syntax.Other:
		return fmt.Sprintf("%s (line %d)", otherLabel(n), n.Line())
	}
	return "unknown"
}

func otherLabel(o *syntax.Other) string {
	if o.Decl != nil {
		switch d := o.Decl.(type) {
		case *ast.GenDecl:
			return strings.ToLower(d.Tok.String())
		case *ast.FuncDecl:
			return "func " + d.Name.Name + " (no body)"
		}
		return "decl"
	}

	switch s := o.Stmt.(type) {
	case *ast.ForStmt, *ast.RangeStmt:
		return "for"
	case *ast.SwitchStmt, *ast.TypeSwitchStmt:
		return "switch"
	case *ast.SelectStmt:
		return "select"
	case *ast.BlockStmt:
		return "block"
	case *ast.LabeledStmt:
		return "label " + s.Label.Name
	case *ast.ReturnStmt:
		return "return"
	case *ast.AssignStmt:
		if s.Tok == token.DEFINE {
			return "define"
		}
		return "assign"
	case *ast.DeclStmt:
		return "decl"
	case *ast.DeferStmt:
		return "defer"
	case *ast.GoStmt:
		return "go"
	case *ast.ExprStmt:
		return "expr"
	}
	return "stmt"
}
