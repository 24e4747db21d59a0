// Package codegen renders a syntax tree back to Go source.
package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/ast"
	"go/format"
	"go/printer"

	"github.com/pthm/gosmell/internal/syntax"
)

// ErrUnrenderable is wrapped by a GenerationError for nodes that cannot
// appear at the top level
var ErrUnrenderable = errors.New("node cannot be rendered as a declaration")

// GenerationError reports a tree the generator could not render
type GenerationError struct {
	// Decl is the index of the failing declaration, or -1 for the whole file
	Decl int
	Err  error
}

func (e *GenerationError) Error() string {
	if e.Decl < 0 {
		return fmt.Sprintf("generation failed: %v", e.Err)
	}
	return fmt.Sprintf("generation failed at declaration %d: %v", e.Decl, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

var printConfig = printer.Config{Mode: printer.UseSpaces | printer.TabIndent, Tabwidth: 8}

// Generate renders tree as gofmt-formatted source. An empty snippet tree
// renders as "". Functions no rewrite touched keep their comments; the
// others keep only their doc comment.
func Generate(tree *syntax.Tree) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = &GenerationError{Decl: -1, Err: fmt.Errorf("printer panic: %v", r)}
		}
	}()

	if tree == nil || (tree.Snippet && tree.Empty()) {
		return "", nil
	}

	var buf bytes.Buffer
	if !tree.Snippet {
		writeHeader(&buf, tree)
	}

	for i, n := range tree.Decls {
		decl := syntax.RaiseDecl(n)
		if decl == nil {
			return "", &GenerationError{Decl: i, Err: fmt.Errorf("%w: %s at line %d", ErrUnrenderable, n.Kind(), n.Line())}
		}
		if i > 0 {
			buf.WriteString("\n\n")
		}
		if err := printConfig.Fprint(&buf, tree.Fset, printable(tree, n, decl)); err != nil {
			return "", &GenerationError{Decl: i, Err: err}
		}
	}
	buf.WriteByte('\n')

	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return "", &GenerationError{Decl: -1, Err: err}
	}
	return string(formatted), nil
}

func writeHeader(buf *bytes.Buffer, tree *syntax.Tree) {
	if tree.Doc != nil {
		for _, c := range tree.Doc.List {
			buf.WriteString(c.Text)
			buf.WriteByte('\n')
		}
	}
	fmt.Fprintf(buf, "package %s\n\n", tree.Package)
}

// printable attaches the input's comments to decl unless n was rewritten,
// since moved statements no longer line up with the comment positions
func printable(tree *syntax.Tree, n syntax.Node, decl ast.Decl) any {
	switch n := n.(type) {
	case *syntax.FunctionDefinition:
		if n.Rewritten {
			return decl
		}
	case *syntax.Other:
		if n.Rewritten {
			return decl
		}
	}
	if len(tree.Comments) == 0 {
		return decl
	}
	return &printer.CommentedNode{Node: decl, Comments: tree.Comments}
}
