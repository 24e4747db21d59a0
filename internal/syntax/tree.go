// Package syntax defines the owned syntax tree the analysis runs on.
//
// Only two kinds of Go constructs carry data the smell rules care about:
// function declarations and if statements. Everything else is kept as an
// opaque Other node that still exposes its nested statement lists, so a
// conditional inside a for loop, a switch clause, a labeled statement or a
// function literal is reachable.
package syntax

import (
	"go/ast"
	"go/token"
)

// Kind identifies the variant of a Node
type Kind int

const (
	KindFunction Kind = iota
	KindConditional
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindConditional:
		return "conditional"
	case KindOther:
		return "other"
	default:
		return "unknown"
	}
}

// Node is a closed union over FunctionDefinition, Conditional and Other.
type Node interface {
	Kind() Kind
	// Line is the 1-based line in the user's input
	Line() int
	Pos() token.Pos
	End() token.Pos
	node()
}

// Tree is the root of a parsed document and owns every node below it
type Tree struct {
	Fset *token.FileSet

	// Package is the package name, empty for snippets
	Package string

	// Snippet is set when the input had no package clause
	Snippet bool

	// Doc is the package doc comment
	Doc *ast.CommentGroup

	// Comments holds every comment of the input in source order
	Comments []*ast.CommentGroup

	// Decls holds the top-level declarations in source order
	Decls []Node
}

// Empty reports whether the tree has no declarations
func (t *Tree) Empty() bool {
	return len(t.Decls) == 0
}

// Param is a single declared parameter. Grouped declarations such as
// "a, b int" produce one Param per name sharing the same Type.
type Param struct {
	Name string
	Type ast.Expr
}

// FunctionDefinition is a top-level func declaration with a body
type FunctionDefinition struct {
	Name       string
	Doc        *ast.CommentGroup
	Recv       *ast.FieldList
	TypeParams *ast.FieldList
	Params     []Param
	Results    *ast.FieldList
	Body       []Node

	// Rewritten is set once a rewrite touched this function
	Rewritten bool

	Func   token.Pos
	Lbrace token.Pos
	Rbrace token.Pos
	line   int

	// decl is the declaration this node was lowered from
	decl *ast.FuncDecl
}

func (f *FunctionDefinition) Kind() Kind { return KindFunction }
func (f *FunctionDefinition) Line() int  { return f.line }
func (f *FunctionDefinition) node()      {}

func (f *FunctionDefinition) Pos() token.Pos { return f.Func }
func (f *FunctionDefinition) End() token.Pos { return after(f.Rbrace) }

// QualifiedName returns Name prefixed with the receiver type for methods
func (f *FunctionDefinition) QualifiedName() string {
	if f.Recv == nil || len(f.Recv.List) == 0 {
		return f.Name
	}
	if recv := receiverTypeName(f.Recv.List[0].Type); recv != "" {
		return recv + "." + f.Name
	}
	return f.Name
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.IndexExpr:
		return receiverTypeName(t.X)
	case *ast.IndexListExpr:
		return receiverTypeName(t.X)
	}
	return ""
}

// Conditional is an if statement
type Conditional struct {
	Init ast.Stmt
	Test ast.Expr
	Body []Node
	Else *Else

	// Closures are the bodies of function literals in Init and Test
	Closures []*Slot

	If     token.Pos
	Lbrace token.Pos
	Rbrace token.Pos
	line   int
}

func (c *Conditional) Kind() Kind { return KindConditional }
func (c *Conditional) Line() int  { return c.line }
func (c *Conditional) node()      {}

func (c *Conditional) Pos() token.Pos { return c.If }

func (c *Conditional) End() token.Pos {
	if c.Else == nil {
		return after(c.Rbrace)
	}
	if c.Else.Chain && len(c.Else.Nodes) == 1 {
		return c.Else.Nodes[0].End()
	}
	return after(c.Else.Rbrace)
}

// Else is the else branch of a Conditional. When Chain is set, Nodes holds
// exactly one *Conditional and is rendered as "else if".
type Else struct {
	Nodes []Node
	Chain bool

	Lbrace token.Pos
	Rbrace token.Pos
}

// Other is any statement or declaration the rules do not inspect
type Other struct {
	Stmt ast.Stmt
	Decl ast.Decl

	// Slots are the nested statement lists of Stmt, or the function
	// literal bodies of Decl
	Slots []*Slot

	// Rewritten is set once a rewrite touched a statement below Decl
	Rewritten bool

	line int
}

func (o *Other) Kind() Kind { return KindOther }
func (o *Other) Line() int  { return o.line }
func (o *Other) node()      {}

func (o *Other) Pos() token.Pos {
	if o.Decl != nil {
		return o.Decl.Pos()
	}
	return o.Stmt.Pos()
}

func (o *Other) End() token.Pos {
	if o.Decl != nil {
		return o.Decl.End()
	}
	if len(o.Slots) == 1 && o.Slots[0].stmt != nil && len(o.Slots[0].Nodes) == 1 {
		return o.Slots[0].Nodes[0].End()
	}
	return o.Stmt.End()
}

func after(pos token.Pos) token.Pos {
	if !pos.IsValid() {
		return token.NoPos
	}
	return pos + 1
}

// Slot is one nested statement list, such as a loop body, a case clause,
// a function literal body or the statement under a label. Raising writes
// Nodes back to where they came from.
type Slot struct {
	Nodes []Node

	// exactly one of target and stmt is set
	target *[]ast.Stmt
	stmt   *ast.Stmt

	// block is the block enclosing target, nil for case clauses
	block *ast.BlockStmt

	// follow is the closing paren of a call whose last argument is the
	// function literal of block
	follow *token.Pos
}

// NewFunction builds a synthetic function definition
func NewFunction(name string, line int) *FunctionDefinition {
	return &FunctionDefinition{Name: name, line: line}
}

// NewConditional builds a synthetic conditional
func NewConditional(test ast.Expr, body []Node, line int) *Conditional {
	return &Conditional{Test: test, Body: body, line: line}
}

// Children returns the direct child nodes of n in source order
func Children(n Node) []Node {
	switch n := n.(type) {
	case *FunctionDefinition:
		return n.Body
	case *Conditional:
		var children []Node
		for _, slot := range n.Closures {
			children = append(children, slot.Nodes...)
		}
		children = append(children, n.Body...)
		if n.Else != nil {
			children = append(children, n.Else.Nodes...)
		}
		return children
	case *Other:
		var children []Node
		for _, slot := range n.Slots {
			children = append(children, slot.Nodes...)
		}
		return children
	}
	return nil
}
