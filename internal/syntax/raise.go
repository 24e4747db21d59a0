package syntax

import (
	"go/ast"
)

// Raise converts a node back into a go/ast declaration or statement.
// Other nodes write their slots back into the statement they own, so a
// tree is meant to be raised once, right before printing.
func Raise(n Node) ast.Node {
	switch n := n.(type) {
	case *FunctionDefinition:
		return raiseFunction(n)
	case *Conditional:
		return raiseConditional(n)
	case *Other:
		return raiseOther(n)
	}
	return nil
}

// RaiseDecl raises a top-level node. It returns nil for nodes that cannot
// appear at the top level.
func RaiseDecl(n Node) ast.Decl {
	decl, _ := Raise(n).(ast.Decl)
	return decl
}

func raiseFunction(f *FunctionDefinition) *ast.FuncDecl {
	if f.decl != nil && !f.Rewritten {
		f.decl.Body.List = raiseStmts(f.Body)
		return f.decl
	}
	return &ast.FuncDecl{
		Doc:  f.Doc,
		Recv: f.Recv,
		Name: ast.NewIdent(f.Name),
		Type: &ast.FuncType{
			Func:       f.Func,
			TypeParams: f.TypeParams,
			Params:     RaiseParams(f.Params),
			Results:    f.Results,
		},
		Body: &ast.BlockStmt{
			Lbrace: f.Lbrace,
			List:   raiseStmts(f.Body),
			Rbrace: f.Rbrace,
		},
	}
}

// RaiseParams regroups params into a field list. Consecutive named params
// sharing the same type expression are grouped back into one field.
func RaiseParams(params []Param) *ast.FieldList {
	fields := &ast.FieldList{}
	for _, p := range params {
		if p.Name == "" {
			fields.List = append(fields.List, &ast.Field{Type: p.Type})
			continue
		}

		if n := len(fields.List); n > 0 {
			last := fields.List[n-1]
			if len(last.Names) > 0 && last.Type == p.Type {
				last.Names = append(last.Names, ast.NewIdent(p.Name))
				continue
			}
		}
		fields.List = append(fields.List, &ast.Field{
			Names: []*ast.Ident{ast.NewIdent(p.Name)},
			Type:  p.Type,
		})
	}
	return fields
}

func raiseConditional(c *Conditional) *ast.IfStmt {
	raiseSlots(c.Closures)
	s := &ast.IfStmt{
		If:   c.If,
		Init: c.Init,
		Cond: c.Test,
		Body: &ast.BlockStmt{
			Lbrace: c.Lbrace,
			List:   raiseStmts(c.Body),
			Rbrace: c.Rbrace,
		},
	}

	if c.Else == nil {
		return s
	}
	if c.Else.Chain && len(c.Else.Nodes) == 1 {
		if chained, ok := c.Else.Nodes[0].(*Conditional); ok {
			s.Else = raiseConditional(chained)
			return s
		}
	}
	s.Else = &ast.BlockStmt{
		Lbrace: c.Else.Lbrace,
		List:   raiseStmts(c.Else.Nodes),
		Rbrace: c.Else.Rbrace,
	}
	return s
}

func raiseOther(o *Other) ast.Node {
	raiseSlots(o.Slots)
	if o.Decl != nil {
		return o.Decl
	}
	return o.Stmt
}

func raiseSlots(slots []*Slot) {
	for _, slot := range slots {
		list := raiseStmts(slot.Nodes)
		if slot.target != nil {
			*slot.target = list
			continue
		}
		switch len(list) {
		case 0:
			*slot.stmt = &ast.EmptyStmt{Implicit: true}
		case 1:
			*slot.stmt = list[0]
		default:
			*slot.stmt = &ast.BlockStmt{List: list}
		}
	}
}

func raiseStmts(nodes []Node) []ast.Stmt {
	list := make([]ast.Stmt, 0, len(nodes))
	for _, n := range nodes {
		if s, ok := Raise(n).(ast.Stmt); ok {
			list = append(list, s)
		}
	}
	return list
}
