package syntax

import (
	"go/ast"
	"go/token"
)

// Lower converts the declarations of a parsed file into owned nodes.
// lineOffset is subtracted from every reported line, which lets the parser
// hide a synthetic package clause wrapped around a snippet.
func Lower(fset *token.FileSet, file *ast.File, lineOffset int) []Node {
	l := &lowerer{fset: fset, offset: lineOffset}

	decls := make([]Node, 0, len(file.Decls))
	for _, d := range file.Decls {
		decls = append(decls, l.decl(d))
	}
	return decls
}

type lowerer struct {
	fset   *token.FileSet
	offset int
}

func (l *lowerer) line(pos token.Pos) int {
	if !pos.IsValid() {
		return 0
	}
	line := l.fset.Position(pos).Line - l.offset
	if line < 1 {
		return 1
	}
	return line
}

func (l *lowerer) decl(d ast.Decl) Node {
	if fn, ok := d.(*ast.FuncDecl); ok && fn.Body != nil {
		return l.function(fn)
	}
	return &Other{Decl: d, Slots: l.slots(closures(d)), line: l.line(d.Pos())}
}

func (l *lowerer) function(fn *ast.FuncDecl) *FunctionDefinition {
	f := &FunctionDefinition{
		Name:       fn.Name.Name,
		Doc:        fn.Doc,
		Recv:       fn.Recv,
		TypeParams: fn.Type.TypeParams,
		Params:     lowerParams(fn.Type.Params),
		Results:    fn.Type.Results,
		Func:       fn.Type.Func,
		line:       l.line(fn.Pos()),
		decl:       fn,
	}
	if fn.Body != nil {
		f.Body = l.stmts(fn.Body.List)
		f.Lbrace = fn.Body.Lbrace
		f.Rbrace = fn.Body.Rbrace
	}
	return f
}

func lowerParams(fields *ast.FieldList) []Param {
	if fields == nil {
		return nil
	}

	var params []Param
	for _, field := range fields.List {
		if len(field.Names) == 0 {
			params = append(params, Param{Type: field.Type})
			continue
		}
		for _, name := range field.Names {
			params = append(params, Param{Name: name.Name, Type: field.Type})
		}
	}
	return params
}

func (l *lowerer) stmts(list []ast.Stmt) []Node {
	nodes := make([]Node, 0, len(list))
	for _, s := range list {
		nodes = append(nodes, l.stmt(s))
	}
	return nodes
}

func (l *lowerer) stmt(s ast.Stmt) Node {
	switch s := s.(type) {
	case *ast.IfStmt:
		return l.conditional(s)
	case *ast.LabeledStmt:
		return &Other{
			Stmt:  s,
			Slots: []*Slot{{Nodes: []Node{l.stmt(s.Stmt)}, stmt: &s.Stmt}},
			line:  l.line(s.Pos()),
		}
	}

	other := &Other{Stmt: s, line: l.line(s.Pos())}
	other.Slots = l.slots(append(closures(s), nestedLists(s)...))
	return other
}

func (l *lowerer) slots(slots []*Slot) []*Slot {
	for _, slot := range slots {
		slot.Nodes = l.stmts(*slot.target)
	}
	return slots
}

func (l *lowerer) conditional(s *ast.IfStmt) *Conditional {
	c := &Conditional{
		Init:     s.Init,
		Test:     s.Cond,
		Closures: l.slots(append(closures(s.Init), closures(s.Cond)...)),
		Body:     l.stmts(s.Body.List),
		If:       s.If,
		Lbrace:   s.Body.Lbrace,
		Rbrace:   s.Body.Rbrace,
		line:     l.line(s.If),
	}

	switch e := s.Else.(type) {
	case *ast.IfStmt:
		c.Else = &Else{Nodes: []Node{l.conditional(e)}, Chain: true}
	case *ast.BlockStmt:
		c.Else = &Else{Nodes: l.stmts(e.List), Lbrace: e.Lbrace, Rbrace: e.Rbrace}
	}
	return c
}

func blockSlot(b *ast.BlockStmt) *Slot {
	return &Slot{target: &b.List, block: b}
}

// nestedLists returns the statement lists directly nested in s
func nestedLists(s ast.Stmt) []*Slot {
	switch s := s.(type) {
	case *ast.BlockStmt:
		return []*Slot{blockSlot(s)}
	case *ast.ForStmt:
		return []*Slot{blockSlot(s.Body)}
	case *ast.RangeStmt:
		return []*Slot{blockSlot(s.Body)}
	case *ast.SwitchStmt:
		return clauseLists(s.Body)
	case *ast.TypeSwitchStmt:
		return clauseLists(s.Body)
	case *ast.SelectStmt:
		return clauseLists(s.Body)
	}
	return nil
}

func clauseLists(body *ast.BlockStmt) []*Slot {
	var slots []*Slot
	for _, clause := range body.List {
		switch cc := clause.(type) {
		case *ast.CaseClause:
			slots = append(slots, &Slot{target: &cc.Body})
		case *ast.CommClause:
			slots = append(slots, &Slot{target: &cc.Body})
		}
	}
	return slots
}

// closures returns the bodies of the function literals in n, outermost
// first. Literals inside a nested statement list or inside another literal
// belong to the statements of that list and are not returned.
func closures(n ast.Node) []*Slot {
	if n == nil {
		return nil
	}

	var slots []*Slot
	follow := make(map[*ast.FuncLit]*token.Pos)
	ast.Inspect(n, func(c ast.Node) bool {
		switch c := c.(type) {
		case *ast.CallExpr:
			if len(c.Args) > 0 {
				if lit, ok := c.Args[len(c.Args)-1].(*ast.FuncLit); ok {
					follow[lit] = &c.Rparen
				}
			}
		case *ast.FuncLit:
			slot := blockSlot(c.Body)
			slot.follow = follow[c]
			slots = append(slots, slot)
			return false
		case *ast.BlockStmt, *ast.CaseClause, *ast.CommClause:
			return false
		}
		return true
	})
	return slots
}
