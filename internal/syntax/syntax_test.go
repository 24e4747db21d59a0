package syntax

import (
	"go/ast"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lower(t *testing.T, src string, offset int) (*token.FileSet, *ast.File, []Node) {
	t.Helper()
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments|parser.SkipObjectResolution)
	require.NoError(t, err)
	return fset, file, Lower(fset, file, offset)
}

func TestLowerFunction(t *testing.T) {
	src := `package p

type Server struct{}

func (s *Server) Handle(a, b int, c string, _ bool) error {
	println(a)
	return nil
}
`
	_, _, decls := lower(t, src, 0)
	require.Len(t, decls, 2)

	assert.Equal(t, KindOther, decls[0].Kind())
	assert.Equal(t, 3, decls[0].Line())

	fn, ok := decls[1].(*FunctionDefinition)
	require.True(t, ok)
	assert.Equal(t, "Handle", fn.Name)
	assert.Equal(t, "Server.Handle", fn.QualifiedName())
	assert.Equal(t, 5, fn.Line())
	assert.Len(t, fn.Body, 2)

	var names []string
	for _, p := range fn.Params {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"a", "b", "c", "_"}, names)
	assert.Same(t, fn.Params[0].Type, fn.Params[1].Type)
}

func TestLowerLineOffset(t *testing.T) {
	src := "package snippet\nfunc f() {\n\tif true {\n\t}\n}\n"
	_, _, decls := lower(t, src, 1)
	fn := decls[0].(*FunctionDefinition)
	assert.Equal(t, 1, fn.Line())
	assert.Equal(t, 2, fn.Body[0].Line())
}

func TestLowerFunctionWithoutBody(t *testing.T) {
	_, _, decls := lower(t, "package p\n\nfunc external(x int)\n", 0)
	require.Len(t, decls, 1)
	assert.Equal(t, KindOther, decls[0].Kind())
}

func TestLowerReachesNestedLists(t *testing.T) {
	src := `package p

func f(xs []int, ch chan int) {
	for _, x := range xs {
		if x > 0 {
		}
	}
	switch len(xs) {
	case 0:
		if xs == nil {
		}
	default:
	}
	select {
	case v := <-ch:
		if v > 0 {
		}
	}
}
`
	_, _, decls := lower(t, src, 0)
	fn := decls[0].(*FunctionDefinition)
	require.Len(t, fn.Body, 3)

	for _, stmt := range fn.Body {
		require.Equal(t, KindOther, stmt.Kind())
		var conditionals int
		for _, child := range Children(stmt) {
			if child.Kind() == KindConditional {
				conditionals++
			}
		}
		assert.Equal(t, 1, conditionals, "line %d", stmt.Line())
	}

	sw := fn.Body[1].(*Other)
	assert.Len(t, sw.Slots, 2)
}

func TestLowerElseChain(t *testing.T) {
	src := `package p

func f(x int) {
	if x > 1 {
		println(1)
	} else if x > 0 {
		println(0)
	} else {
		println(-1)
	}
}
`
	fset, _, decls := lower(t, src, 0)
	c := decls[0].(*FunctionDefinition).Body[0].(*Conditional)

	require.NotNil(t, c.Else)
	assert.True(t, c.Else.Chain)
	require.Len(t, c.Else.Nodes, 1)

	chained := c.Else.Nodes[0].(*Conditional)
	require.NotNil(t, chained.Else)
	assert.False(t, chained.Else.Chain)
	assert.Equal(t, 6, chained.Line())

	assert.Len(t, Children(c), 2)
	assert.Equal(t, 10, fset.Position(c.End()).Line)
	assert.Equal(t, fset.Position(chained.End()), fset.Position(c.End()))
}

func countConditionals(n Node) int {
	count := 0
	if n.Kind() == KindConditional {
		count++
	}
	for _, child := range Children(n) {
		count += countConditionals(child)
	}
	return count
}

func TestLowerReachesFunctionLiterals(t *testing.T) {
	src := `package p

var handler = func() {
	if ready {
	}
}

func f(run func(func())) error {
	run(func() {
		if a {
		}
	})
	go func() {
		if b {
		}
	}()
	defer func() {
		if c {
		}
	}()
	cb := func() {
		if d {
		}
	}
	if err := check(func() bool {
		if e {
		}
		return true
	}); err != nil {
		return err
	}
	for _, g := range filters(func() {
		if h {
		}
	}) {
		if g {
		}
	}
	return func() error {
		if i {
		}
		return nil
	}()
}
`
	_, _, decls := lower(t, src, 0)
	require.Len(t, decls, 2)

	assert.Equal(t, 1, countConditionals(decls[0]))

	fn := decls[1].(*FunctionDefinition)
	require.Len(t, fn.Body, 7)
	for i, want := range []int{1, 1, 1, 1, 2, 2, 1} {
		assert.Equal(t, want, countConditionals(fn.Body[i]), "statement %d", i)
	}

	cond := fn.Body[4].(*Conditional)
	require.Len(t, cond.Closures, 1)
	assert.Equal(t, KindConditional, Children(cond)[0].Kind())

	loop := fn.Body[5].(*Other)
	require.Len(t, loop.Slots, 2)
	assert.Equal(t, 33, loop.Slots[0].Nodes[0].Line())
	assert.Equal(t, 36, loop.Slots[1].Nodes[0].Line())
}

func TestLowerLiteralsInsideLiterals(t *testing.T) {
	src := `package p

func f() {
	run(func() {
		run(func() {
			if a {
			}
		})
	})
}
`
	_, _, decls := lower(t, src, 0)
	fn := decls[0].(*FunctionDefinition)

	outer := fn.Body[0].(*Other)
	require.Len(t, outer.Slots, 1)
	inner := outer.Slots[0].Nodes[0].(*Other)
	require.Len(t, inner.Slots, 1)
	assert.Equal(t, KindConditional, inner.Slots[0].Nodes[0].Kind())
	assert.Equal(t, 1, countConditionals(fn))
}

func TestLowerLabeledStatements(t *testing.T) {
	src := `package p

func f(x int) {
L:
	if x > 0 {
		if x > 1 {
		}
	} else if x < 0 {
		goto L
	}
Outer:
	for {
		if x > 2 {
			break Outer
		}
	}
}
`
	_, _, decls := lower(t, src, 0)
	fn := decls[0].(*FunctionDefinition)
	require.Len(t, fn.Body, 2)

	labeled := fn.Body[0].(*Other)
	require.Len(t, labeled.Slots, 1)
	cond, ok := labeled.Slots[0].Nodes[0].(*Conditional)
	require.True(t, ok)
	assert.Equal(t, 5, cond.Line())
	assert.Equal(t, 4, labeled.Line())
	assert.Equal(t, 3, countConditionals(labeled))
	assert.Equal(t, cond.End(), labeled.End())

	loop := fn.Body[1].(*Other)
	assert.Equal(t, 1, countConditionals(loop))
}

func TestRaiseRoundTrip(t *testing.T) {
	src := `package p

// f does things
func f(a, b int, c string) {
	// loop
	for i := 0; i < a; i++ {
		if i > b {
			println(c)
		} else if i == b {
			println(i)
		}
	}
}

var x = 1
`
	fset, file, decls := lower(t, src, 0)

	file.Decls = nil
	for _, d := range decls {
		file.Decls = append(file.Decls, RaiseDecl(d))
	}

	out, err := FormatNode(fset, file)
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(src), strings.TrimSpace(out))
}

func TestRaiseWritesBackNestedStatements(t *testing.T) {
	src := `package p

var handler = func() {
	if ready {
		println("ready")
	}
}

func f(run func(func())) {
L:
	if a {
		println("a")
	}
	run(func() {
		if b {
			println("b")
		}
	})
}
`
	fset, file, decls := lower(t, src, 0)

	fn := decls[1].(*FunctionDefinition)
	labeled := fn.Body[0].(*Other)
	labeled.Slots[0].Nodes[0].(*Conditional).Test = ast.NewIdent("x")
	call := fn.Body[1].(*Other)
	call.Slots[0].Nodes[0].(*Conditional).Test = ast.NewIdent("y")
	decls[0].(*Other).Slots[0].Nodes[0].(*Conditional).Test = ast.NewIdent("z")

	file.Decls = nil
	for _, d := range decls {
		file.Decls = append(file.Decls, RaiseDecl(d))
	}

	out, err := FormatNode(fset, file)
	require.NoError(t, err)
	assert.Contains(t, out, "if z {")
	assert.Contains(t, out, "L:\n\tif x {")
	assert.Contains(t, out, "\t\tif y {")
}

func TestTighten(t *testing.T) {
	src := `package p

func f(a, b bool) {
	// first
	// second
	println(1)
	if a {
		if b {
			println(2)
		}
	}
	println(3)
}
`
	fset, _, decls := lower(t, src, 0)
	fn := decls[0].(*FunctionDefinition)

	// drop the trailing statement and the nested conditional
	fn.Body = fn.Body[:2]
	outer := fn.Body[1].(*Conditional)
	inner := outer.Body[0].(*Conditional)
	outer.Body = inner.Body
	fn.Rewritten = true

	Tighten(fset, fn)
	assert.Equal(t, 6, fset.Position(fn.Lbrace).Line)
	assert.Equal(t, 9, fset.Position(fn.Rbrace).Line)
	assert.Equal(t, 9, fset.Position(outer.Lbrace).Line)
	assert.Equal(t, 9, fset.Position(outer.Rbrace).Line)

	out, err := FormatNode(fset, RaiseDecl(fn))
	require.NoError(t, err)
	assert.Equal(t, "func f(a, b bool) {\n\tprintln(1)\n\tif a {\n\t\tprintln(2)\n\t}\n}", out)
}

func TestTightenKeepsAdjacentBraces(t *testing.T) {
	src := `package p

func f(a bool) {
	if a {
		println(1)
	}
	println(2)
}
`
	fset, _, decls := lower(t, src, 0)
	fn := decls[0].(*FunctionDefinition)
	lbrace, rbrace := fn.Lbrace, fn.Rbrace
	cond := fn.Body[0].(*Conditional)
	clbrace, crbrace := cond.Lbrace, cond.Rbrace

	Tighten(fset, fn)
	assert.Equal(t, lbrace, fn.Lbrace)
	assert.Equal(t, rbrace, fn.Rbrace)
	assert.Equal(t, clbrace, cond.Lbrace)
	assert.Equal(t, crbrace, cond.Rbrace)
}

func TestRaiseRewrittenFunction(t *testing.T) {
	fset, _, decls := lower(t, "package p\n\nfunc f(a, b, c int) {\n\tprintln(a)\n}\n", 0)
	fn := decls[0].(*FunctionDefinition)
	fn.Params = fn.Params[:2]
	fn.Rewritten = true

	out, err := FormatNode(fset, RaiseDecl(fn))
	require.NoError(t, err)
	assert.Equal(t, "func f(a, b int) {\n\tprintln(a)\n}", out)
}

func TestRaiseParams(t *testing.T) {
	intType := ast.NewIdent("int")
	params := []Param{
		{Name: "a", Type: intType},
		{Name: "b", Type: intType},
		{Name: "c", Type: ast.NewIdent("int")},
	}

	fields := RaiseParams(params)
	require.Len(t, fields.List, 2)
	assert.Len(t, fields.List[0].Names, 2)
	assert.Len(t, fields.List[1].Names, 1)

	unnamed := RaiseParams([]Param{{Type: intType}, {Type: intType}})
	assert.Len(t, unnamed.List, 2)
	assert.Empty(t, unnamed.List[0].Names)
}

func TestCloneSignature(t *testing.T) {
	src := "package p\n\nfunc (s *S[T]) f(a, b int, opts ...string) (int, error) {\n\treturn 0, nil\n}\n"
	fset, _, decls := lower(t, src, 0)
	fn := decls[0].(*FunctionDefinition)

	clone, err := CloneSignature(fset, fn)
	require.NoError(t, err)

	assert.Equal(t, fn.Name, clone.Name)
	assert.Equal(t, "S.f", clone.QualifiedName())
	assert.Equal(t, fn.Line(), clone.Line())
	assert.Empty(t, clone.Body)
	require.Len(t, clone.Params, 3)
	assert.NotSame(t, fn.Params[0].Type, clone.Params[0].Type)
	assert.NotSame(t, fn.Results, clone.Results)

	clone.Name = "f_copy"
	clone.Rewritten = true
	out, err := FormatNode(fset, RaiseDecl(clone))
	require.NoError(t, err)
	assert.Equal(t, "func (s *S[T]) f_copy(a, b int, opts ...string) (int, error) {\n}", out)
}

func TestParseExpr(t *testing.T) {
	fset := token.NewFileSet()

	expr, err := ParseExpr(fset, "a > 0 && (b || c)")
	require.NoError(t, err)
	bin, ok := expr.(*ast.BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, token.LAND, bin.Op)
	assert.IsType(t, &ast.ParenExpr{}, bin.Y)

	out, err := FormatNode(fset, expr)
	require.NoError(t, err)
	assert.Equal(t, "a > 0 && (b || c)", out)

	_, err = ParseExpr(fset, "a &&")
	assert.Error(t, err)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "function", KindFunction.String())
	assert.Equal(t, "conditional", KindConditional.String())
	assert.Equal(t, "other", KindOther.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestSyntheticNodes(t *testing.T) {
	fn := NewFunction("f", 3)
	assert.Equal(t, 3, fn.Line())
	assert.Equal(t, token.NoPos, fn.End())

	c := NewConditional(ast.NewIdent("ok"), nil, 4)
	assert.Equal(t, 4, c.Line())
	assert.Empty(t, Children(c))
	assert.True(t, (&Tree{}).Empty())
}
