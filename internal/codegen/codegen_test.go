package codegen

import (
	"go/ast"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/gosmell/internal/parser"
	"github.com/pthm/gosmell/internal/syntax"
)

func TestGenerateEmpty(t *testing.T) {
	tree, err := parser.Parse("")
	require.NoError(t, err)

	out, err := Generate(tree)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = Generate(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestGenerateRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "snippet",
			src: `func add(a, b int) int {
	return a + b
}
`,
		},
		{
			name: "file with comments",
			src: `// Package demo is a demo.
package demo

import "fmt"

// Greeter greets
type Greeter struct {
	Name string // who
}

// Greet prints a greeting
func (g *Greeter) Greet() {
	// say hello
	if g.Name != "" {
		fmt.Println("hello", g.Name)
	} else if g == nil {
		return
	} else {
		fmt.Println("hello")
	}
}
`,
		},
		{
			name: "nested statements",
			src: `func loop(xs []int) {
	for i, x := range xs {
		switch {
		case x > i:
			if x > 0 {
				println(x)
			}
		default:
			println(i)
		}
	}
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := parser.Parse(tt.src)
			require.NoError(t, err)

			out, err := Generate(tree)
			require.NoError(t, err)
			assert.Equal(t, tt.src, out)

			again, err := parser.Parse(out)
			require.NoError(t, err)
			assert.Len(t, again.Decls, len(tree.Decls))
		})
	}
}

func TestGenerateSyntheticFunction(t *testing.T) {
	tree, err := parser.Parse("package p\n")
	require.NoError(t, err)

	fn := syntax.NewFunction("empty", 1)
	fn.Params = []syntax.Param{{Name: "x", Type: ast.NewIdent("int")}}
	tree.Decls = append(tree.Decls, fn)

	out, err := Generate(tree)
	require.NoError(t, err)
	assert.Equal(t, "package p\n\nfunc empty(x int) {\n}\n", out)
}

func TestGenerateRejectsStatementAtTopLevel(t *testing.T) {
	tree, err := parser.Parse("func f(x int) {\n\tif x > 0 {\n\t\tprintln(x)\n\t}\n}\n")
	require.NoError(t, err)

	fn := tree.Decls[0].(*syntax.FunctionDefinition)
	tree.Decls = append(tree.Decls, fn.Body[0])

	_, err = Generate(tree)
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, 1, genErr.Decl)
	assert.ErrorIs(t, err, ErrUnrenderable)
}
