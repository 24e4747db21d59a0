package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/gosmell/internal/parser"
	"github.com/pthm/gosmell/internal/reporter"
	"github.com/pthm/gosmell/internal/rules"
	"github.com/pthm/gosmell/internal/syntax"
)

func function(name string, statements int, params string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s(%s) {\n", name, params)
	for i := 0; i < statements; i++ {
		fmt.Fprintf(&sb, "\tx%d := %d\n\t_ = x%d\n", i, i, i)
	}
	sb.WriteString("}\n")
	return sb.String()
}

func simple(name string, statements int, params string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "func %s(%s) {\n", name, params)
	for i := 0; i < statements; i++ {
		fmt.Fprintf(&sb, "\tprintln(%d)\n", i)
	}
	sb.WriteString("}\n")
	return sb.String()
}

func functions(t *testing.T, src string) []*syntax.FunctionDefinition {
	t.Helper()
	tree, err := parser.Parse(src)
	require.NoError(t, err, src)

	var fns []*syntax.FunctionDefinition
	for _, d := range tree.Decls {
		if fn, ok := d.(*syntax.FunctionDefinition); ok {
			fns = append(fns, fn)
		}
	}
	return fns
}

func TestLongMethodScenario(t *testing.T) {
	res := Analyze(simple("work", 12, "a, b int"), rules.DefaultThresholds())
	require.NoError(t, res.Err)

	require.Len(t, res.Findings, 1)
	assert.Equal(t, "Long method: work is 12 lines long. Consider breaking it into smaller functions.", res.Report)
	assert.Equal(t, 1, res.Stats.Splits)

	require.True(t, res.Regenerated)
	fns := functions(t, res.Source)
	require.Len(t, fns, 2)
	assert.Equal(t, "work", fns[0].Name)
	assert.Len(t, fns[0].Body, 5)
	assert.Equal(t, "work_part2", fns[1].Name)
	assert.Len(t, fns[1].Body, 7)
	assert.Len(t, fns[1].Params, 2)
}

func TestLongParameterListScenario(t *testing.T) {
	res := Analyze(simple("wide", 3, "a, b, c, d, e, f, g int"), rules.DefaultThresholds())
	require.NoError(t, res.Err)

	require.Len(t, res.Findings, 1)
	assert.Equal(t, rules.LongParameterList, res.Findings[0].Kind)
	assert.Equal(t, "Long parameter list: wide has 7 parameters. Consider reducing the number of parameters.", res.Report)

	fns := functions(t, res.Source)
	require.Len(t, fns, 1)
	assert.Len(t, fns[0].Params, 5)
	assert.Contains(t, res.Source, "func wide(a, b, c, d, e int) {")
}

func TestComplexConditionalScenario(t *testing.T) {
	src := `func check(x int) {
	if x > 0 {
		if x > 1 {
			if x > 2 {
				if x > 3 {
					println("deep")
				}
			}
		}
	} else {
		println("negative")
	}
}
`
	res := Analyze(src, rules.DefaultThresholds())
	require.NoError(t, res.Err)

	require.Len(t, res.Findings, 1)
	assert.Equal(t, 2, res.Findings[0].Line)
	assert.Equal(t, "Complex conditional at line 2 with 4 nested conditions. Consider simplifying the conditions.", res.Report)

	assert.Contains(t, res.Source, "if x > 0 && x > 1 {\n\t\tif x > 2 {")
	assert.Contains(t, res.Source, "} else {\n\t\tprintln(\"negative\")")
	assert.Len(t, functions(t, res.Source), 1)
}

func TestEmptyInputScenario(t *testing.T) {
	for _, src := range []string{"", "  \n\t\n"} {
		res := Analyze(src, rules.DefaultThresholds())
		assert.Equal(t, reporter.NoSmellsMessage, res.Report)
		assert.Empty(t, res.Findings)
		assert.NoError(t, res.Err)
		assert.True(t, res.Regenerated)
		assert.Empty(t, res.Source)
	}
}

func TestSyntaxErrorScenario(t *testing.T) {
	res := Analyze("func broken() {\n\tif x {\n", rules.DefaultThresholds())

	var perr *parser.ParseError
	require.ErrorAs(t, res.Err, &perr)
	assert.False(t, res.Regenerated)
	assert.Empty(t, res.Source)
	assert.Empty(t, res.Findings)
	assert.True(t, strings.HasPrefix(res.Report, "Syntax Error: line "), res.Report)
	assert.Contains(t, res.Report, "column")
}

func TestCleanSource(t *testing.T) {
	src := simple("small", 3, "a int")
	res := Analyze(src, rules.DefaultThresholds())
	assert.Equal(t, reporter.NoSmellsMessage, res.Report)
	assert.Equal(t, src, res.Source)
}

func TestMultipleSmellsInOrder(t *testing.T) {
	src := simple("first", 11, "a int") + "\n" + simple("second", 2, "a, b, c, d, e, f int")
	res := Analyze(src, rules.DefaultThresholds())

	lines := strings.Split(res.Report, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "Long method: first"))
	assert.True(t, strings.HasPrefix(lines[1], "Long parameter list: second"))

	var names []string
	for _, fn := range functions(t, res.Source) {
		names = append(names, fn.Name)
	}
	assert.Equal(t, []string{"first", "first_part2", "second"}, names)
}

func TestDeterministic(t *testing.T) {
	src := function("a", 14, "p1, p2, p3, p4, p5, p6 int") + "\n" + simple("b", 20, "")

	first := Analyze(src, rules.DefaultThresholds())
	second := Analyze(src, rules.DefaultThresholds())
	assert.Equal(t, first.Report, second.Report)
	assert.Equal(t, first.Source, second.Source)
	assert.Equal(t, first.Findings, second.Findings)
}

func TestRegeneratedSourceReparses(t *testing.T) {
	sources := []string{
		function("a", 14, "p1, p2, p3, p4, p5, p6 int"),
		"package main\n\nimport \"fmt\"\n\n" + strings.ReplaceAll(simple("main", 15, ""), "println", "fmt.Println"),
		`func sw(v any) {
	switch x := v.(type) {
	case int:
		if x > 0 {
			if x > 1 {
				if x > 2 || x < -2 {
					if x > 3 {
						println(x)
					}
				}
			}
		}
	}
}
`,
	}

	for _, src := range sources {
		res := Analyze(src, rules.Thresholds{MaxMethodLength: 3, MaxConditionals: 2, MaxParams: 2})
		require.NoError(t, res.Err, src)
		require.NotEmpty(t, res.Findings)

		again := Analyze(res.Source, rules.DefaultThresholds())
		assert.NoError(t, again.Err, res.Source)
		assert.True(t, again.Regenerated)
	}
}

func TestWithoutRewrite(t *testing.T) {
	src := simple("work", 12, "a int")
	res := Analyze(src, rules.DefaultThresholds(), WithoutRewrite())
	require.Len(t, res.Findings, 1)
	assert.Zero(t, res.Stats.Splits)
	assert.Equal(t, src, res.Source)
}

func TestWithRegistry(t *testing.T) {
	src := simple("work", 12, "a, b, c, d, e, f int")
	res := Analyze(src, rules.DefaultThresholds(), WithRegistry(rules.DefaultRegistry().Without("long-method")))
	require.Len(t, res.Findings, 1)
	assert.Equal(t, rules.LongParameterList, res.Findings[0].Kind)
	assert.Len(t, functions(t, res.Source), 1)
}

func TestSeverityAssigned(t *testing.T) {
	res := Analyze(simple("huge", 40, ""), rules.DefaultThresholds())
	require.Len(t, res.Findings, 1)
	assert.Equal(t, rules.Error, res.Findings[0].Severity)
}

func TestAnalyzeContext(t *testing.T) {
	res, err := AnalyzeContext(context.Background(), simple("work", 12, ""), rules.DefaultThresholds())
	require.NoError(t, err)
	assert.Len(t, res.Findings, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = AnalyzeContext(ctx, simple("work", 12, ""), rules.DefaultThresholds())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConditionalsInsideFunctionLiterals(t *testing.T) {
	t.Run("nested in a callback", func(t *testing.T) {
		src := `func handler() {
	run(func() {
		if a {
			if b {
				if c {
					if d {
						println("deep")
					}
				}
			}
		}
	})
}
`
		res := Analyze(src, rules.DefaultThresholds())
		require.NoError(t, res.Err)
		require.Len(t, res.Findings, 1)
		assert.Equal(t, "Complex conditional at line 3 with 4 nested conditions. Consider simplifying the conditions.", res.Report)
		assert.Equal(t, 1, res.Stats.Flattens)

		want := `func handler() {
	run(func() {
		if a && b {
			if c {
				if d {
					println("deep")
				}
			}
		}
	})
}
`
		assert.Equal(t, want, res.Source)
	})

	t.Run("counted through a goroutine", func(t *testing.T) {
		src := `func serve() {
	if a {
		go func() {
			if b {
				if c {
					if d {
						println("deep")
					}
				}
			}
		}()
	}
}
`
		res := Analyze(src, rules.DefaultThresholds())
		require.NoError(t, res.Err)
		require.Len(t, res.Findings, 1)
		assert.Equal(t, 2, res.Findings[0].Line)
		assert.Equal(t, 4, res.Findings[0].Measured)
		assert.Equal(t, rules.RewriteNone, res.Findings[0].Rewrite)
		assert.Equal(t, src, res.Source)
	})
}

func TestLabeledConditional(t *testing.T) {
	src := `func retry(x int) {
L:
	if x > 0 {
		if x > 1 {
			if x > 2 {
				if x > 3 {
					goto L
				}
			}
		}
	}
}
`
	res := Analyze(src, rules.DefaultThresholds())
	require.NoError(t, res.Err)
	require.Len(t, res.Findings, 1)
	assert.Equal(t, 3, res.Findings[0].Line)
	assert.Equal(t, "Complex conditional at line 3 with 4 nested conditions. Consider simplifying the conditions.", res.Report)
	assert.Contains(t, res.Source, "L:\n\tif x > 0 && x > 1 {\n\t\tif x > 2 {")
}

func TestSiblingConditionalsOnOneLine(t *testing.T) {
	src := "func f() {\n" +
		"\tif a { if b { if c { if d { println() } } } }; if e { if g { if h { if i { println() } } } }\n" +
		"}\n"
	res := Analyze(src, rules.DefaultThresholds())
	require.NoError(t, res.Err)
	require.Len(t, res.Findings, 2)
	assert.NotEqual(t, res.Findings[0].Pos, res.Findings[1].Pos)

	msg := "Complex conditional at line 2 with 4 nested conditions. Consider simplifying the conditions."
	assert.Equal(t, msg+"\n"+msg, res.Report)
	assert.Equal(t, 2, res.Stats.Flattens)
}

func TestFlattenLeavesNoBlankLines(t *testing.T) {
	src := `func f() {
	if a {
		if b {
			if c {
				if d {
					println("deep")
				}
			}
		}
	}
}
`
	want := `func f() {
	if a && b {
		if c {
			if d {
				println("deep")
			}
		}
	}
}
`
	res := Analyze(src, rules.DefaultThresholds())
	require.NoError(t, res.Err)
	assert.Equal(t, want, res.Source)
}
