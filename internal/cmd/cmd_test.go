package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/gosmell/internal/reporter"
	"github.com/pthm/gosmell/internal/rules"
	"github.com/pthm/gosmell/internal/version"
)

func longFunction(name string, statements int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "package work\n\nfunc %s() {\n", name)
	for i := 0; i < statements; i++ {
		fmt.Fprintf(&sb, "\tprintln(%d)\n", i)
	}
	sb.WriteString("}\n")
	return sb.String()
}

const cleanSource = "package work\n\nfunc small(a int) int {\n\treturn a + 1\n}\n"

// workspace creates an isolated working directory holding files
func workspace(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Chdir(dir)
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func resetFlags() {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmds := append([]*cobra.Command{RootCmd}, RootCmd.Commands()...)
	for _, c := range cmds {
		c.Flags().VisitAll(reset)
		c.PersistentFlags().VisitAll(reset)
	}
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	resetFlags()

	var out, errOut bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&errOut)
	RootCmd.SetIn(strings.NewReader(stdin))
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	return out.String(), errOut.String(), err
}

func TestAnalyzeDirectory(t *testing.T) {
	workspace(t, map[string]string{
		"long.go":         longFunction("work", 12),
		"clean.go":        cleanSource,
		"vendor/skip.go":  longFunction("vendored", 30),
		".hidden/skip.go": longFunction("hidden", 30),
	})

	out, _, err := execute(t, "", "analyze", ".")
	require.NoError(t, err)
	assert.Contains(t, out, "Long method: work is 12 lines long.")
	assert.Contains(t, out, "Found 1 smells in 2 files")
	assert.NotContains(t, out, "vendored")
	assert.NotContains(t, out, "hidden")
}

func TestAnalyzeClean(t *testing.T) {
	workspace(t, map[string]string{"clean.go": cleanSource})

	out, _, err := execute(t, "", "analyze")
	require.NoError(t, err)
	assert.Contains(t, out, reporter.NoSmellsMessage)
}

func TestAnalyzeSevereFindingsFail(t *testing.T) {
	workspace(t, map[string]string{"long.go": longFunction("huge", 25)})

	_, _, err := execute(t, "", "analyze")
	assert.ErrorIs(t, err, reporter.ErrSevereFindings)
}

func TestAnalyzeStdinJSON(t *testing.T) {
	workspace(t, nil)

	out, _, err := execute(t, longFunction("work", 8), "analyze", "--format", "json", "--max-method-length", "6", "--show-code", "-")
	require.NoError(t, err)

	var decoded reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Files, 1)

	file := decoded.Files[0]
	assert.Equal(t, stdinName, file.Path)
	require.Len(t, file.Findings, 1)
	assert.Equal(t, "LongMethod", file.Findings[0].Kind)
	assert.Equal(t, 6, file.Findings[0].Threshold)
	require.NotNil(t, file.Refactored)
	assert.Contains(t, *file.Refactored, "func work_part2() {")
}

func TestAnalyzeParseFailure(t *testing.T) {
	workspace(t, map[string]string{"broken.go": "package work\n\nfunc broken( {\n"})

	out, _, err := execute(t, "", "analyze", "--format", "json")
	require.NoError(t, err)

	var decoded reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded.Files, 1)
	assert.True(t, strings.HasPrefix(decoded.Files[0].Report, "Syntax Error: line 3"))
	assert.Equal(t, 1, decoded.Summary.FailedFiles)
}

func TestAnalyzeProfileFromConfig(t *testing.T) {
	workspace(t, map[string]string{
		"long.go":       longFunction("work", 8),
		".gosmell.yaml": "profile: strict\n",
	})

	out, _, err := execute(t, "", "analyze", "--format", "json")
	require.NoError(t, err)

	var decoded reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, 1, decoded.Summary.LongMethods)
}

func TestAnalyzeInvalidFlags(t *testing.T) {
	workspace(t, map[string]string{"clean.go": cleanSource})

	_, _, err := execute(t, "", "analyze", "--max-params", "0")
	assert.ErrorIs(t, err, rules.ErrInvalidThreshold)

	_, _, err = execute(t, "", "analyze", "--format", "yaml")
	assert.ErrorIs(t, err, reporter.ErrUnknownFormat)

	_, _, err = execute(t, "", "analyze", "missing.go")
	assert.Error(t, err)
}

func TestFixWritesFiles(t *testing.T) {
	dir := workspace(t, map[string]string{
		"long.go":  longFunction("work", 12),
		"clean.go": cleanSource,
	})

	out, _, err := execute(t, "", "fix", ".")
	require.NoError(t, err)
	assert.Contains(t, out, "Fixed long.go (1 splits, 0 truncations, 0 flattens)")

	fixed, err := os.ReadFile(filepath.Join(dir, "long.go"))
	require.NoError(t, err)
	assert.Contains(t, string(fixed), "func work_part2() {")

	clean, err := os.ReadFile(filepath.Join(dir, "clean.go"))
	require.NoError(t, err)
	assert.Equal(t, cleanSource, string(clean))
}

func TestFixDryRun(t *testing.T) {
	dir := workspace(t, map[string]string{"long.go": longFunction("work", 12)})

	out, _, err := execute(t, "", "fix", "--dry-run", ".")
	require.NoError(t, err)
	assert.Contains(t, out, "+func work_part2() {")
	assert.Contains(t, out, " \tprintln(0)")

	unchanged, err := os.ReadFile(filepath.Join(dir, "long.go"))
	require.NoError(t, err)
	assert.Equal(t, longFunction("work", 12), string(unchanged))
}

func TestFixNothingToDo(t *testing.T) {
	workspace(t, map[string]string{"clean.go": cleanSource})

	out, _, err := execute(t, "", "fix")
	require.NoError(t, err)
	assert.Contains(t, out, "No fixable smells found!")
}

func TestFixStdin(t *testing.T) {
	workspace(t, nil)

	out, _, err := execute(t, longFunction("work", 12), "fix", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "package work\n"))
	assert.Contains(t, out, "func work_part2() {")
}

func TestReport(t *testing.T) {
	workspace(t, map[string]string{
		"long.go":  longFunction("work", 12),
		"clean.go": cleanSource,
	})

	out, _, err := execute(t, "", "report", "--functions")
	require.NoError(t, err)
	assert.Contains(t, out, "Code Metrics Report")
	assert.Contains(t, out, "long.go")
	assert.Contains(t, out, "2 files")
	assert.Contains(t, out, "work")
	assert.Contains(t, out, "small")
}

func TestReportJSON(t *testing.T) {
	workspace(t, map[string]string{"long.go": longFunction("work", 12)})

	out, _, err := execute(t, "", "report", "--format", "json")
	require.NoError(t, err)

	var rows []fileMetrics
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Smells)
	require.NotNil(t, rows[0].Summary)
	assert.Equal(t, 1, rows[0].Summary.TotalFunctions)
	assert.Equal(t, 12, rows[0].Summary.MaxBodyLength)
}

func TestOutlinePrint(t *testing.T) {
	workspace(t, map[string]string{"cond.go": `package work

func check(x int) {
	if x > 0 {
		if x > 1 {
			println(x)
		}
	}
}
`})

	out, _, err := execute(t, "", "outline", "--print", "cond.go")
	require.NoError(t, err)
	assert.Equal(t, `func check (line 3, 1 statements, 1 params)
└─ if (line 4, 2 conditionals)
  └─ if (line 5, 1 conditionals)
`, out)
}

func TestOutlineRequiresTTY(t *testing.T) {
	workspace(t, map[string]string{"clean.go": cleanSource})

	_, _, err := execute(t, "", "outline", "clean.go")
	assert.ErrorContains(t, err, "interactive terminal")
}

func TestVersion(t *testing.T) {
	workspace(t, map[string]string{".gosmell.yaml": "profile: does-not-exist\n"})

	out, _, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "gosmell "))

	out, _, err = execute(t, "", "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, version.Short()+"\n", out)
}
