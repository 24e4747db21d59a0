package reporter

import (
	"errors"
	"fmt"
	"go/token"
	"strings"

	"github.com/pthm/gosmell/internal/parser"
	"github.com/pthm/gosmell/internal/rules"
)

// NoSmellsMessage is the report for an analysis without findings
const NoSmellsMessage = "No significant code smells detected."

type findingKey struct {
	kind     rules.SmellKind
	subject  string
	line     int
	measured int
	pos      token.Pos
}

// Assemble renders findings one message per line in discovery order.
// Repeated findings of one kind for the same node are reported once. It
// never returns an empty string.
func Assemble(findings []rules.Finding) string {
	seen := make(map[findingKey]bool, len(findings))
	lines := make([]string, 0, len(findings))

	for _, f := range findings {
		key := findingKey{kind: f.Kind, subject: f.Subject, line: f.Line, measured: f.Measured, pos: f.Pos}
		if seen[key] {
			continue
		}
		seen[key] = true
		lines = append(lines, f.Message)
	}

	if len(lines) == 0 {
		return NoSmellsMessage
	}
	return strings.Join(lines, "\n")
}

// ParseFailure renders a parse error as a report
func ParseFailure(err error) string {
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		return fmt.Sprintf("Syntax Error: line %d, column %d: %s", perr.Line, perr.Column, perr.Msg)
	}
	return fmt.Sprintf("Syntax Error: %v", err)
}
