package parser

import (
	"errors"
	"fmt"
	"go/parser"
	"go/scanner"
	"go/token"
	"os"
	"strings"

	"github.com/pthm/gosmell/internal/syntax"
)

// snippetHeader is wrapped around sources that have no package clause
const snippetHeader = "package snippet\n"

// Mode describes how a source was interpreted
type Mode int

const (
	// ModeFile is a complete Go file with a package clause
	ModeFile Mode = iota
	// ModeSnippet is a list of top-level declarations without a package clause
	ModeSnippet
)

func (m Mode) String() string {
	switch m {
	case ModeFile:
		return "file"
	case ModeSnippet:
		return "snippet"
	default:
		return "unknown"
	}
}

// ParseError reports malformed source. Line and Column refer to the
// source as the user wrote it.
type ParseError struct {
	Line   int
	Column int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Msg)
}

// DetectMode returns ModeFile when the first token of source is the
// package keyword and ModeSnippet otherwise
func DetectMode(source string) Mode {
	var s scanner.Scanner
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(source))
	s.Init(file, []byte(source), nil, 0)

	_, tok, _ := s.Scan()
	if tok == token.PACKAGE {
		return ModeFile
	}
	return ModeSnippet
}

// Parse converts source into a syntax tree. Whitespace-only input yields
// an empty snippet tree. Any failure is returned as a *ParseError.
func Parse(source string) (tree *syntax.Tree, err error) {
	defer func() {
		if r := recover(); r != nil {
			tree = nil
			err = &ParseError{Line: 1, Column: 1, Msg: fmt.Sprintf("internal parser failure: %v", r)}
		}
	}()

	if strings.TrimSpace(source) == "" {
		return &syntax.Tree{Fset: token.NewFileSet(), Snippet: true}, nil
	}

	mode := DetectMode(source)
	src := source
	offset := 0
	if mode == ModeSnippet {
		src = snippetHeader + source
		offset = strings.Count(snippetHeader, "\n")
	}

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments|parser.SkipObjectResolution)
	if err != nil {
		return nil, toParseError(err, offset)
	}

	tree = &syntax.Tree{
		Fset:     fset,
		Snippet:  mode == ModeSnippet,
		Doc:      file.Doc,
		Comments: file.Comments,
		Decls:    syntax.Lower(fset, file, offset),
	}
	if mode == ModeFile {
		tree.Package = file.Name.Name
	}
	return tree, nil
}

// ParseFile reads and parses the file at path
func ParseFile(path string) (*syntax.Tree, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(content))
}

func toParseError(err error, offset int) *ParseError {
	var list scanner.ErrorList
	if errors.As(err, &list) && len(list) > 0 {
		first := list[0]
		line := first.Pos.Line - offset
		if line < 1 {
			line = 1
		}
		return &ParseError{Line: line, Column: first.Pos.Column, Msg: first.Msg}
	}
	return &ParseError{Line: 1, Column: 1, Msg: err.Error()}
}
