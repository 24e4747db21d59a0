package syntax

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/parser"
	"go/printer"
	"go/token"
)

// CloneSignature returns a body-less copy of f whose receiver, type
// parameters, parameters and results share no AST with f. The copy is made
// by printing the signature and parsing it back into fset.
func CloneSignature(fset *token.FileSet, f *FunctionDefinition) (*FunctionDefinition, error) {
	decl := &ast.FuncDecl{
		Recv: f.Recv,
		Name: ast.NewIdent(f.Name),
		Type: &ast.FuncType{
			TypeParams: f.TypeParams,
			Params:     RaiseParams(f.Params),
			Results:    f.Results,
		},
		Body: &ast.BlockStmt{},
	}

	var buf bytes.Buffer
	buf.WriteString("package clone\n\n")
	if err := printer.Fprint(&buf, fset, decl); err != nil {
		return nil, fmt.Errorf("print signature of %s: %w", f.Name, err)
	}

	file, err := parser.ParseFile(fset, "", buf.Bytes(), parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("reparse signature of %s: %w", f.Name, err)
	}
	if len(file.Decls) != 1 {
		return nil, fmt.Errorf("reparse signature of %s: got %d declarations", f.Name, len(file.Decls))
	}
	fn, ok := file.Decls[0].(*ast.FuncDecl)
	if !ok {
		return nil, fmt.Errorf("reparse signature of %s: not a function", f.Name)
	}

	return &FunctionDefinition{
		Name:       f.Name,
		Recv:       fn.Recv,
		TypeParams: fn.Type.TypeParams,
		Params:     lowerParams(fn.Type.Params),
		Results:    fn.Type.Results,
		line:       f.line,
	}, nil
}

// ParseExpr parses src as an expression in a new file of fset. Every
// position of the result lies on that file, so the printer lays the
// expression out as written in src.
func ParseExpr(fset *token.FileSet, src string) (ast.Expr, error) {
	file, err := parser.ParseFile(fset, "", "package expr\n\nvar _ = "+src+"\n", parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("parse expression %q: %w", src, err)
	}
	gen, ok := file.Decls[0].(*ast.GenDecl)
	if !ok || len(gen.Specs) != 1 {
		return nil, fmt.Errorf("parse expression %q: unexpected declaration", src)
	}
	spec, ok := gen.Specs[0].(*ast.ValueSpec)
	if !ok || len(spec.Values) != 1 {
		return nil, fmt.Errorf("parse expression %q: unexpected value", src)
	}
	return spec.Values[0], nil
}

// FormatNode prints node as source using the positions recorded in fset
func FormatNode(fset *token.FileSet, node ast.Node) (string, error) {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, fset, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}
