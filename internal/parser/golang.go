package parser

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"

	"github.com/conn-castle/ladder/internal/messages"
)

// GoFile is the tree produced by GoParser.
type GoFile struct {
	Fset *token.FileSet
	File *ast.File
}

// Line returns the 1-based line of pos.
func (f *GoFile) Line(pos token.Pos) int {
	return f.Fset.Position(pos).Line
}

// GoParser parses Go source with comments preserved.
type GoParser struct{}

// Parse returns a *GoFile for src.
func (GoParser) Parse(src string) (any, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", src, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf(messages.ParserGoParseFmt, err)
	}
	return &GoFile{Fset: fset, File: file}, nil
}

// Generate formats a *GoFile back to gofmt-style source.
func (GoParser) Generate(tree any) (string, error) {
	file, ok := tree.(*GoFile)
	if !ok {
		return "", fmt.Errorf(messages.ParserUnexpectedTreeFmt, "go", tree)
	}
	var buf bytes.Buffer
	if err := format.Node(&buf, file.Fset, file.File); err != nil {
		return "", fmt.Errorf(messages.ParserGoFormatFmt, err)
	}
	return buf.String(), nil
}
