package parser

import (
	"fmt"

	"github.com/conn-castle/ladder/internal/manifest"
	"github.com/conn-castle/ladder/internal/messages"
)

// JSONParser parses JSON objects into order-preserving manifest documents.
type JSONParser struct{}

// Parse returns a *manifest.Document for src.
func (JSONParser) Parse(src string) (any, error) {
	return manifest.Parse([]byte(src))
}

// Generate serializes a *manifest.Document.
func (JSONParser) Generate(tree any) (string, error) {
	doc, ok := tree.(*manifest.Document)
	if !ok {
		return "", fmt.Errorf(messages.ParserUnexpectedTreeFmt, "json", tree)
	}
	out, err := doc.Bytes()
	if err != nil {
		return "", err
	}
	return string(out), nil
}
