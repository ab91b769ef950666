// Package parser provides the lookup through which transformers obtain
// structured parsers keyed by language name or file extension.
package parser

import "strings"

// Parser converts source text to a tree and back.
type Parser interface {
	Parse(src string) (any, error)
	Generate(tree any) (string, error)
}

// Lookup resolves parsers by name or file extension.
type Lookup interface {
	Get(name string) (Parser, bool)
	ByExtension(ext string) (Parser, bool)
}

// extensionNames maps file extensions to parser names.
var extensionNames = map[string]string{
	"php":  "php",
	"js":   "javascript",
	"jsx":  "javascript",
	"ts":   "javascript",
	"tsx":  "javascript",
	"json": "json",
	"css":  "css",
	"yaml": "yaml",
	"yml":  "yaml",
	"go":   "go",
	"mod":  "gomod",
}

// Registry holds parsers for a single engine instance.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// NewDefaultRegistry returns a registry with the built-in Go and JSON parsers.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("go", GoParser{})
	r.Register("json", JSONParser{})
	return r
}

// Register adds p under name, replacing any earlier parser with that name.
func (r *Registry) Register(name string, p Parser) {
	r.parsers[name] = p
}

// Get returns the parser registered under name.
func (r *Registry) Get(name string) (Parser, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.parsers[name]
	return p, ok
}

// Has reports whether a parser is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// ByExtension returns the parser for a file extension, with or without the leading dot.
func (r *Registry) ByExtension(ext string) (Parser, bool) {
	name, ok := extensionNames[strings.ToLower(strings.TrimPrefix(ext, "."))]
	if !ok {
		return nil, false
	}
	return r.Get(name)
}
