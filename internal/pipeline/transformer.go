package pipeline

import (
	"path/filepath"
	"strings"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/parser"
	"github.com/conn-castle/ladder/internal/upgrade"
)

// Transformer rewrites or annotates the content of one file.
// Implementations must be deterministic and must not re-fire on their own output.
type Transformer interface {
	Name() string
	Matches(path string) bool
	Transform(path string, content string, parsers parser.Lookup) (string, []change.Change)
}

// ApplyFunc is the body of a Rule.
type ApplyFunc func(path string, content string, parsers parser.Lookup) (string, []change.Change)

// Rule is a function-backed Transformer limited to a set of file extensions.
type Rule struct {
	ID string
	// Extensions such as ".php". Empty matches every file.
	Extensions []string
	Apply      ApplyFunc
}

// Name returns the rule ID.
func (r Rule) Name() string {
	return r.ID
}

// Matches reports whether path has one of the rule's extensions.
func (r Rule) Matches(path string) bool {
	if len(r.Extensions) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	for _, want := range r.Extensions {
		if ext == want {
			return true
		}
	}
	return false
}

// Transform runs the rule body. A nil body leaves content untouched.
func (r Rule) Transform(path string, content string, parsers parser.Lookup) (string, []change.Change) {
	if r.Apply == nil {
		return content, nil
	}
	return r.Apply(path, content, parsers)
}

// Catalog maps step keys ("from-to") to ordered transformers.
type Catalog map[string][]Transformer

// Add appends transformers for the step from -> to.
func (c Catalog) Add(from string, to string, ts ...Transformer) {
	key := upgrade.StepKey(from, to)
	c[key] = append(c[key], ts...)
}

// For returns the transformers registered for the step from -> to.
func (c Catalog) For(from string, to string) []Transformer {
	return c[upgrade.StepKey(from, to)]
}

// Steps returns the number of steps that have at least one transformer.
func (c Catalog) Steps() int {
	n := 0
	for _, ts := range c {
		if len(ts) > 0 {
			n++
		}
	}
	return n
}
