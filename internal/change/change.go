// Package change describes the edits an upgrade step makes to a project.
package change

import (
	"fmt"
	"sort"
)

// Kind classifies a single recorded edit.
type Kind string

// Change kinds.
const (
	KindAdd    Kind = "add"
	KindRemove Kind = "remove"
	KindModify Kind = "modify"
)

// Symbol returns the one-character marker used when listing changes.
func (k Kind) Symbol() string {
	switch k {
	case KindAdd:
		return "+"
	case KindRemove:
		return "-"
	default:
		return "~"
	}
}

// Snippet holds the text of a line before and after an edit.
// A Change carries either a full snippet or none at all.
type Snippet struct {
	Before string `json:"before"`
	After  string `json:"after"`
}

// Change is a single recorded edit or recommendation for one file.
type Change struct {
	Kind        Kind     `json:"kind"`
	Line        int      `json:"line"`
	Description string   `json:"description"`
	Snippet     *Snippet `json:"snippet,omitempty"`
}

// Advisory returns a change that describes a recommended manual edit without altering text.
// line is 1-based, or 0 when the note is not tied to a line.
func Advisory(kind Kind, line int, description string) Change {
	return Change{Kind: kind, Line: line, Description: description}
}

// Edit returns a change that records the before and after text of an applied edit.
func Edit(kind Kind, line int, description string, before string, after string) Change {
	return Change{
		Kind:        kind,
		Line:        line,
		Description: description,
		Snippet:     &Snippet{Before: before, After: after},
	}
}

// IsAdvisory reports whether the change carries no before/after text.
func (c Change) IsAdvisory() bool {
	return c.Snippet == nil
}

// String formats the change for single-line display.
func (c Change) String() string {
	if c.Line > 0 {
		return fmt.Sprintf("%s L%d %s", c.Kind.Symbol(), c.Line, c.Description)
	}
	return fmt.Sprintf("%s %s", c.Kind.Symbol(), c.Description)
}

// StepResult is the outcome of one upgrade step for a single file.
// It is only produced for files with at least one Change.
type StepResult struct {
	Path               string   `json:"path"`
	OriginalContent    string   `json:"-"`
	TransformedContent string   `json:"-"`
	Changes            []Change `json:"changes"`
}

// ContentChanged reports whether the step altered the file text.
// Advisory-only results leave the content untouched.
func (r StepResult) ContentChanged() bool {
	return r.OriginalContent != r.TransformedContent
}

// Fold merges results for the same path so each file appears once, in first
// seen order. A merged result keeps the first original content, the last
// transformed content, and every change in order.
func Fold(results []StepResult) []StepResult {
	index := make(map[string]int, len(results))
	var out []StepResult
	for _, r := range results {
		if i, ok := index[r.Path]; ok {
			out[i].TransformedContent = r.TransformedContent
			out[i].Changes = append(out[i].Changes, r.Changes...)
			continue
		}
		index[r.Path] = len(out)
		r.Changes = append([]Change(nil), r.Changes...)
		out = append(out, r)
	}
	return out
}

// Summary counts results and changes across a set of step results.
type Summary struct {
	Files      int
	Rewritten  int
	Changes    int
	Advisories int
}

// Summarize aggregates counts for results.
func Summarize(results []StepResult) Summary {
	var summary Summary
	for _, result := range results {
		summary.Files++
		if result.ContentChanged() {
			summary.Rewritten++
		}
		for _, c := range result.Changes {
			summary.Changes++
			if c.IsAdvisory() {
				summary.Advisories++
			}
		}
	}
	return summary
}

// Paths returns the distinct file paths in results, sorted.
func Paths(results []StepResult) []string {
	seen := make(map[string]struct{}, len(results))
	paths := make([]string, 0, len(results))
	for _, result := range results {
		if _, ok := seen[result.Path]; ok {
			continue
		}
		seen[result.Path] = struct{}{}
		paths = append(paths, result.Path)
	}
	sort.Strings(paths)
	return paths
}
