package pipeline

import (
	"regexp"
	"strings"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/parser"
)

// Rewrite applies re -> repl to every line and records each line that changed.
func Rewrite(content string, re *regexp.Regexp, repl string, description string) (string, []change.Change) {
	lines := strings.Split(content, "\n")
	var changes []change.Change
	for i, line := range lines {
		if !re.MatchString(line) {
			continue
		}
		updated := re.ReplaceAllString(line, repl)
		if updated == line {
			continue
		}
		changes = append(changes, change.Edit(change.KindModify, i+1, description,
			strings.TrimSpace(line), strings.TrimSpace(updated)))
		lines[i] = updated
	}
	if len(changes) == 0 {
		return content, nil
	}
	return strings.Join(lines, "\n"), changes
}

// Advise records an advisory change for every line matching re.
func Advise(content string, re *regexp.Regexp, kind change.Kind, description string) []change.Change {
	var changes []change.Change
	for i, line := range strings.Split(content, "\n") {
		if re.MatchString(line) {
			changes = append(changes, change.Advisory(kind, i+1, description))
		}
	}
	return changes
}

// AdviseOnce records a single advisory change at the first line matching re.
func AdviseOnce(content string, re *regexp.Regexp, kind change.Kind, description string) []change.Change {
	for i, line := range strings.Split(content, "\n") {
		if re.MatchString(line) {
			return []change.Change{change.Advisory(kind, i+1, description)}
		}
	}
	return nil
}

// RemoveLines drops every line matching re and records each removal.
func RemoveLines(content string, re *regexp.Regexp, description string) (string, []change.Change) {
	lines := strings.Split(content, "\n")
	kept := lines[:0:0]
	var changes []change.Change
	for i, line := range lines {
		if re.MatchString(line) {
			changes = append(changes, change.Edit(change.KindRemove, i+1, description, strings.TrimSpace(line), ""))
			continue
		}
		kept = append(kept, line)
	}
	if len(changes) == 0 {
		return content, nil
	}
	return strings.Join(kept, "\n"), changes
}

// RewriteRule returns a Rule that applies Rewrite.
func RewriteRule(id string, extensions []string, re *regexp.Regexp, repl string, description string) Rule {
	return Rule{
		ID:         id,
		Extensions: extensions,
		Apply: func(_ string, content string, _ parser.Lookup) (string, []change.Change) {
			return Rewrite(content, re, repl, description)
		},
	}
}

// AdviseRule returns a Rule that applies Advise.
func AdviseRule(id string, extensions []string, re *regexp.Regexp, kind change.Kind, description string) Rule {
	return Rule{
		ID:         id,
		Extensions: extensions,
		Apply: func(_ string, content string, _ parser.Lookup) (string, []change.Change) {
			return content, Advise(content, re, kind, description)
		},
	}
}

// AdviseOnceRule returns a Rule that applies AdviseOnce.
func AdviseOnceRule(id string, extensions []string, re *regexp.Regexp, kind change.Kind, description string) Rule {
	return Rule{
		ID:         id,
		Extensions: extensions,
		Apply: func(_ string, content string, _ parser.Lookup) (string, []change.Change) {
			return content, AdviseOnce(content, re, kind, description)
		},
	}
}

// RemoveRule returns a Rule that applies RemoveLines.
func RemoveRule(id string, extensions []string, re *regexp.Regexp, description string) Rule {
	return Rule{
		ID:         id,
		Extensions: extensions,
		Apply: func(_ string, content string, _ parser.Lookup) (string, []change.Change) {
			return RemoveLines(content, re, description)
		},
	}
}
