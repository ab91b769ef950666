// Package preview renders unified diffs of upgrade results.
package preview

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aymanbagabas/go-udiff"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/messages"
)

// DefaultDiffMaxLines is the default maximum number of diff lines shown per file.
const DefaultDiffMaxLines = 40

// FileDiff is a per-file diff of one upgrade result.
type FileDiff struct {
	Path        string
	UnifiedDiff string
	Truncated   bool
}

// NormalizeMaxLines returns value, or DefaultDiffMaxLines when value is not positive.
func NormalizeMaxLines(value int) int {
	if value <= 0 {
		return DefaultDiffMaxLines
	}
	return value
}

// Build renders one diff per result whose content changed. Paths are shown
// relative to root when possible. Advisory-only results produce no diff.
func Build(root string, results []change.StepResult, maxLines int) []FileDiff {
	var diffs []FileDiff
	for _, r := range results {
		if !r.ContentChanged() {
			continue
		}
		name := relative(root, r.Path)
		rendered, truncated := RenderTruncated("a/"+name, "b/"+name, r.OriginalContent, r.TransformedContent, maxLines)
		diffs = append(diffs, FileDiff{Path: name, UnifiedDiff: rendered, Truncated: truncated})
	}
	return diffs
}

// Combine merges results for the same path across steps so each file's diff
// runs from its first original to its last transformed content.
func Combine(results []change.StepResult) []change.StepResult {
	return change.Fold(results)
}

func relative(root string, path string) string {
	if root == "" {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// RenderTruncated renders a unified diff capped at maxLines lines.
func RenderTruncated(fromName string, toName string, fromContent string, toContent string, maxLines int) (string, bool) {
	limit := NormalizeMaxLines(maxLines)
	diff := udiff.Unified(fromName, toName, fromContent, toContent)
	lines := splitDiffLines(diff)
	if len(lines) <= limit {
		return ensureTrailingNewline(strings.Join(lines, "\n")), false
	}
	truncated := append(lines[:limit:limit], fmt.Sprintf(messages.PreviewTruncatedFmt, limit))
	return ensureTrailingNewline(strings.Join(truncated, "\n")), true
}

func splitDiffLines(content string) []string {
	trimmed := strings.TrimRight(content, "\n")
	if trimmed == "" {
		return []string{}
	}
	return strings.Split(trimmed, "\n")
}

func ensureTrailingNewline(content string) string {
	if content == "" {
		return ""
	}
	if strings.HasSuffix(content, "\n") {
		return content
	}
	return content + "\n"
}
