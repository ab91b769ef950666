package pipeline

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/conn-castle/ladder/internal/messages"
)

// excludedDirs are never scanned, whatever the driver's globs say.
var excludedDirs = map[string]struct{}{
	"vendor":       {},
	"node_modules": {},
	".git":         {},
}

// Scope selects the files a driver transforms, by slash-separated path
// relative to the project root.
type Scope struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewScope compiles include and exclude patterns. An empty include list matches every file.
func NewScope(include []string, exclude []string) (*Scope, error) {
	s := &Scope{}
	for _, pattern := range include {
		g, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		s.include = append(s.include, g)
	}
	for _, pattern := range exclude {
		g, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		s.exclude = append(s.exclude, g)
	}
	return s, nil
}

// MustScope is NewScope for patterns known at compile time.
func MustScope(include []string, exclude []string) *Scope {
	s, err := NewScope(include, exclude)
	if err != nil {
		panic(err)
	}
	return s
}

// WithExclude returns a copy of s that also excludes patterns.
func (s *Scope) WithExclude(patterns ...string) (*Scope, error) {
	out := &Scope{
		include: append([]glob.Glob(nil), s.include...),
		exclude: append([]glob.Glob(nil), s.exclude...),
	}
	for _, pattern := range patterns {
		g, err := compilePattern(pattern)
		if err != nil {
			return nil, err
		}
		out.exclude = append(out.exclude, g)
	}
	return out, nil
}

// compilePattern compiles a glob where "**" spans directories. "dir/**/x"
// also matches "dir/x", and a leading "**/" also matches files at the root.
func compilePattern(pattern string) (glob.Glob, error) {
	pattern = filepath.ToSlash(strings.TrimSpace(pattern))
	alternatives := []string{pattern}
	if strings.HasPrefix(pattern, "**/") {
		alternatives = append(alternatives, strings.TrimPrefix(pattern, "**/"))
	}
	if strings.Contains(pattern, "/**/") {
		alternatives = append(alternatives, strings.Replace(pattern, "/**/", "/", 1))
	}
	expr := alternatives[0]
	if len(alternatives) > 1 {
		expr = "{" + strings.Join(alternatives, ",") + "}"
	}
	g, err := glob.Compile(expr, '/')
	if err != nil {
		return nil, fmt.Errorf(messages.PipelineInvalidGlobFmt, pattern, err)
	}
	return g, nil
}

// Match reports whether rel (slash-separated, relative to the root) is in scope.
func (s *Scope) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	if inExcludedDir(rel) {
		return false
	}
	for _, g := range s.exclude {
		if g.Match(rel) {
			return false
		}
	}
	if len(s.include) == 0 {
		return true
	}
	for _, g := range s.include {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func inExcludedDir(rel string) bool {
	parts := strings.Split(rel, "/")
	for _, part := range parts[:len(parts)-1] {
		if _, ok := excludedDirs[part]; ok {
			return true
		}
	}
	return false
}

// Files walks root and returns the absolute paths of every regular file in
// scope, sorted. Entries below root that cannot be scanned are reported to
// warn and skipped.
func (s *Scope) Files(sys System, root string, warn func(format string, args ...any)) ([]string, error) {
	var files []string
	err := sys.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root || d == nil {
				return err
			}
			if warn != nil {
				warn(messages.PipelineSkipUnscannableFmt, path, err)
			}
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if _, ok := excludedDirs[d.Name()]; ok && path != root {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if s.Match(rel) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf(messages.PipelineWalkFmt, root, err)
	}
	sort.Strings(files)
	return files, nil
}
