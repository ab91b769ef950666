package upgrade

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/conn-castle/ladder/internal/parser"
)

// readFile is a seam for tests.
var readFile = os.ReadFile

// Context is the state of a single version step. It is created fresh for
// every step and discarded when the step completes.
type Context struct {
	ProjectPath string
	FromVersion string
	ToVersion   string
	DryRun      bool
	Step        int
	TotalSteps  int

	// Files caches file content by absolute path. Content produced earlier in
	// the run is seeded here so later reads see it without touching disk.
	Files map[string]string
	// Metadata carries free-form values between hooks and transforms of one step.
	Metadata map[string]any
	// Out receives side-channel messages from hooks. Nil discards them.
	Out io.Writer
	// Parsers resolves structured parsers for transformers. May be nil.
	Parsers parser.Lookup
	// Exclude lists extra glob patterns that no driver may touch.
	Exclude []string
	// Warnings collects non-fatal problems found during the step.
	Warnings []string
}

// NewContext returns a step context for projectPath.
func NewContext(projectPath string, from string, to string, dryRun bool) *Context {
	return &Context{
		ProjectPath: projectPath,
		FromVersion: from,
		ToVersion:   to,
		DryRun:      dryRun,
		Files:       make(map[string]string),
		Metadata:    make(map[string]any),
	}
}

// Path joins elem onto the project path.
func (c *Context) Path(elem ...string) string {
	return filepath.Join(append([]string{c.ProjectPath}, elem...)...)
}

// Cached returns the cached content for path.
func (c *Context) Cached(path string) (string, bool) {
	content, ok := c.Files[path]
	return content, ok
}

// Store records content for path so later reads in this step observe it.
func (c *Context) Store(path string, content string) {
	if c.Files == nil {
		c.Files = make(map[string]string)
	}
	c.Files[path] = content
}

// ReadFile returns the cached content for path, falling back to disk.
func (c *Context) ReadFile(path string) (string, error) {
	if content, ok := c.Cached(path); ok {
		return content, nil
	}
	data, err := readFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Warn records a non-fatal problem.
func (c *Context) Warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Printf writes a hook message to Out.
func (c *Context) Printf(format string, args ...any) {
	if c.Out == nil {
		return
	}
	_, _ = fmt.Fprintf(c.Out, format, args...)
}

// Derive returns a context for another driver's step that shares this step's
// file cache, output, and metadata.
func (c *Context) Derive(from string, to string) *Context {
	return &Context{
		ProjectPath: c.ProjectPath,
		FromVersion: from,
		ToVersion:   to,
		DryRun:      c.DryRun,
		Step:        c.Step,
		TotalSteps:  c.TotalSteps,
		Files:       c.Files,
		Metadata:    c.Metadata,
		Out:         c.Out,
		Parsers:     c.Parsers,
		Exclude:     c.Exclude,
	}
}
