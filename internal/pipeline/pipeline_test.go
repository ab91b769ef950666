package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/manifest"
	"github.com/conn-castle/ladder/internal/upgrade"
)

var helloRule = RewriteRule("hello", []string{".txt"}, regexp.MustCompile(`\bhello\b`), "goodbye", "Say goodbye")

func newTestPipeline(manifestFn ManifestFunc) *Pipeline {
	catalog := Catalog{}
	catalog.Add("1", "2", helloRule)
	return &Pipeline{
		Scope:    MustScope([]string{"**/*.txt"}, nil),
		Catalog:  catalog,
		Manifest: manifestFn,
	}
}

func TestRunTransformsAndCaches(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.txt", "hello world\n")
	writeFile(t, root, "b.txt", "nothing here\n")
	writeFile(t, root, "vendor/c.txt", "hello vendor\n")

	uc := upgrade.NewContext(root, "1", "2", true)
	results, err := newTestPipeline(nil).Run(context.Background(), uc)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, a, results[0].Path)
	assert.Equal(t, "hello world\n", results[0].OriginalContent)
	assert.Equal(t, "goodbye world\n", results[0].TransformedContent)

	cached, ok := uc.Cached(a)
	require.True(t, ok)
	assert.Equal(t, "goodbye world\n", cached)
}

func TestRunPrefersCachedContent(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.txt", "on disk\n")

	uc := upgrade.NewContext(root, "1", "2", true)
	uc.Store(a, "hello from cache\n")
	results, err := newTestPipeline(nil).Run(context.Background(), uc)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "hello from cache\n", results[0].OriginalContent)
}

func TestRunIsIdempotentOnItsOutput(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "hello\nhello again\n")

	uc := upgrade.NewContext(root, "1", "2", true)
	p := newTestPipeline(nil)
	first, err := p.Run(context.Background(), uc)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := p.Run(context.Background(), uc)
	require.NoError(t, err)
	assert.Empty(t, second)
}

// mapSystem serves an in-memory tree mounted at root.
type mapSystem struct {
	root       string
	files      fstest.MapFS
	unreadable bool
	walkErrs   map[string]error
}

func (m mapSystem) ReadFile(name string) ([]byte, error) {
	if m.unreadable {
		return nil, fs.ErrPermission
	}
	rel, err := filepath.Rel(m.root, name)
	if err != nil {
		return nil, err
	}
	return m.files.ReadFile(filepath.ToSlash(rel))
}

func (m mapSystem) WalkDir(root string, fn fs.WalkDirFunc) error {
	return fs.WalkDir(m.files, ".", func(path string, d fs.DirEntry, err error) error {
		if injected, ok := m.walkErrs[path]; ok && err == nil {
			err = injected
		}
		return fn(filepath.Join(root, filepath.FromSlash(path)), d, err)
	})
}

func TestRunReadsThroughSystem(t *testing.T) {
	root := t.TempDir()
	p := newTestPipeline(nil)
	p.System = mapSystem{root: root, files: fstest.MapFS{"docs/a.txt": {Data: []byte("hello memory\n")}}}

	uc := upgrade.NewContext(root, "1", "2", true)
	results, err := p.Run(context.Background(), uc)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(root, "docs", "a.txt"), results[0].Path)
	assert.Equal(t, "hello memory\n", results[0].OriginalContent)
	assert.Equal(t, "goodbye memory\n", results[0].TransformedContent)
	assert.Empty(t, uc.Warnings)
}

func TestRunSkipsUnscannableDirectoriesWithWarning(t *testing.T) {
	root := t.TempDir()
	p := newTestPipeline(nil)
	p.System = mapSystem{
		root: root,
		files: fstest.MapFS{
			"a.txt":          {Data: []byte("hello\n")},
			"locked/b.txt":   {Data: []byte("hello\n")},
			"open/c.txt":     {Data: []byte("hello\n")},
			"open/d.txt":     {Data: []byte("nothing\n")},
			"locked/sub/e.x": {Data: []byte("x")},
		},
		walkErrs: map[string]error{"locked": fs.ErrPermission},
	}

	uc := upgrade.NewContext(root, "1", "2", true)
	results, err := p.Run(context.Background(), uc)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, filepath.Join(root, "a.txt"), results[0].Path)
	assert.Equal(t, filepath.Join(root, "open", "c.txt"), results[1].Path)
	require.Len(t, uc.Warnings, 1)
	assert.Contains(t, uc.Warnings[0], "locked")
	assert.Contains(t, uc.Warnings[0], "permission denied")
}

func TestRunFailsWhenRootCannotBeScanned(t *testing.T) {
	root := t.TempDir()
	p := newTestPipeline(nil)
	p.System = mapSystem{
		root:     root,
		files:    fstest.MapFS{"a.txt": {Data: []byte("hello\n")}},
		walkErrs: map[string]error{".": fs.ErrPermission},
	}

	_, err := p.Run(context.Background(), upgrade.NewContext(root, "1", "2", true))
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrPermission)
}

func TestRunSkipsUnreadableFilesWithWarning(t *testing.T) {
	root := t.TempDir()
	p := newTestPipeline(nil)
	p.System = mapSystem{root: root, files: fstest.MapFS{"ghost.txt": {Data: []byte("hello")}}, unreadable: true}

	uc := upgrade.NewContext(root, "1", "2", true)
	results, err := p.Run(context.Background(), uc)
	require.NoError(t, err)
	assert.Empty(t, results)
	require.Len(t, uc.Warnings, 1)
	assert.Contains(t, uc.Warnings[0], "ghost.txt")
}

func TestRunReportsFileProgress(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"01", "02", "03", "04", "05", "06", "07", "08", "09", "10", "11", "12"} {
		writeFile(t, root, name+".txt", "x\n")
	}

	var events []upgrade.Progress
	p := newTestPipeline(nil)
	p.Report = func(ev upgrade.Progress) { events = append(events, ev) }

	uc := upgrade.NewContext(root, "1", "2", true)
	uc.Step, uc.TotalSteps = 1, 3
	_, err := p.Run(context.Background(), uc)
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, 10, events[0].FilesProcessed)
	assert.Equal(t, 12, events[1].FilesProcessed)
	assert.Equal(t, 12, events[1].TotalFiles)
	assert.Equal(t, upgrade.StageTransforming, events[1].Stage)
	assert.Equal(t, 1, events[1].CurrentStep)
	assert.Equal(t, 3, events[1].TotalSteps)
}

func TestRunManifestPassWithoutTransformers(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "composer.json", "{\n    \"require\": {\n        \"php\": \"^8.0\"\n    }\n}\n")

	p := newTestPipeline(func(uc *upgrade.Context) (*change.StepResult, error) {
		return EditJSONManifest(uc, path, func(doc *manifest.Document) []change.Change {
			c, ok := manifest.BumpPackage(doc, "php", "^"+uc.ToVersion)
			if !ok {
				return nil
			}
			return []change.Change{c}
		})
	})

	uc := upgrade.NewContext(root, "2", "3", true)
	results, err := p.Run(context.Background(), uc)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, path, results[0].Path)
	assert.Contains(t, results[0].TransformedContent, `"php": "^3"`)

	cached, ok := uc.Cached(path)
	require.True(t, ok)
	assert.Equal(t, results[0].TransformedContent, cached)
}

func TestRunManifestErrorIsFatal(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a.txt", "hello\n")

	p := newTestPipeline(func(*upgrade.Context) (*change.StepResult, error) {
		return nil, errors.New("boom")
	})
	_, err := p.Run(context.Background(), upgrade.NewContext(root, "1", "2", true))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestRunMergesManifestResultForSamePath(t *testing.T) {
	root := t.TempDir()
	a := writeFile(t, root, "a.txt", "hello\n")

	p := newTestPipeline(func(uc *upgrade.Context) (*change.StepResult, error) {
		content, err := uc.ReadFile(a)
		if err != nil {
			return nil, err
		}
		return &change.StepResult{
			Path:               a,
			OriginalContent:    content,
			TransformedContent: content + "tail\n",
			Changes:            []change.Change{change.Advisory(change.KindAdd, 0, "Append tail")},
		}, nil
	})
	results, err := p.Run(context.Background(), upgrade.NewContext(root, "1", "2", true))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "hello\n", results[0].OriginalContent)
	assert.Equal(t, "goodbye\ntail\n", results[0].TransformedContent)
	assert.Len(t, results[0].Changes, 2)
}

func TestEditJSONManifestMissingFileIsNil(t *testing.T) {
	uc := upgrade.NewContext(t.TempDir(), "1", "2", true)
	result, err := EditJSONManifest(uc, uc.Path("composer.json"), func(*manifest.Document) []change.Change {
		t.Fatal("edit must not run")
		return nil
	})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestEditJSONManifestRejectsInvalidJSON(t *testing.T) {
	root := t.TempDir()
	path := writeFile(t, root, "composer.json", "{ not json")
	_, err := EditJSONManifest(upgrade.NewContext(root, "1", "2", true), path, func(*manifest.Document) []change.Change { return nil })
	require.Error(t, err)
}

func TestRunHonorsContextExclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "legacy/a.txt", "hello\n")
	writeFile(t, root, "b.txt", "hello\n")

	uc := upgrade.NewContext(root, "1", "2", true)
	uc.Exclude = []string{"legacy/**"}
	results, err := newTestPipeline(nil).Run(context.Background(), uc)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "b.txt")}, change.Paths(results))
}
