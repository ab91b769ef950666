package golang

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/parser"
	"github.com/conn-castle/ladder/internal/testutil"
	"github.com/conn-castle/ladder/internal/upgrade"
)

const goMod = `module example.com/app

go 1.21

toolchain go1.21.5

require golang.org/x/mod v0.17.0
`

func TestDetect(t *testing.T) {
	root := t.TempDir()
	ok, err := New().Detect(root)
	require.NoError(t, err)
	assert.False(t, ok)

	testutil.WriteFiles(t, root, map[string]string{"go.mod": goMod})
	ok, err = New().Detect(root)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCurrentVersion(t *testing.T) {
	tests := []struct {
		name  string
		gomod string
		want  string
	}{
		{name: "minor", gomod: goMod, want: "1.21"},
		{name: "patch", gomod: "module m\n\ngo 1.23.4\n", want: "1.23"},
		{name: "no directive", gomod: "module m\n", want: DefaultVersion},
		{name: "garbage", gomod: "module m\ngo banana\n", want: DefaultVersion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			testutil.WriteFiles(t, root, map[string]string{"go.mod": tt.gomod})
			assert.Equal(t, tt.want, New().CurrentVersion(root))
		})
	}
	assert.Equal(t, DefaultVersion, New().CurrentVersion(t.TempDir()))
}

func TestMinorVersion(t *testing.T) {
	assert.Equal(t, "1.22", MinorVersion("1.22.3"))
	assert.Equal(t, "1.21", MinorVersion("go1.21"))
	assert.Equal(t, "", MinorVersion("latest"))
}

func TestBumpGoDirective(t *testing.T) {
	out, changes, err := BumpGoDirective("go.mod", []byte(goMod), "1.22")
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, change.KindModify, changes[0].Kind)
	assert.Equal(t, 3, changes[0].Line)
	assert.Equal(t, change.KindRemove, changes[1].Kind)
	assert.Contains(t, string(out), "go 1.22\n")
	assert.NotContains(t, string(out), "toolchain")
	assert.Contains(t, string(out), "require golang.org/x/mod v0.17.0")
}

func TestBumpGoDirectiveKeepsNewerToolchain(t *testing.T) {
	src := "module m\n\ngo 1.21\n\ntoolchain go1.23.1\n"
	out, changes, err := BumpGoDirective("go.mod", []byte(src), "1.22")
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Contains(t, string(out), "toolchain go1.23.1")
}

func TestBumpGoDirectiveNoOpWhenAlreadyNewer(t *testing.T) {
	src := []byte("module m\n\ngo 1.24.2\n")
	out, changes, err := BumpGoDirective("go.mod", src, "1.22")
	require.NoError(t, err)
	assert.Empty(t, changes)
	assert.Equal(t, src, out)
}

func TestBumpGoDirectiveAddsMissingDirective(t *testing.T) {
	out, changes, err := BumpGoDirective("go.mod", []byte("module m\n"), "1.22")
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, change.KindAdd, changes[0].Kind)
	assert.Contains(t, string(out), "go 1.22")
}

func TestBumpGoDirectiveParseError(t *testing.T) {
	_, _, err := BumpGoDirective("go.mod", []byte("module\n"), "1.22")
	require.Error(t, err)
}

func TestTransformRemovesLoopVarCopyAndBumpsGoMod(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{
		"go.mod": goMod,
		"main.go": `package main

func run(items []string) {
	for _, item := range items {
		item := item
		go func() { println(item) }()
	}
}
`,
		"testdata/skip.go": "package skip\n\nfunc f(xs []int) {\n\tfor _, x := range xs {\n\t\tx := x\n\t\t_ = x\n\t}\n}\n",
	})

	uc := upgrade.NewContext(root, "1.21", "1.22", true)
	uc.Parsers = parser.NewDefaultRegistry()
	results, err := New().Transform(context.Background(), uc)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "go.mod"),
		filepath.Join(root, "main.go"),
	}, change.Paths(results))
	for _, r := range results {
		if r.Path == filepath.Join(root, "main.go") {
			assert.NotContains(t, r.TransformedContent, "item := item")
			assert.Contains(t, r.TransformedContent, "go func() { println(item) }()")
		}
	}
}

func TestHooksAndValidate(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFiles(t, root, map[string]string{"go.mod": "module m\n\ngo 1.21\n"})
	hooks := New().Hooks()

	var out bytes.Buffer
	uc := upgrade.NewContext(root, "1.21", "1.22", false)
	uc.Out = &out
	require.NoError(t, hooks.After(context.Background(), uc))
	assert.Contains(t, out.String(), "go mod tidy")

	result, err := hooks.Check(context.Background(), uc)
	require.NoError(t, err)
	assert.False(t, result.Valid)

	uc.Store(uc.Path("go.mod"), "module m\n\ngo 1.22\n")
	result, err = hooks.Check(context.Background(), uc)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}
