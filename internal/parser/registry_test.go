package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct{ name string }

func (s stubParser) Parse(src string) (any, error)     { return s.name + ":" + src, nil }
func (s stubParser) Generate(tree any) (string, error) { return tree.(string), nil }

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	r.Register("php", stubParser{name: "first"})
	r.Register("php", stubParser{name: "second"})

	p, ok := r.Get("php")
	require.True(t, ok)
	tree, err := p.Parse("x")
	require.NoError(t, err)
	assert.Equal(t, "second:x", tree)
}

func TestRegistryByExtension(t *testing.T) {
	r := NewDefaultRegistry()

	tests := []struct {
		ext  string
		want bool
	}{
		{ext: "go", want: true},
		{ext: ".go", want: true},
		{ext: "JSON", want: true},
		{ext: "php", want: false},
		{ext: "exe", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			_, ok := r.ByExtension(tt.ext)
			assert.Equal(t, tt.want, ok)
		})
	}
}

func TestNilRegistryHasNothing(t *testing.T) {
	var r *Registry
	assert.False(t, r.Has("go"))
}

func TestGoParserRoundTrip(t *testing.T) {
	src := "package demo\n\n// Add sums.\nfunc Add(a, b int) int {\n\treturn a + b\n}\n"
	p := GoParser{}

	tree, err := p.Parse(src)
	require.NoError(t, err)
	file, ok := tree.(*GoFile)
	require.True(t, ok)
	assert.Equal(t, "demo", file.File.Name.Name)
	assert.Equal(t, 4, file.Line(file.File.Decls[0].Pos()))

	out, err := p.Generate(tree)
	require.NoError(t, err)
	assert.Equal(t, src, out)
}

func TestGoParserRejectsInvalidSource(t *testing.T) {
	_, err := GoParser{}.Parse("package")
	assert.Error(t, err)

	_, err = GoParser{}.Generate("not a tree")
	assert.Error(t, err)
}

func TestJSONParserRoundTrip(t *testing.T) {
	src := "{\n  \"b\": 1,\n  \"a\": [true, null]\n}\n"
	tree, err := JSONParser{}.Parse(src)
	require.NoError(t, err)

	out, err := JSONParser{}.Generate(tree)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": [\n    true,\n    null\n  ]\n}\n", out)
}
