package pipeline

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/ladder/internal/change"
)

func TestRewriteRecordsEachChangedLine(t *testing.T) {
	re := regexp.MustCompile(`\bfoo\(`)
	content := "a\n  foo(1);\nb\nfoo(2); foo(3);\n"

	out, changes := Rewrite(content, re, "bar(", "Rename foo to bar")
	assert.Equal(t, "a\n  bar(1);\nb\nbar(2); bar(3);\n", out)
	require.Len(t, changes, 2)
	assert.Equal(t, 2, changes[0].Line)
	assert.Equal(t, "foo(1);", changes[0].Snippet.Before)
	assert.Equal(t, "bar(1);", changes[0].Snippet.After)
	assert.Equal(t, 4, changes[1].Line)

	again, more := Rewrite(out, re, "bar(", "Rename foo to bar")
	assert.Equal(t, out, again)
	assert.Empty(t, more)
}

func TestAdviseDoesNotTouchContent(t *testing.T) {
	re := regexp.MustCompile(`enum\s`)
	changes := Advise("x\nenum A {}\nenum B {}\n", re, change.KindModify, "Review enum")
	require.Len(t, changes, 2)
	assert.True(t, changes[0].IsAdvisory())
	assert.Equal(t, 2, changes[0].Line)
	assert.Equal(t, 3, changes[1].Line)

	once := AdviseOnce("x\nenum A {}\nenum B {}\n", re, change.KindModify, "Review enum")
	require.Len(t, once, 1)
	assert.Equal(t, 2, once[0].Line)

	assert.Nil(t, AdviseOnce("nothing", re, change.KindModify, "Review enum"))
}

func TestRemoveLines(t *testing.T) {
	re := regexp.MustCompile(`^\s*x := x\s*$`)
	out, changes := RemoveLines("for _, x := range xs {\n\tx := x\n\tuse(x)\n}\n", re, "Drop copy")
	assert.Equal(t, "for _, x := range xs {\n\tuse(x)\n}\n", out)
	require.Len(t, changes, 1)
	assert.Equal(t, change.KindRemove, changes[0].Kind)
	assert.Equal(t, 2, changes[0].Line)
	assert.Equal(t, "", changes[0].Snippet.After)

	same, none := RemoveLines(out, re, "Drop copy")
	assert.Equal(t, out, same)
	assert.Empty(t, none)
}

func TestRuleMatchesByExtension(t *testing.T) {
	r := Rule{ID: "r", Extensions: []string{".php"}}
	assert.True(t, r.Matches("/p/app/User.PHP"))
	assert.False(t, r.Matches("/p/app/User.js"))
	assert.True(t, Rule{ID: "any"}.Matches("/p/README"))

	out, changes := r.Transform("/p/a.php", "same", nil)
	assert.Equal(t, "same", out)
	assert.Empty(t, changes)
}

func TestCatalog(t *testing.T) {
	c := Catalog{}
	c.Add("8.0", "8.1", Rule{ID: "a"}, Rule{ID: "b"})
	c.Add("8.0", "8.1", Rule{ID: "c"})
	c.Add("8.1", "8.2")

	names := []string{}
	for _, tr := range c.For("8.0", "8.1") {
		names = append(names, tr.Name())
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
	assert.Empty(t, c.For("8.1", "8.2"))
	assert.Equal(t, 1, c.Steps())
}
