package golang

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/parser"
)

func applyStep(t *testing.T, from string, to string, content string) (string, []change.Change) {
	t.Helper()
	current := content
	var changes []change.Change
	parsers := parser.NewDefaultRegistry()
	for _, tr := range Catalog().For(from, to) {
		if !tr.Matches("/p/main.go") {
			continue
		}
		next, cs := tr.Transform("/p/main.go", current, parsers)
		current = next
		changes = append(changes, cs...)
	}
	return current, changes
}

func TestCatalogCoversEveryStep(t *testing.T) {
	c := Catalog()
	for i := 0; i+1 < len(Versions); i++ {
		assert.NotEmpty(t, c.For(Versions[i], Versions[i+1]), "%s -> %s", Versions[i], Versions[i+1])
	}
}

func TestGo121Advisories(t *testing.T) {
	src := "package m\n\nfunc maxInt(a, b int) int { return a }\n\nfunc f(xs []string) { sort.Strings(xs) }\n"
	out, changes := applyStep(t, "1.20", "1.21", src)
	assert.Equal(t, src, out)
	require.Len(t, changes, 2)
	assert.Equal(t, 3, changes[0].Line)
	assert.True(t, changes[0].IsAdvisory())
}

func TestLoopVarCopyRemoval(t *testing.T) {
	src := strings.Join([]string{
		"package m",
		"",
		"func f(xs []int, m map[string]int) {",
		"\tfor i, x := range xs {",
		"\t\ti, x := i, x",
		"\t\t_, _ = i, x",
		"\t}",
		"\tfor k := range m {",
		"\t\tk := k",
		"\t\tother := k",
		"\t\t_ = other",
		"\t}",
		"\tfor j := 0; j < 3; j++ {",
		"\t\tj := j",
		"\t\t_ = j",
		"\t}",
		"}",
		"",
	}, "\n")

	out, changes := applyStep(t, "1.21", "1.22", src)
	assert.NotContains(t, out, "i, x := i, x")
	assert.NotContains(t, out, "k := k")
	assert.NotContains(t, out, "j := j")
	assert.Contains(t, out, "other := k")

	var removed []int
	for _, c := range changes {
		if c.Kind == change.KindRemove {
			removed = append(removed, c.Line)
		}
	}
	assert.Equal(t, []int{5, 9, 14}, removed)
	assert.Contains(t, descriptionsOf(changes), "for j := range 3")
}

func TestLoopVarCopyLeavesUnparsableFiles(t *testing.T) {
	src := "package m\n\nfunc f(xs []int) {\n\tfor _, x := range xs {\n\t\tx := x\n"
	out, changes := applyStep(t, "1.21", "1.22", src)
	assert.Equal(t, src, out)
	assert.Empty(t, changes)
}

func TestLoopVarCopyNeedsParser(t *testing.T) {
	src := "package m\n\nfunc f(xs []int) {\n\tfor _, x := range xs {\n\t\tx := x\n\t\t_ = x\n\t}\n}\n"
	out, changes := removeLoopVarCopies("/p/main.go", src, nil)
	assert.Equal(t, src, out)
	assert.Empty(t, changes)
}

func TestLaterStepAdvisories(t *testing.T) {
	tests := []struct {
		from, to string
		src      string
		want     string
	}{
		{from: "1.22", to: "1.23", src: "t := time.NewTimer(d)", want: "timers"},
		{from: "1.23", to: "1.24", src: "for i := 0; i < b.N; i++ {", want: "b.Loop()"},
		{from: "1.24", to: "1.25", src: "wg.Add(1)\ngo func() {\n\tdefer wg.Done()\n}()", want: "wg.Go"},
	}
	for _, tt := range tests {
		t.Run(tt.from+"-"+tt.to, func(t *testing.T) {
			out, changes := applyStep(t, tt.from, tt.to, tt.src)
			assert.Equal(t, tt.src, out)
			require.Len(t, changes, 1)
			assert.Contains(t, changes[0].Description, tt.want)
		})
	}
}

func TestWaitGroupRequiresDone(t *testing.T) {
	src := "wg.Add(1)\ngo func() {\n\twork()\n}()"
	_, changes := applyStep(t, "1.24", "1.25", src)
	assert.Empty(t, changes)
}

func descriptionsOf(changes []change.Change) string {
	var b strings.Builder
	for _, c := range changes {
		b.WriteString(c.Description)
		b.WriteString("\n")
	}
	return b.String()
}
