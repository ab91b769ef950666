package golang

import (
	"go/ast"
	"go/token"
	"regexp"
	"sort"
	"strings"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/parser"
	"github.com/conn-castle/ladder/internal/pipeline"
)

var goFiles = []string{".go"}

var (
	minMaxHelper   = regexp.MustCompile(`^func\s+(?:min|max)\w*\s*\(`)
	sortSlice      = regexp.MustCompile(`\bsort\.(?:Slice|SliceStable|Strings|Ints|Float64s)\s*\(`)
	countingLoop   = regexp.MustCompile(`\bfor\s+(\w+)\s*:=\s*0\s*;\s*(\w+)\s*<\s*([\w.()]+)\s*;\s*(\w+)\+\+\s*\{`)
	timerCreate    = regexp.MustCompile(`\btime\.New(?:Timer|Ticker)\s*\(`)
	benchmarkLoop  = regexp.MustCompile(`\bfor\s+\w+\s*:=\s*0\s*;\s*\w+\s*<\s*b\.N\s*;`)
	waitGroupAdd   = regexp.MustCompile(`^\s*(\w+)\.Add\(1\)\s*$`)
	goFuncLiteral  = regexp.MustCompile(`^\s*go\s+func\s*\(\s*\)\s*\{`)
	deferredDone   = regexp.MustCompile(`\.Done\(\)`)
	loopVarCopyRaw = regexp.MustCompile(`^\s*(\w+(?:\s*,\s*\w+)*)\s*:=\s*(\w+(?:\s*,\s*\w+)*)\s*$`)
)

// Catalog returns the Go rule tables keyed by step.
func Catalog() pipeline.Catalog {
	c := pipeline.Catalog{}
	c.Add("1.20", "1.21",
		pipeline.AdviseRule("go121-min-max-builtins", goFiles, minMaxHelper, change.KindRemove,
			"Go 1.21 adds the min and max builtins; this helper may be redundant"),
		pipeline.AdviseRule("go121-slices-sort", goFiles, sortSlice, change.KindModify,
			"Consider slices.Sort or slices.SortFunc (Go 1.21)"),
	)
	c.Add("1.21", "1.22",
		pipeline.Rule{ID: "go122-loopvar-copy", Extensions: goFiles, Apply: removeLoopVarCopies},
		pipeline.Rule{ID: "go122-range-over-int", Extensions: goFiles, Apply: suggestRangeOverInt},
	)
	c.Add("1.22", "1.23",
		pipeline.AdviseRule("go123-timer-gc", goFiles, timerCreate, change.KindModify,
			"Since Go 1.23 unstopped timers and tickers are collected; explicit Stop calls for GC are optional"),
	)
	c.Add("1.23", "1.24",
		pipeline.AdviseRule("go124-testing-b-loop", goFiles, benchmarkLoop, change.KindModify,
			"Use for b.Loop() { ... } in benchmarks (Go 1.24)"),
	)
	c.Add("1.24", "1.25",
		pipeline.Rule{ID: "go125-waitgroup-go", Extensions: goFiles, Apply: suggestWaitGroupGo},
	)
	return c
}

// removeLoopVarCopies drops `v := v` statements that re-declare loop
// variables, which Go 1.22 makes per-iteration. Files that do not parse are
// left alone.
func removeLoopVarCopies(_ string, content string, parsers parser.Lookup) (string, []change.Change) {
	if parsers == nil {
		return content, nil
	}
	p, ok := parsers.Get("go")
	if !ok {
		return content, nil
	}
	tree, err := p.Parse(content)
	if err != nil {
		return content, nil
	}
	file, ok := tree.(*parser.GoFile)
	if !ok {
		return content, nil
	}

	lines := strings.Split(content, "\n")
	remove := map[int]bool{}
	ast.Inspect(file.File, func(n ast.Node) bool {
		var vars map[string]bool
		var body *ast.BlockStmt
		switch loop := n.(type) {
		case *ast.RangeStmt:
			if loop.Tok == token.DEFINE {
				vars = identNames(loop.Key, loop.Value)
			}
			body = loop.Body
		case *ast.ForStmt:
			if init, ok := loop.Init.(*ast.AssignStmt); ok && init.Tok == token.DEFINE {
				vars = identNames(init.Lhs...)
			}
			body = loop.Body
		default:
			return true
		}
		if len(vars) == 0 || body == nil {
			return true
		}
		for _, stmt := range body.List {
			assign, ok := stmt.(*ast.AssignStmt)
			if !ok || !isSelfCopy(assign, vars) {
				continue
			}
			start, end := file.Line(assign.Pos()), file.Line(assign.End())
			if start != end || start < 1 || start > len(lines) {
				continue
			}
			if loopVarCopyRaw.MatchString(lines[start-1]) {
				remove[start] = true
			}
		}
		return true
	})
	if len(remove) == 0 {
		return content, nil
	}

	numbers := make([]int, 0, len(remove))
	for line := range remove {
		numbers = append(numbers, line)
	}
	sort.Ints(numbers)
	changes := make([]change.Change, 0, len(numbers))
	for _, line := range numbers {
		changes = append(changes, change.Edit(change.KindRemove, line,
			"Loop variables are per-iteration since Go 1.22; the copy is redundant",
			strings.TrimSpace(lines[line-1]), ""))
	}
	kept := make([]string, 0, len(lines)-len(remove))
	for i, line := range lines {
		if !remove[i+1] {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n"), changes
}

func identNames(exprs ...ast.Expr) map[string]bool {
	names := map[string]bool{}
	for _, expr := range exprs {
		if ident, ok := expr.(*ast.Ident); ok && ident.Name != "_" {
			names[ident.Name] = true
		}
	}
	return names
}

// isSelfCopy reports whether assign is `a, b := a, b` over loop variables only.
func isSelfCopy(assign *ast.AssignStmt, vars map[string]bool) bool {
	if assign.Tok != token.DEFINE || len(assign.Lhs) != len(assign.Rhs) {
		return false
	}
	for i := range assign.Lhs {
		lhs, ok := assign.Lhs[i].(*ast.Ident)
		if !ok {
			return false
		}
		rhs, ok := assign.Rhs[i].(*ast.Ident)
		if !ok || lhs.Name != rhs.Name || !vars[lhs.Name] {
			return false
		}
	}
	return true
}

// suggestRangeOverInt flags `for i := 0; i < n; i++` loops that can range over an int.
func suggestRangeOverInt(_ string, content string, _ parser.Lookup) (string, []change.Change) {
	var changes []change.Change
	for i, line := range strings.Split(content, "\n") {
		m := countingLoop.FindStringSubmatch(line)
		if m == nil || m[1] != m[2] || m[1] != m[4] || m[3] == "b.N" {
			continue
		}
		changes = append(changes, change.Advisory(change.KindModify, i+1,
			"Go 1.22 can range over integers: for "+m[1]+" := range "+m[3]))
	}
	return content, changes
}

// suggestWaitGroupGo flags wg.Add(1) directly followed by a go func literal.
func suggestWaitGroupGo(_ string, content string, _ parser.Lookup) (string, []change.Change) {
	lines := strings.Split(content, "\n")
	var changes []change.Change
	for i := 0; i+1 < len(lines); i++ {
		m := waitGroupAdd.FindStringSubmatch(lines[i])
		if m == nil || !goFuncLiteral.MatchString(lines[i+1]) {
			continue
		}
		if i+2 < len(lines) && !deferredDone.MatchString(lines[i+2]) {
			continue
		}
		changes = append(changes, change.Advisory(change.KindModify, i+1,
			"Use "+m[1]+".Go(func() { ... }) (Go 1.25) instead of Add(1) with go func and Done"))
	}
	return content, changes
}
