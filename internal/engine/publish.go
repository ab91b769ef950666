package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/messages"
	"github.com/conn-castle/ladder/internal/preview"
	"github.com/conn-castle/ladder/internal/vcs"
)

// publish pushes the checked-out branch and opens a pull request against the base.
func (e *Engine) publish(ctx context.Context, r *run) (*vcs.PullRequest, error) {
	head, err := r.repo.CurrentBranch(ctx)
	if err != nil {
		return nil, err
	}
	base := r.opts.BaseBranch
	if base == "" {
		base = r.result.StartBranch
	}
	remote := r.opts.remote()
	if err := r.repo.Push(ctx, remote, head); err != nil {
		return nil, err
	}
	res := r.result
	return r.repo.CreatePullRequest(ctx, vcs.PROptions{
		Remote: remote,
		Title:  fmt.Sprintf(messages.PRTitleFmt, res.Driver, res.From, res.To),
		Body:   Describe(res, r.opts.DiffLines),
		Head:   head,
		Base:   base,
	})
}

// Describe renders the pull request description for res: a summary, the
// changes per file, diffs truncated to diffLines, warnings, and next steps.
func Describe(res *Result, diffLines int) string {
	var b strings.Builder
	fmt.Fprintf(&b, messages.PRHeadingFmt, res.Driver, res.From, res.To)
	fmt.Fprintf(&b, messages.PRPathFmt, strings.Join(res.Path, " → "))

	all := res.Results()
	files := preview.Combine(all)
	diffs := preview.Build(res.ProjectPath, files, diffLines)
	summary := change.Summarize(all)
	b.WriteString(messages.PRSummaryHeader)
	fmt.Fprintf(&b, messages.PRSummaryLineFmt, len(files), len(diffs), summary.Changes, summary.Advisories)

	b.WriteString(messages.PRChangesHeader)
	if len(files) == 0 {
		b.WriteString(messages.PRNoChanges)
	}
	for _, file := range files {
		fmt.Fprintf(&b, messages.PRFileHeaderFmt, relative(res.ProjectPath, file.Path))
		for _, c := range file.Changes {
			fmt.Fprintf(&b, messages.PRChangeLineFmt, c.String())
		}
		b.WriteString("\n")
	}

	if len(diffs) > 0 {
		b.WriteString(messages.PRDiffsHeader)
		for _, diff := range diffs {
			fmt.Fprintf(&b, messages.PRFileHeaderFmt, diff.Path)
			fmt.Fprintf(&b, messages.PRDiffBlockFmt, diff.UnifiedDiff)
		}
	}

	if warnings := res.Warnings(); len(warnings) > 0 {
		b.WriteString(messages.PRWarningsHeader)
		for _, w := range warnings {
			fmt.Fprintf(&b, messages.PRChangeLineFmt, w)
		}
		b.WriteString("\n")
	}

	b.WriteString(messages.PRNextStepsHeader)
	b.WriteString(messages.PRNextSteps)
	return b.String()
}

func relative(root string, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}
