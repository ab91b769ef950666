package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/engine"
	"github.com/conn-castle/ladder/internal/messages"
	"github.com/conn-castle/ladder/internal/preview"
	"github.com/conn-castle/ladder/internal/upgrade"
)

var (
	diffColorAdded   = color.New(color.FgGreen)
	diffColorRemoved = color.New(color.FgRed)
	diffColorHunk    = color.New(color.FgCyan)
	warnColor        = color.New(color.FgYellow)
)

// renderResult prints res as text: one block per step, warnings, a summary,
// optional diffs, and the pull request link.
func renderResult(w io.Writer, res *engine.Result, showDiff bool, diffLines int) error {
	if len(res.Steps) == 0 {
		_, err := fmt.Fprintf(w, messages.UpgradeNothingFmt, res.Driver, res.To)
		return err
	}
	header := messages.UpgradeHeaderFmt
	if res.DryRun {
		header = messages.UpgradeDryRunHeaderFmt
	}
	if _, err := fmt.Fprintf(w, header, res.Driver, res.From, res.To); err != nil {
		return err
	}
	for _, step := range res.Steps {
		if err := renderStep(w, res.ProjectPath, step); err != nil {
			return err
		}
	}

	all := res.Results()
	files := preview.Combine(all)
	diffs := preview.Build(res.ProjectPath, files, diffLines)
	summary := change.Summarize(all)
	if _, err := fmt.Fprintf(w, messages.UpgradeSummaryFmt, len(files), len(diffs), summary.Changes, summary.Advisories); err != nil {
		return err
	}
	if showDiff {
		for _, diff := range diffs {
			if _, err := fmt.Fprintf(w, messages.UpgradeDiffHeaderFmt, diff.Path); err != nil {
				return err
			}
			if err := writeDiff(w, diff.UnifiedDiff); err != nil {
				return err
			}
		}
	}
	if res.PullRequest != nil {
		if _, err := fmt.Fprintf(w, messages.UpgradePullRequestFmt, color.GreenString(res.PullRequest.HTMLURL)); err != nil {
			return err
		}
	}
	return nil
}

func renderStep(w io.Writer, root string, step engine.Step) error {
	if _, err := fmt.Fprintf(w, messages.UpgradeStepFmt, step.From, step.To); err != nil {
		return err
	}
	if step.Branch != "" {
		if _, err := fmt.Fprintf(w, messages.UpgradeStepBranchFmt, step.Branch); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	if len(step.Results) == 0 {
		if _, err := fmt.Fprintln(w, messages.UpgradeNoChanges); err != nil {
			return err
		}
	}
	for _, result := range step.Results {
		if _, err := fmt.Fprintf(w, messages.UpgradeFileFmt, displayPath(root, result.Path)); err != nil {
			return err
		}
		for _, c := range result.Changes {
			if _, err := fmt.Fprintf(w, messages.UpgradeChangeFmt, c.String()); err != nil {
				return err
			}
		}
	}
	for _, warning := range step.Warnings {
		if _, err := warnColor.Fprintf(w, messages.UpgradeWarningFmt, warning); err != nil {
			return err
		}
	}
	return nil
}

// writeDiff prints a unified diff, coloring added, removed, and hunk lines.
func writeDiff(w io.Writer, diff string) error {
	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}
		var err error
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			_, err = io.WriteString(w, line)
		case strings.HasPrefix(line, "+"):
			_, err = diffColorAdded.Fprint(w, line)
		case strings.HasPrefix(line, "-"):
			_, err = diffColorRemoved.Fprint(w, line)
		case strings.HasPrefix(line, "@@"):
			_, err = diffColorHunk.Fprint(w, line)
		default:
			_, err = io.WriteString(w, line)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// jsonDiff is the JSON shape of a file diff.
type jsonDiff struct {
	Path      string `json:"path"`
	Diff      string `json:"diff"`
	Truncated bool   `json:"truncated,omitempty"`
}

// jsonResult is the JSON shape of an upgrade run.
type jsonResult struct {
	*engine.Result
	Diffs []jsonDiff `json:"diffs,omitempty"`
	Error string     `json:"error,omitempty"`
}

// renderJSON encodes res with its diffs and the run error, if any.
func renderJSON(w io.Writer, res *engine.Result, diffLines int, runErr error) error {
	out := jsonResult{Result: res}
	for _, diff := range preview.Build(res.ProjectPath, preview.Combine(res.Results()), diffLines) {
		out.Diffs = append(out.Diffs, jsonDiff{Path: diff.Path, Diff: diff.UnifiedDiff, Truncated: diff.Truncated})
	}
	if runErr != nil {
		out.Error = runErr.Error()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// progressRenderer prints engine stages to w. File progress is only printed
// once a step has processed every file.
func progressRenderer(w io.Writer) upgrade.ProgressFunc {
	return func(p upgrade.Progress) {
		stage := color.CyanString(string(p.Stage))
		if p.Stage == upgrade.StageError {
			stage = color.RedString(string(p.Stage))
		}
		if p.TotalFiles > 0 {
			if p.FilesProcessed != p.TotalFiles {
				return
			}
			_, _ = fmt.Fprintf(w, messages.UpgradeFileProgressFmt, stage, p.CurrentStep, p.TotalSteps, p.FilesProcessed, p.TotalFiles)
			return
		}
		_, _ = fmt.Fprintf(w, messages.UpgradeProgressFmt, stage, p.Message)
	}
}

func displayPath(root string, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
