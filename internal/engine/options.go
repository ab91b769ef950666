package engine

import (
	"io"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/upgrade"
	"github.com/conn-castle/ladder/internal/vcs"
)

// ValidationPolicy decides what an invalid step does to the run.
type ValidationPolicy string

const (
	// ValidationWarn records validation errors as warnings and keeps going.
	ValidationWarn ValidationPolicy = "warn"
	// ValidationStrict aborts the step before anything is written.
	ValidationStrict ValidationPolicy = "strict"
)

// DefaultRemote is pushed to when Options.Remote is empty.
const DefaultRemote = "origin"

// Options control a single upgrade run.
type Options struct {
	DryRun   bool
	CreatePR bool
	// BranchName, when set, is created on the first step and reused by the
	// rest. Otherwise every step gets its own branch.
	BranchName string
	// BaseBranch is the pull request base; defaults to the branch checked out at start.
	BaseBranch          string
	Remote              string
	Validation          ValidationPolicy
	CascadeDependencies bool
	// Exclude adds glob patterns no driver may touch.
	Exclude []string
	// DiffLines caps each diff in the pull request description.
	DiffLines int
	// Out receives hook messages. Nil discards them.
	Out io.Writer
}

func (o Options) remote() string {
	if o.Remote == "" {
		return DefaultRemote
	}
	return o.Remote
}

// Step is the outcome of one version increment.
type Step struct {
	From       string                   `json:"from"`
	To         string                   `json:"to"`
	Branch     string                   `json:"branch,omitempty"`
	Results    []change.StepResult      `json:"results"`
	Validation upgrade.ValidationResult `json:"validation"`
	Warnings   []string                 `json:"warnings,omitempty"`
}

// Result is the outcome of an upgrade run. It is returned alongside publish
// errors so callers still see what was committed.
type Result struct {
	Driver      string           `json:"driver"`
	From        string           `json:"from"`
	To          string           `json:"to"`
	ProjectPath string           `json:"project_path"`
	Path        []string         `json:"path"`
	DryRun      bool             `json:"dry_run"`
	StartBranch string           `json:"start_branch,omitempty"`
	Steps       []Step           `json:"steps"`
	PullRequest *vcs.PullRequest `json:"pull_request,omitempty"`
}

// Results returns every step result in step order.
func (r *Result) Results() []change.StepResult {
	var out []change.StepResult
	for _, step := range r.Steps {
		out = append(out, step.Results...)
	}
	return out
}

// Warnings returns every step warning in step order.
func (r *Result) Warnings() []string {
	var out []string
	for _, step := range r.Steps {
		out = append(out, step.Warnings...)
	}
	return out
}

// Detection is a driver that recognized a project, with the version it found.
type Detection struct {
	Driver  string `json:"driver"`
	Version string `json:"version"`
}
