// Package engine runs staged upgrades: it plans the version path with a
// driver, applies each step's transformations, and commits every step on its
// own so any increment can be reverted.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/lock"
	"github.com/conn-castle/ladder/internal/messages"
	"github.com/conn-castle/ladder/internal/parser"
	"github.com/conn-castle/ladder/internal/upgrade"
	"github.com/conn-castle/ladder/internal/vcs"
)

var acquireLock = lock.Acquire

// Engine owns a driver registry and a parser registry. Upgrades run one at a
// time from the calling goroutine.
type Engine struct {
	registry *upgrade.Registry
	parsers  *parser.Registry
	progress upgrade.ProgressFunc

	// System writes step results. Defaults to RealSystem.
	System System
	// OpenVCS returns the coordinator for a project. Defaults to git with GitHub.
	OpenVCS func(projectPath string) VCS
	// GitHub opens pull requests for the default coordinator. May be nil.
	GitHub *vcs.GitHubClient
}

// New returns an engine with the built-in parsers and no drivers.
func New() *Engine {
	e := &Engine{
		registry: upgrade.NewRegistry(),
		parsers:  parser.NewDefaultRegistry(),
		System:   RealSystem{},
	}
	e.OpenVCS = func(projectPath string) VCS {
		return vcs.NewGit(projectPath, e.GitHub)
	}
	return e
}

// Register adds d, replacing any driver with the same name, and attaches the
// engine's progress callback to it.
func (e *Engine) Register(d upgrade.Driver) {
	d.SetProgress(e.progress)
	e.registry.Register(d)
}

// RegisterParser adds a parser available to every transformer.
func (e *Engine) RegisterParser(name string, p parser.Parser) {
	e.parsers.Register(name, p)
}

// SetProgress sets the single progress callback and fans it out to every driver.
func (e *Engine) SetProgress(fn upgrade.ProgressFunc) {
	e.progress = fn
	for _, d := range e.registry.All() {
		d.SetProgress(fn)
	}
}

// Drivers returns the registered drivers in registration order.
func (e *Engine) Drivers() []upgrade.Driver {
	return e.registry.All()
}

// Driver returns the driver registered under name.
func (e *Engine) Driver(name string) (upgrade.Driver, error) {
	return e.registry.Lookup(name)
}

// DetectDrivers returns every registered driver that recognizes projectPath,
// with the version each one reads from the project.
func (e *Engine) DetectDrivers(projectPath string) ([]Detection, error) {
	var found []Detection
	for _, d := range e.registry.All() {
		ok, err := d.Detect(projectPath)
		if err != nil {
			return nil, err
		}
		if ok {
			found = append(found, Detection{Driver: d.Name(), Version: d.CurrentVersion(projectPath)})
		}
	}
	return found, nil
}

func (e *Engine) emit(stage upgrade.Stage, step int, total int, message string) {
	if e.progress == nil {
		return
	}
	e.progress(upgrade.Progress{Stage: stage, CurrentStep: step, TotalSteps: total, Message: message})
}

// run carries the state of one Upgrade call.
type run struct {
	driver  upgrade.Driver
	opts    Options
	repo    VCS
	result  *Result
	overlay map[string]string
	// cascaded tracks dependency versions reached earlier in this run.
	cascaded map[string]string
}

// Upgrade moves projectPath's driverName component from `from` to `to`, one
// supported version at a time. Unless opts.DryRun, every step is written,
// staged, and committed before the next begins. Steps committed before a
// failure stay committed and are listed in the returned Result.
func (e *Engine) Upgrade(ctx context.Context, projectPath string, driverName string, from string, to string, opts Options) (*Result, error) {
	d, err := e.registry.Lookup(driverName)
	if err != nil {
		return nil, err
	}
	e.emit(upgrade.StageDetecting, 0, 0, fmt.Sprintf(messages.EngineDetectingFmt, driverName, from, to))
	path, err := d.UpgradePath(from, to)
	if err != nil {
		e.emit(upgrade.StageError, 0, 0, err.Error())
		return nil, err
	}
	steps := upgrade.Steps(path)
	r := &run{
		driver:   d,
		opts:     opts,
		overlay:  make(map[string]string),
		cascaded: make(map[string]string),
		result: &Result{
			Driver:      driverName,
			From:        from,
			To:          to,
			ProjectPath: projectPath,
			Path:        path,
			DryRun:      opts.DryRun,
		},
	}

	if !opts.DryRun {
		held, err := acquireLock(projectPath)
		if err != nil {
			e.emit(upgrade.StageError, 0, len(steps), err.Error())
			return nil, err
		}
		defer func() { _ = held.Release() }()
		if err := e.preflight(ctx, projectPath, r); err != nil {
			e.emit(upgrade.StageError, 0, len(steps), err.Error())
			return nil, err
		}
	}

	if len(steps) == 0 {
		e.emit(upgrade.StageComplete, 0, 0, fmt.Sprintf(messages.EngineNothingToDoFmt, driverName, to))
		return r.result, nil
	}

	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			err = fmt.Errorf(messages.EngineCanceledFmt, i+1, len(steps), err)
			e.emit(upgrade.StageError, i+1, len(steps), err.Error())
			return r.result, err
		}
		if err := e.step(ctx, r, projectPath, i+1, len(steps), step[0], step[1]); err != nil {
			e.emit(upgrade.StageError, i+1, len(steps), err.Error())
			return r.result, err
		}
	}

	if opts.CreatePR && !opts.DryRun {
		pr, err := e.publish(ctx, r)
		if err != nil {
			perr := &PublishError{Err: err}
			e.emit(upgrade.StageError, len(steps), len(steps), perr.Error())
			return r.result, perr
		}
		r.result.PullRequest = pr
	}

	e.emit(upgrade.StageComplete, len(steps), len(steps), fmt.Sprintf(messages.EngineCompleteFmt, driverName, from, to))
	return r.result, nil
}

func (e *Engine) preflight(ctx context.Context, projectPath string, r *run) error {
	repo := e.OpenVCS(projectPath)
	if !repo.Available(ctx) {
		return fmt.Errorf("%w: "+messages.EngineVCSUnavailableFmt, vcs.ErrVcsUnavailable, projectPath)
	}
	dirty, err := repo.HasUncommittedChanges(ctx)
	if err != nil {
		return fmt.Errorf(messages.EngineStatusFmt, err)
	}
	if dirty {
		return fmt.Errorf("%w: "+messages.EngineDirtyTreeFmt, ErrDirtyWorkingTree, projectPath)
	}
	branch, err := repo.CurrentBranch(ctx)
	if err != nil {
		return fmt.Errorf(messages.EngineBaseBranchFmt, err)
	}
	r.repo = repo
	r.result.StartBranch = branch
	return nil
}

// step runs one increment. The step is appended to the result as soon as it
// has results so a failing commit still reports what was computed.
// Cancellation of ctx is only observed between steps: a started step always
// runs through its commit so no written file is left uncommitted.
func (e *Engine) step(parent context.Context, r *run, projectPath string, n int, total int, from string, to string) error {
	ctx := context.WithoutCancel(parent)
	d := r.driver
	name := d.Name()
	uc := upgrade.NewContext(projectPath, from, to, r.opts.DryRun)
	uc.Step = n
	uc.TotalSteps = total
	uc.Out = r.opts.Out
	uc.Parsers = e.parsers
	uc.Exclude = r.opts.Exclude
	for path, content := range r.overlay {
		uc.Files[path] = content
	}

	e.emit(upgrade.StagePreparing, n, total, fmt.Sprintf(messages.EnginePreparingFmt, n, total, name, from, to))
	branch := r.opts.BranchName
	if branch == "" {
		branch = fmt.Sprintf(messages.EngineStepBranchFmt, name, from, to)
	}
	if !r.opts.DryRun && (r.opts.BranchName == "" || n == 1) {
		if err := r.repo.CreateBranch(ctx, branch); err != nil {
			return err
		}
	}
	hooks := d.Hooks()
	if err := hooks.Before(ctx, uc); err != nil {
		return fmt.Errorf(messages.EngineBeforeHookFmt, name, err)
	}

	e.emit(upgrade.StageTransforming, n, total, fmt.Sprintf(messages.EngineTransformingFmt, n, total, name, from, to))
	var results []change.StepResult
	var warnings []string
	if r.opts.CascadeDependencies {
		cascaded, cascadeWarnings, err := e.cascade(ctx, r, uc)
		if err != nil {
			return err
		}
		results = append(results, cascaded...)
		warnings = append(warnings, cascadeWarnings...)
	}
	own, err := d.Transform(ctx, uc)
	if err != nil {
		return fmt.Errorf(messages.EngineTransformFmt, name, from, to, err)
	}
	results = change.Fold(append(results, own...))
	for _, res := range results {
		uc.Store(res.Path, res.TransformedContent)
		r.overlay[res.Path] = res.TransformedContent
	}

	validation, err := hooks.Check(ctx, uc)
	if err != nil {
		return fmt.Errorf(messages.EngineValidateFmt, name, err)
	}
	warnings = append(warnings, uc.Warnings...)
	if !validation.Valid && r.opts.Validation == ValidationStrict {
		return fmt.Errorf("%w: "+messages.EngineValidationFailedFmt, ErrValidationFailed, name, to, strings.Join(validation.Errors, "; "))
	}
	for _, msg := range validation.Errors {
		warnings = append(warnings, fmt.Sprintf(messages.EngineValidationWarnFmt, name, to, msg))
	}
	for _, msg := range validation.Warnings {
		warnings = append(warnings, fmt.Sprintf(messages.EngineValidationWarnFmt, name, to, msg))
	}

	record := Step{From: from, To: to, Results: results, Validation: validation, Warnings: warnings}
	if !r.opts.DryRun {
		record.Branch = branch
	}
	r.result.Steps = append(r.result.Steps, record)

	if !r.opts.DryRun {
		e.emit(upgrade.StageCommitting, n, total, fmt.Sprintf(messages.EngineCommittingFmt, n, total, name, from, to))
		if err := e.write(results); err != nil {
			return err
		}
		if err := r.repo.StageAll(ctx); err != nil {
			return err
		}
		if err := r.repo.Commit(ctx, fmt.Sprintf(messages.EngineCommitMessageFmt, name, from, to)); err != nil {
			return err
		}
	}

	if err := hooks.After(ctx, uc); err != nil {
		return fmt.Errorf(messages.EngineAfterHookFmt, name, err)
	}
	return nil
}

// cascade upgrades the driver's dependencies to the versions its step target
// requires. Dependency results share the step's commit and content cache.
func (e *Engine) cascade(ctx context.Context, r *run, uc *upgrade.Context) ([]change.StepResult, []string, error) {
	var results []change.StepResult
	var warnings []string
	for _, dep := range r.driver.Dependencies() {
		required, ok := r.driver.RequiredDependencyVersion(dep.Name(), uc.ToVersion)
		if !ok {
			continue
		}
		current, seen := r.cascaded[dep.Name()]
		if !seen {
			current = dep.CurrentVersion(uc.ProjectPath)
		}
		if current == required {
			continue
		}
		path, err := dep.UpgradePath(current, required)
		if errors.Is(err, upgrade.ErrDowngrade) {
			continue
		}
		if err != nil {
			warnings = append(warnings, fmt.Sprintf(messages.EngineCascadeSkipFmt, dep.Name(), current, required, err))
			continue
		}
		hooks := dep.Hooks()
		for _, step := range upgrade.Steps(path) {
			duc := uc.Derive(step[0], step[1])
			duc.Printf(messages.EngineCascadeFmt, dep.Name(), step[0], step[1], r.driver.Name(), uc.ToVersion)
			if err := hooks.Before(ctx, duc); err != nil {
				return nil, nil, fmt.Errorf(messages.EngineBeforeHookFmt, dep.Name(), err)
			}
			depResults, err := dep.Transform(ctx, duc)
			if err != nil {
				return nil, nil, fmt.Errorf(messages.EngineTransformFmt, dep.Name(), step[0], step[1], err)
			}
			for _, res := range depResults {
				duc.Store(res.Path, res.TransformedContent)
			}
			if err := hooks.After(ctx, duc); err != nil {
				return nil, nil, fmt.Errorf(messages.EngineAfterHookFmt, dep.Name(), err)
			}
			results = append(results, depResults...)
			warnings = append(warnings, duc.Warnings...)
		}
		r.cascaded[dep.Name()] = required
	}
	return results, warnings, nil
}

// write stores the final content of every rewritten file, keeping its mode.
func (e *Engine) write(results []change.StepResult) error {
	final := make(map[string]string)
	var order []string
	for _, res := range results {
		if !res.ContentChanged() {
			continue
		}
		if _, ok := final[res.Path]; !ok {
			order = append(order, res.Path)
		}
		final[res.Path] = res.TransformedContent
	}
	for _, path := range order {
		perm := os.FileMode(0o644)
		if info, err := e.System.Stat(path); err == nil {
			perm = info.Mode().Perm()
		}
		if err := e.System.WriteFileAtomic(path, []byte(final[path]), perm); err != nil {
			return fmt.Errorf(messages.EngineWriteFmt, path, err)
		}
	}
	return nil
}
