// Package pipeline runs a driver's per-step transformers over the files in
// its scope and finishes each step with a manifest pass.
package pipeline

import (
	"context"
	"fmt"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/messages"
	"github.com/conn-castle/ladder/internal/upgrade"
)

// progressEvery is how many files are processed between progress reports.
const progressEvery = 10

// ManifestFunc updates the dependency manifest for a step. It returns nil when
// nothing changed.
type ManifestFunc func(uc *upgrade.Context) (*change.StepResult, error)

// Pipeline transforms the files of one driver.
type Pipeline struct {
	Scope    *Scope
	Catalog  Catalog
	Manifest ManifestFunc
	Report   upgrade.ProgressFunc
	System   System
}

// Run transforms every in-scope file for the step described by uc and returns
// one result per changed file. Transformed content is stored back into uc so
// later transformers and validators observe it. Nothing is written to disk.
func (p *Pipeline) Run(_ context.Context, uc *upgrade.Context) ([]change.StepResult, error) {
	sys := p.System
	if sys == nil {
		sys = RealSystem{}
	}
	transformers := p.Catalog.For(uc.FromVersion, uc.ToVersion)

	var results []change.StepResult
	if len(transformers) > 0 {
		scope := p.Scope
		if scope == nil {
			scope = &Scope{}
		}
		if len(uc.Exclude) > 0 {
			extended, err := scope.WithExclude(uc.Exclude...)
			if err != nil {
				return nil, err
			}
			scope = extended
		}
		files, err := scope.Files(sys, uc.ProjectPath, uc.Warn)
		if err != nil {
			return nil, err
		}
		results = p.transformFiles(uc, sys, files, transformers)
	}

	if p.Manifest != nil {
		manifestResult, err := p.Manifest(uc)
		if err != nil {
			return nil, fmt.Errorf(messages.PipelineManifestFmt, err)
		}
		if manifestResult != nil && len(manifestResult.Changes) > 0 {
			uc.Store(manifestResult.Path, manifestResult.TransformedContent)
			results = merge(results, *manifestResult)
		}
	}
	return results, nil
}

func (p *Pipeline) transformFiles(uc *upgrade.Context, sys System, files []string, transformers []Transformer) []change.StepResult {
	var results []change.StepResult
	total := len(files)
	for i, path := range files {
		content, err := readContent(uc, sys, path)
		if err != nil {
			uc.Warn(messages.PipelineSkipUnreadableFmt, path, err)
		} else if result, ok := applyAll(uc, path, content, transformers); ok {
			uc.Store(path, result.TransformedContent)
			results = append(results, result)
		}
		processed := i + 1
		if processed%progressEvery == 0 || processed == total {
			p.report(uc, processed, total)
		}
	}
	return results
}

// readContent prefers content already transformed earlier in the step.
func readContent(uc *upgrade.Context, sys System, path string) (string, error) {
	if content, ok := uc.Cached(path); ok {
		return content, nil
	}
	data, err := sys.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func applyAll(uc *upgrade.Context, path string, content string, transformers []Transformer) (change.StepResult, bool) {
	current := content
	var changes []change.Change
	for _, t := range transformers {
		if !t.Matches(path) {
			continue
		}
		next, cs := t.Transform(path, current, uc.Parsers)
		current = next
		changes = append(changes, cs...)
	}
	if len(changes) == 0 {
		return change.StepResult{}, false
	}
	return change.StepResult{
		Path:               path,
		OriginalContent:    content,
		TransformedContent: current,
		Changes:            changes,
	}, true
}

func (p *Pipeline) report(uc *upgrade.Context, processed int, total int) {
	if p.Report == nil {
		return
	}
	p.Report(upgrade.Progress{
		Stage:          upgrade.StageTransforming,
		CurrentStep:    uc.Step,
		TotalSteps:     uc.TotalSteps,
		Message:        fmt.Sprintf(messages.PipelineProgressFmt, processed, total),
		FilesProcessed: processed,
		TotalFiles:     total,
	})
}

// merge folds r into results, combining it with an existing result for the same path.
func merge(results []change.StepResult, r change.StepResult) []change.StepResult {
	for i := range results {
		if results[i].Path != r.Path {
			continue
		}
		results[i].TransformedContent = r.TransformedContent
		results[i].Changes = append(results[i].Changes, r.Changes...)
		return results
	}
	return append(results, r)
}
