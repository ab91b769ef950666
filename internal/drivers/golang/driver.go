// Package golang upgrades the Go language version of a module.
package golang

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/semver"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/messages"
	"github.com/conn-castle/ladder/internal/pipeline"
	"github.com/conn-castle/ladder/internal/upgrade"
)

// Name is the registry name of the driver.
const Name = "go"

// DefaultVersion is reported when go.mod has no usable go directive.
const DefaultVersion = "1.22"

// ModFile is the module manifest file name.
const ModFile = "go.mod"

// Versions are the supported Go versions, oldest first.
var Versions = []string{"1.20", "1.21", "1.22", "1.23", "1.24", "1.25"}

var readFile = os.ReadFile

// Driver upgrades go.mod and flags source patterns that newer Go releases improve on.
type Driver struct {
	upgrade.Base
	pipeline *pipeline.Pipeline
}

// New returns a Go driver.
func New() *Driver {
	d := &Driver{Base: upgrade.NewBase(Name, Versions...)}
	d.pipeline = &pipeline.Pipeline{
		Scope:    pipeline.MustScope([]string{"**/*.go"}, []string{"**/testdata/**"}),
		Catalog:  Catalog(),
		Manifest: updateModFile,
		Report:   d.Report,
	}
	return d
}

// Detect reports whether projectPath has a go.mod.
func (d *Driver) Detect(projectPath string) (bool, error) {
	_, err := os.Stat(filepath.Join(projectPath, ModFile))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf(messages.DriverDetectFmt, Name, err)
}

// CurrentVersion returns the major.minor of the go directive, or DefaultVersion.
func (d *Driver) CurrentVersion(projectPath string) string {
	path := filepath.Join(projectPath, ModFile)
	data, err := readFile(path)
	if err != nil {
		return DefaultVersion
	}
	f, err := modfile.ParseLax(path, data, nil)
	if err != nil || f.Go == nil {
		return DefaultVersion
	}
	if v := MinorVersion(f.Go.Version); v != "" {
		return v
	}
	return DefaultVersion
}

// MinorVersion returns "1.N" for a Go version such as "1.22.3", or "" when invalid.
func MinorVersion(version string) string {
	canonical := "v" + strings.TrimPrefix(version, "go")
	if !semver.IsValid(canonical) {
		return ""
	}
	return strings.TrimPrefix(semver.MajorMinor(canonical), "v")
}

// Transform flags source patterns for one step and bumps go.mod.
func (d *Driver) Transform(ctx context.Context, uc *upgrade.Context) ([]change.StepResult, error) {
	return d.pipeline.Run(ctx, uc)
}

// Hooks returns the Go lifecycle hooks.
func (d *Driver) Hooks() upgrade.Hooks {
	return upgrade.Hooks{
		AfterUpgrade: func(_ context.Context, uc *upgrade.Context) error {
			uc.Printf(messages.GoCompletedFmt, uc.FromVersion, uc.ToVersion)
			return nil
		},
		Validate: validate,
	}
}

func updateModFile(uc *upgrade.Context) (*change.StepResult, error) {
	path := uc.Path(ModFile)
	content, err := uc.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf(messages.PipelineManifestReadFmt, path, err)
	}
	updated, changes, err := BumpGoDirective(path, []byte(content), uc.ToVersion)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		return nil, nil
	}
	return &change.StepResult{
		Path:               path,
		OriginalContent:    content,
		TransformedContent: string(updated),
		Changes:            changes,
	}, nil
}

// BumpGoDirective raises the go directive to version and drops a toolchain
// directive that the new go line already implies. Newer go lines are kept.
func BumpGoDirective(path string, data []byte, version string) ([]byte, []change.Change, error) {
	f, err := modfile.Parse(path, data, nil)
	if err != nil {
		return nil, nil, fmt.Errorf(messages.GoModParseFmt, path, err)
	}
	var changes []change.Change
	old := ""
	line := 0
	if f.Go != nil {
		old = f.Go.Version
		line = f.Go.Syntax.Start.Line
	}
	if old == "" || semver.Compare("v"+old, "v"+version) < 0 {
		if err := f.AddGoStmt(version); err != nil {
			return nil, nil, fmt.Errorf(messages.GoModEditFmt, path, err)
		}
		if old == "" {
			changes = append(changes, change.Edit(change.KindAdd, f.Go.Syntax.Start.Line,
				fmt.Sprintf(messages.GoAddDirectiveFmt, version), "", "go "+version))
		} else {
			changes = append(changes, change.Edit(change.KindModify, line,
				fmt.Sprintf(messages.GoBumpDirectiveFmt, old, version), "go "+old, "go "+version))
		}
	}
	if f.Toolchain != nil {
		toolchain := f.Toolchain.Name
		tv := "v" + strings.TrimPrefix(toolchain, "go")
		if semver.IsValid(tv) && semver.Compare(tv, "v"+version) <= 0 {
			tline := f.Toolchain.Syntax.Start.Line
			f.DropToolchainStmt()
			changes = append(changes, change.Edit(change.KindRemove, tline,
				fmt.Sprintf(messages.GoDropToolchainFmt, toolchain), "toolchain "+toolchain, ""))
		}
	}
	if len(changes) == 0 {
		return data, nil, nil
	}
	f.Cleanup()
	out, err := f.Format()
	if err != nil {
		return nil, nil, fmt.Errorf(messages.GoModEditFmt, path, err)
	}
	return out, changes, nil
}

// validate checks that go.mod declares at least the target version.
func validate(_ context.Context, uc *upgrade.Context) (upgrade.ValidationResult, error) {
	result := upgrade.NewValidationResult()
	path := uc.Path(ModFile)
	content, err := uc.ReadFile(path)
	if err != nil {
		return result, err
	}
	f, err := modfile.ParseLax(path, []byte(content), nil)
	if err != nil {
		result.Error(err.Error())
		return result, nil
	}
	if f.Go == nil {
		result.Error(messages.GoMissingDirective)
		return result, nil
	}
	if semver.Compare("v"+f.Go.Version, "v"+uc.ToVersion) < 0 {
		result.Error(fmt.Sprintf(messages.GoDirectiveBelowFmt, f.Go.Version, uc.ToVersion))
	}
	return result, nil
}
