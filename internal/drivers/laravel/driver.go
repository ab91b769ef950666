// Package laravel upgrades Laravel applications one framework major at a time.
package laravel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/drivers/php"
	"github.com/conn-castle/ladder/internal/manifest"
	"github.com/conn-castle/ladder/internal/messages"
	"github.com/conn-castle/ladder/internal/pipeline"
	"github.com/conn-castle/ladder/internal/upgrade"
)

// Name is the registry name of the driver.
const Name = "laravel"

// DefaultVersion is reported when the framework constraint cannot be parsed.
const DefaultVersion = "10"

// Versions are the supported Laravel majors, oldest first.
var Versions = []string{"9", "10", "11", "12"}

var readFile = os.ReadFile

var versionPattern = regexp.MustCompile(`\d+(?:\.\d+){0,2}`)

// scanDirs are the application directories the rules look at.
var scanDirs = []string{"app/**/*.php", "routes/**/*.php", "config/**/*.php", "database/**/*.php"}

// Driver upgrades Laravel application code and composer.json.
type Driver struct {
	upgrade.Base
	pipeline *pipeline.Pipeline
}

// New returns a Laravel driver depending on deps, normally the PHP driver.
func New(deps ...upgrade.Driver) *Driver {
	d := &Driver{Base: upgrade.NewBase(Name, Versions...)}
	for _, dep := range deps {
		d.AddDependency(dep)
	}
	d.pipeline = &pipeline.Pipeline{
		Scope:    pipeline.MustScope(scanDirs, nil),
		Catalog:  Catalog(),
		Manifest: updateComposer,
		Report:   d.Report,
	}
	return d
}

func readComposer(projectPath string) (*manifest.Document, error) {
	data, err := readFile(filepath.Join(projectPath, manifest.ComposerFile))
	if err != nil {
		return nil, err
	}
	return manifest.Parse(data)
}

// Detect reports whether composer.json requires laravel/framework.
func (d *Driver) Detect(projectPath string) (bool, error) {
	doc, err := readComposer(projectPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) {
			return false, fmt.Errorf(messages.DriverDetectFmt, Name, err)
		}
		return false, nil
	}
	return doc.Has(manifest.SectionRequire, FrameworkPackage), nil
}

// CurrentVersion returns the major of the laravel/framework constraint, or DefaultVersion.
func (d *Driver) CurrentVersion(projectPath string) string {
	doc, err := readComposer(projectPath)
	if err != nil {
		return DefaultVersion
	}
	constraint, ok := doc.String(manifest.SectionRequire, FrameworkPackage)
	if !ok {
		return DefaultVersion
	}
	if major, ok := MajorVersion(constraint); ok {
		return major
	}
	return DefaultVersion
}

// MajorVersion extracts the major version from a constraint such as "^10.10" or "9".
func MajorVersion(constraint string) (string, bool) {
	m := versionPattern.FindString(constraint)
	if m == "" {
		return "", false
	}
	v, err := semver.NewVersion(m)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%d", v.Major()), true
}

// RequiredDependencyVersion returns the PHP version a Laravel major needs.
func (d *Driver) RequiredDependencyVersion(dependency string, targetVersion string) (string, bool) {
	if dependency != php.Name {
		return "", false
	}
	v, ok := phpMinimums[targetVersion]
	return v, ok
}

// Transform rewrites application files for one step and bumps composer.json.
func (d *Driver) Transform(ctx context.Context, uc *upgrade.Context) ([]change.StepResult, error) {
	return d.pipeline.Run(ctx, uc)
}

// Hooks returns the Laravel lifecycle hooks.
func (d *Driver) Hooks() upgrade.Hooks {
	return upgrade.Hooks{
		BeforeUpgrade: beforeUpgrade,
		AfterUpgrade:  afterUpgrade,
		Validate:      d.validate,
	}
}

func beforeUpgrade(_ context.Context, uc *upgrade.Context) error {
	uc.Printf(messages.LaravelPreparingFmt, uc.FromVersion, uc.ToVersion)
	reqs := PackageUpgrades.For(uc.ToVersion)
	if len(reqs) == 0 {
		return nil
	}
	uc.Printf(messages.LaravelPackagePlanHeader)
	for _, req := range reqs {
		uc.Printf(messages.LaravelPackagePlanLineFmt, req.Name, req.From, req.To)
	}
	return nil
}

func afterUpgrade(_ context.Context, uc *upgrade.Context) error {
	uc.Printf(messages.LaravelCompletedFmt, uc.FromVersion, uc.ToVersion)
	uc.Printf(messages.LaravelNextSteps)
	return nil
}

func updateComposer(uc *upgrade.Context) (*change.StepResult, error) {
	return pipeline.EditJSONManifest(uc, uc.Path(manifest.ComposerFile), func(doc *manifest.Document) []change.Change {
		return BumpPackages(doc, uc.ToVersion)
	})
}

// BumpPackages sets laravel/framework to ^to.0 and applies the companion
// package table for to.
func BumpPackages(doc *manifest.Document, to string) []change.Change {
	var changes []change.Change
	target := "^" + to + ".0"
	if old, ok := doc.String(manifest.SectionRequire, FrameworkPackage); ok {
		desc := fmt.Sprintf(messages.LaravelBumpFrameworkFmt, old, target)
		if c, ok := manifest.Bump(doc, desc, target, manifest.SectionRequire, FrameworkPackage); ok {
			changes = append(changes, c)
		}
	}
	return append(changes, manifest.ApplyRequirements(doc, PackageUpgrades.For(to))...)
}

// validate checks that composer.json targets the new framework major and that
// its PHP constraint admits the PHP version the major needs.
func (d *Driver) validate(_ context.Context, uc *upgrade.Context) (upgrade.ValidationResult, error) {
	result := upgrade.NewValidationResult()
	content, err := uc.ReadFile(uc.Path(manifest.ComposerFile))
	if err != nil {
		return result, err
	}
	doc, err := manifest.Parse([]byte(content))
	if err != nil {
		result.Error(err.Error())
		return result, nil
	}
	constraint, ok := doc.String(manifest.SectionRequire, FrameworkPackage)
	if !ok {
		result.Error(messages.LaravelFrameworkMissing)
		return result, nil
	}
	if ok, err := php.Admits(constraint, uc.ToVersion); err != nil {
		result.Warn(fmt.Sprintf(messages.LaravelUnparsableConstraintFmt, constraint, err))
	} else if !ok {
		result.Error(fmt.Sprintf(messages.LaravelConstraintExcludesFmt, constraint, uc.ToVersion))
	}

	minimum, ok := d.RequiredDependencyVersion(php.Name, uc.ToVersion)
	if !ok {
		return result, nil
	}
	phpConstraint, ok := doc.String(manifest.SectionRequire, "php")
	if !ok {
		return result, nil
	}
	if ok, err := php.Admits(phpConstraint, minimum); err == nil && !ok {
		result.Warn(fmt.Sprintf(messages.LaravelPHPTooOldFmt, phpConstraint, uc.ToVersion, minimum))
	}
	return result, nil
}
