// Package php upgrades the PHP runtime declared in composer.json.
package php

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
	"github.com/conn-castle/ladder/internal/manifest"
	"github.com/conn-castle/ladder/internal/messages"
	"github.com/conn-castle/ladder/internal/pipeline"
	"github.com/conn-castle/ladder/internal/upgrade"
)

// Name is the registry name of the driver.
const Name = "php"

// DefaultVersion is reported when composer.json declares no usable PHP constraint.
const DefaultVersion = "8.2"

// Versions are the supported PHP versions, oldest first.
var Versions = []string{"7.4", "8.0", "8.1", "8.2", "8.3", "8.4"}

var readFile = os.ReadFile

var minorPattern = regexp.MustCompile(`(\d+)\.(\d+)`)

// Driver upgrades PHP source files and the composer.json PHP constraints.
type Driver struct {
	upgrade.Base
	pipeline *pipeline.Pipeline
}

// New returns a PHP driver.
func New() *Driver {
	d := &Driver{Base: upgrade.NewBase(Name, Versions...)}
	d.pipeline = &pipeline.Pipeline{
		Scope:    pipeline.MustScope([]string{"**/*.php"}, nil),
		Catalog:  Catalog(),
		Manifest: updateComposer,
		Report:   d.Report,
	}
	return d
}

// Detect reports whether projectPath has a composer.json.
func (d *Driver) Detect(projectPath string) (bool, error) {
	_, err := os.Stat(filepath.Join(projectPath, manifest.ComposerFile))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf(messages.DriverDetectFmt, Name, err)
}

// CurrentVersion returns the major.minor version from require.php or
// config.platform.php, or DefaultVersion.
func (d *Driver) CurrentVersion(projectPath string) string {
	data, err := readFile(filepath.Join(projectPath, manifest.ComposerFile))
	if err != nil {
		return DefaultVersion
	}
	doc, err := manifest.Parse(data)
	if err != nil {
		return DefaultVersion
	}
	constraint, ok := doc.String(manifest.SectionRequire, "php")
	if !ok {
		constraint, ok = doc.String("config", "platform", "php")
	}
	if !ok {
		return DefaultVersion
	}
	if v, ok := MinorVersion(constraint); ok {
		return v
	}
	return DefaultVersion
}

// MinorVersion extracts the first major.minor version from a constraint such as "^8.1" or "8.0.2".
func MinorVersion(constraint string) (string, bool) {
	m := minorPattern.FindString(constraint)
	if m == "" {
		return "", false
	}
	v, err := semver.NewVersion(m)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%d.%d", v.Major(), v.Minor()), true
}

// Transform rewrites PHP files for one step and bumps the composer.json constraints.
func (d *Driver) Transform(ctx context.Context, uc *upgrade.Context) ([]change.StepResult, error) {
	return d.pipeline.Run(ctx, uc)
}

// Hooks returns the PHP lifecycle hooks.
func (d *Driver) Hooks() upgrade.Hooks {
	return upgrade.Hooks{
		BeforeUpgrade: func(_ context.Context, uc *upgrade.Context) error {
			uc.Printf(messages.PHPPreparingFmt, uc.FromVersion, uc.ToVersion)
			return nil
		},
		AfterUpgrade: func(_ context.Context, uc *upgrade.Context) error {
			uc.Printf(messages.PHPCompletedFmt, uc.FromVersion, uc.ToVersion)
			return nil
		},
		Validate: validate,
	}
}

func updateComposer(uc *upgrade.Context) (*change.StepResult, error) {
	return pipeline.EditJSONManifest(uc, uc.Path(manifest.ComposerFile), func(doc *manifest.Document) []change.Change {
		return BumpConstraints(doc, uc.ToVersion)
	})
}

// BumpConstraints sets require.php to ^to and config.platform.php to to,
// where those keys exist.
func BumpConstraints(doc *manifest.Document, to string) []change.Change {
	var changes []change.Change
	if old, ok := doc.String(manifest.SectionRequire, "php"); ok {
		if c, ok := manifest.Bump(doc, fmt.Sprintf(messages.PHPBumpRequireFmt, old, "^"+to), "^"+to, manifest.SectionRequire, "php"); ok {
			changes = append(changes, c)
		}
	}
	if old, ok := doc.String("config", "platform", "php"); ok {
		if c, ok := manifest.Bump(doc, fmt.Sprintf(messages.PHPBumpPlatformFmt, old, to), to, "config", "platform", "php"); ok {
			changes = append(changes, c)
		}
	}
	return changes
}

// validate checks that the PHP constraint left in composer.json admits the target version.
func validate(_ context.Context, uc *upgrade.Context) (upgrade.ValidationResult, error) {
	result := upgrade.NewValidationResult()
	content, err := uc.ReadFile(uc.Path(manifest.ComposerFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return result, nil
		}
		return result, err
	}
	doc, err := manifest.Parse([]byte(content))
	if err != nil {
		result.Error(err.Error())
		return result, nil
	}
	constraint, ok := doc.String(manifest.SectionRequire, "php")
	if !ok {
		result.Warn(messages.PHPNoConstraint)
		return result, nil
	}
	if ok, err := Admits(constraint, uc.ToVersion); err != nil {
		result.Warn(fmt.Sprintf(messages.PHPUnparsableConstraintFmt, constraint, err))
	} else if !ok {
		result.Error(fmt.Sprintf(messages.PHPConstraintExcludesFmt, constraint, uc.ToVersion))
	}
	return result, nil
}

// Admits reports whether constraint allows version.
func Admits(constraint string, version string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, err
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, err
	}
	return c.Check(v), nil
}
