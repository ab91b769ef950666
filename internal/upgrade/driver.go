// Package upgrade defines the driver contract that plugs ecosystem-specific
// detection, version planning, and transformation into the engine.
package upgrade

import (
	"context"

	"github.com/conn-castle/ladder/internal/change"
)

// Driver upgrades one ecosystem (a language runtime, a framework, a toolchain).
type Driver interface {
	// Name is the stable identifier used to register and select the driver.
	Name() string
	// SupportedVersions lists the versions the driver can step between, oldest first.
	SupportedVersions() []string
	// Detect reports whether projectPath uses this ecosystem. A missing marker
	// file is (false, nil); an error means the probe itself failed.
	Detect(projectPath string) (bool, error)
	// CurrentVersion parses the declared version, falling back to a default.
	CurrentVersion(projectPath string) string
	// UpgradePath returns the ordered versions from `from` to `to` inclusive.
	UpgradePath(from string, to string) ([]string, error)
	// Transform computes the results of one step. It may read files but never writes them.
	Transform(ctx context.Context, uc *Context) ([]change.StepResult, error)
	// Hooks returns the optional lifecycle capabilities.
	Hooks() Hooks

	AddDependency(dep Driver)
	Dependencies() []Driver
	HasDependency(name string) bool
	// RequiredDependencyVersion returns the version a dependency driver must
	// reach for this driver's targetVersion, if there is one.
	RequiredDependencyVersion(dependency string, targetVersion string) (string, bool)
	SetProgress(fn ProgressFunc)
}

// Hooks are optional driver capabilities. A nil field is a no-op.
type Hooks struct {
	BeforeUpgrade func(ctx context.Context, uc *Context) error
	AfterUpgrade  func(ctx context.Context, uc *Context) error
	Validate      func(ctx context.Context, uc *Context) (ValidationResult, error)
}

// Before runs BeforeUpgrade when present.
func (h Hooks) Before(ctx context.Context, uc *Context) error {
	if h.BeforeUpgrade == nil {
		return nil
	}
	return h.BeforeUpgrade(ctx, uc)
}

// After runs AfterUpgrade when present.
func (h Hooks) After(ctx context.Context, uc *Context) error {
	if h.AfterUpgrade == nil {
		return nil
	}
	return h.AfterUpgrade(ctx, uc)
}

// Check runs Validate when present. Without a validator the step is valid.
func (h Hooks) Check(ctx context.Context, uc *Context) (ValidationResult, error) {
	if h.Validate == nil {
		return NewValidationResult(), nil
	}
	return h.Validate(ctx, uc)
}

// Base implements the bookkeeping parts of Driver. Concrete drivers embed it
// and supply Detect, CurrentVersion, Transform, and optionally Hooks and
// RequiredDependencyVersion.
type Base struct {
	name     string
	versions Ladder
	deps     []Driver
	progress ProgressFunc
}

// NewBase returns a Base for a driver called name supporting versions (oldest first).
func NewBase(name string, versions ...string) Base {
	return Base{name: name, versions: Ladder(versions)}
}

// Name returns the driver name.
func (b *Base) Name() string {
	return b.name
}

// SupportedVersions returns a copy of the supported versions.
func (b *Base) SupportedVersions() []string {
	return append([]string(nil), b.versions...)
}

// Supports reports whether version is supported.
func (b *Base) Supports(version string) bool {
	return b.versions.Contains(version)
}

// UpgradePath returns the ladder path between from and to.
func (b *Base) UpgradePath(from string, to string) ([]string, error) {
	return b.versions.Path(from, to)
}

// Hooks returns no hooks.
func (b *Base) Hooks() Hooks {
	return Hooks{}
}

// AddDependency declares a driver that must be kept consistent with this one.
func (b *Base) AddDependency(dep Driver) {
	b.deps = append(b.deps, dep)
}

// Dependencies returns the declared dependency drivers.
func (b *Base) Dependencies() []Driver {
	return append([]Driver(nil), b.deps...)
}

// HasDependency reports whether a dependency named name was declared.
func (b *Base) HasDependency(name string) bool {
	for _, dep := range b.deps {
		if dep.Name() == name {
			return true
		}
	}
	return false
}

// RequiredDependencyVersion reports no required version.
func (b *Base) RequiredDependencyVersion(string, string) (string, bool) {
	return "", false
}

// SetProgress stores the progress callback.
func (b *Base) SetProgress(fn ProgressFunc) {
	b.progress = fn
}

// Report emits a progress event when a callback is set.
func (b *Base) Report(p Progress) {
	if b.progress != nil {
		b.progress(p)
	}
}
