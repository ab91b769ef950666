package manifest

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/messages"
)

// ComposerFile is the PHP dependency manifest file name.
const ComposerFile = "composer.json"

// Composer section names.
const (
	SectionRequire    = "require"
	SectionRequireDev = "require-dev"
)

// Requirement is a package version bump required by a target version.
// From is the constraint the bump is planned from and is only shown to users.
type Requirement struct {
	Name string
	From string
	To   string
}

var constraintVersion = regexp.MustCompile(`\d+(?:\.\d+){0,2}`)

// Floor returns the lowest version named in a constraint such as "^8.1" or
// "^2.0|^3.0".
func Floor(constraint string) (*semver.Version, bool) {
	var lowest *semver.Version
	for _, m := range constraintVersion.FindAllString(constraint, -1) {
		v, err := semver.NewVersion(m)
		if err != nil {
			continue
		}
		if lowest == nil || v.LessThan(lowest) {
			lowest = v
		}
	}
	return lowest, lowest != nil
}

// Satisfies reports whether declared already requires at least what required does.
func Satisfies(declared string, required string) bool {
	have, ok := Floor(declared)
	if !ok {
		return false
	}
	want, ok := Floor(required)
	if !ok {
		return false
	}
	return !have.LessThan(want)
}

// UpgradeMap lists the package bumps that accompany each target version.
type UpgradeMap map[string][]Requirement

// For returns the requirements for target, or nil.
func (m UpgradeMap) For(target string) []Requirement {
	return m[target]
}

// Bump sets the string at path to value and records a manifest change.
// It returns false when the path does not hold a string or already equals value.
func Bump(doc *Document, description string, value string, path ...string) (change.Change, bool) {
	old, ok := doc.String(path...)
	if !ok || old == value {
		return change.Change{}, false
	}
	doc.SetString(value, path...)
	key := path[len(path)-1]
	return change.Edit(
		change.KindModify,
		0,
		description,
		fmt.Sprintf("%q: %q", key, old),
		fmt.Sprintf("%q: %q", key, value),
	), true
}

// BumpPackage updates a require entry for name and records the change.
func BumpPackage(doc *Document, name string, to string) (change.Change, bool) {
	old, ok := doc.String(SectionRequire, name)
	if !ok {
		return change.Change{}, false
	}
	return Bump(doc, fmt.Sprintf(messages.ManifestBumpPackageFmt, name, old, to), to, SectionRequire, name)
}

// ApplyRequirements bumps every declared package listed in reqs, in order.
// A package whose declared constraint already reaches req.To is left alone.
func ApplyRequirements(doc *Document, reqs []Requirement) []change.Change {
	var changes []change.Change
	for _, req := range reqs {
		if declared, ok := doc.String(SectionRequire, req.Name); ok && Satisfies(declared, req.To) {
			continue
		}
		if c, ok := BumpPackage(doc, req.Name, req.To); ok {
			changes = append(changes, c)
		}
	}
	return changes
}
