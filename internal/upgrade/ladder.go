package upgrade

import (
	"fmt"
	"slices"

	"github.com/conn-castle/ladder/internal/messages"
)

// Ladder is an ordered list of supported versions, oldest first.
type Ladder []string

// Contains reports whether version is on the ladder.
func (l Ladder) Contains(version string) bool {
	return slices.Contains(l, version)
}

// Path returns the versions from `from` to `to` inclusive.
// Both endpoints must be on the ladder and `from` must not come after `to`.
func (l Ladder) Path(from string, to string) ([]string, error) {
	fromIndex := slices.Index(l, from)
	toIndex := slices.Index(l, to)
	if fromIndex < 0 || toIndex < 0 {
		return nil, fmt.Errorf("%w: "+messages.UpgradeInvalidRangeFmt, ErrInvalidRange, from, to)
	}
	if fromIndex > toIndex {
		return nil, fmt.Errorf("%w: "+messages.UpgradeDowngradeFmt, ErrDowngrade, from, to)
	}
	return slices.Clone(l[fromIndex : toIndex+1]), nil
}

// Steps splits a path into consecutive (from, to) pairs.
func Steps(path []string) [][2]string {
	if len(path) < 2 {
		return nil
	}
	steps := make([][2]string, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		steps = append(steps, [2]string{path[i], path[i+1]})
	}
	return steps
}

// StepKey identifies a single increment, e.g. "8.1-8.2".
func StepKey(from string, to string) string {
	return from + "-" + to
}
