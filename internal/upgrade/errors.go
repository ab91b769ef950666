package upgrade

import "errors"

// Planning-time errors. They are returned before any mutation happens.
var (
	// ErrUnknownDriver is returned when no driver is registered under a name.
	ErrUnknownDriver = errors.New("unknown driver")
	// ErrInvalidRange is returned when a path endpoint is not a supported version.
	ErrInvalidRange = errors.New("invalid version range")
	// ErrDowngrade is returned when the source version comes after the target.
	ErrDowngrade = errors.New("downgrade not supported")
)
