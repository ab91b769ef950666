package vcs

import "errors"

var (
	// ErrVcsUnavailable is returned when git is missing or the project is not a repository.
	ErrVcsUnavailable = errors.New("version control unavailable")
	// ErrBranchExists is returned when a branch to create already exists.
	ErrBranchExists = errors.New("branch already exists")
	// ErrNoRemote is returned when the named remote is not configured.
	ErrNoRemote = errors.New("remote not configured")
	// ErrUnresolvableRepository is returned when a remote URL does not name a GitHub repository.
	ErrUnresolvableRepository = errors.New("cannot resolve repository from remote")
	// ErrMissingCredential is returned when no API token is available for pull requests.
	ErrMissingCredential = errors.New("missing GitHub token")
)
