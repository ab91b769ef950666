package vcs

import (
	"fmt"
	"regexp"
	"strings"
)

// Repository names a GitHub repository.
type Repository struct {
	Owner string
	Name  string
}

func (r Repository) String() string {
	return r.Owner + "/" + r.Name
}

var githubRemotePattern = regexp.MustCompile(`github\.com[:/]([^/\s]+)/([^/\s]+?)(?:\.git)?/?$`)

// ParseRepository extracts the owner and name from an https, ssh, or scp-like GitHub remote URL.
func ParseRepository(url string) (Repository, error) {
	m := githubRemotePattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return Repository{}, fmt.Errorf("%w: %s", ErrUnresolvableRepository, url)
	}
	return Repository{Owner: m[1], Name: m[2]}, nil
}
