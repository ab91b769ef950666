package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/gobwas/glob"
	"github.com/hashicorp/go-multierror"

	"github.com/conn-castle/ladder/internal/messages"
)

var envVarName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func isValidOption(key string, value string) bool {
	for _, option := range optionValues(key) {
		if option == value {
			return true
		}
	}
	return false
}

// Validate reports every problem in the config at once. path names the source in messages.
func (c *Config) Validate(path string) error {
	var result *multierror.Error

	if !isValidOption("upgrade.validation", c.Upgrade.Validation) {
		result = multierror.Append(result, fmt.Errorf(messages.ConfigEnumInvalidFmt,
			path, "upgrade.validation", strings.Join(optionValues("upgrade.validation"), ", ")))
	}
	if strings.TrimSpace(c.Upgrade.Remote) == "" {
		result = multierror.Append(result, fmt.Errorf(messages.ConfigRemoteRequiredFmt, path))
	}
	if c.Output.DiffLines < 0 {
		result = multierror.Append(result, fmt.Errorf(messages.ConfigDiffLinesFmt, path))
	}
	if !envVarName.MatchString(c.GitHub.TokenEnv) {
		result = multierror.Append(result, fmt.Errorf(messages.ConfigTokenEnvInvalidFmt, path, c.GitHub.TokenEnv))
	}
	if u, err := url.Parse(c.GitHub.APIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		result = multierror.Append(result, fmt.Errorf(messages.ConfigAPIURLInvalidFmt, path, c.GitHub.APIURL))
	}
	for i, pattern := range c.Scan.Exclude {
		if strings.TrimSpace(pattern) == "" {
			result = multierror.Append(result, fmt.Errorf(messages.ConfigExcludeEmptyFmt, path, i))
			continue
		}
		if _, err := glob.Compile(pattern, '/'); err != nil {
			result = multierror.Append(result, fmt.Errorf(messages.ConfigExcludeInvalidFmt, path, i, pattern, err))
		}
	}
	return result.ErrorOrNil()
}
