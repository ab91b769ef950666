// Package config loads ladder's TOML configuration.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/conn-castle/ladder/internal/messages"
)

// ErrConfigValidation wraps config validation failures, as opposed to TOML
// syntax or filesystem errors.
var ErrConfigValidation = errors.New("config validation failed")

// Validation policies accepted by upgrade.validation.
const (
	ValidationWarn   = "warn"
	ValidationStrict = "strict"
)

// Defaults applied before a config file is decoded.
const (
	DefaultRemote    = "origin"
	DefaultTokenEnv  = "GITHUB_TOKEN"
	DefaultAPIURL    = "https://api.github.com"
	DefaultDiffLines = 40
)

var readFile = os.ReadFile
var lookupEnv = os.LookupEnv

// Config is the decoded configuration. Command-line flags override it.
type Config struct {
	Upgrade UpgradeConfig `toml:"upgrade"`
	GitHub  GitHubConfig  `toml:"github"`
	Output  OutputConfig  `toml:"output"`
	Scan    ScanConfig    `toml:"scan"`
}

// UpgradeConfig holds [upgrade].
type UpgradeConfig struct {
	BaseBranch          string `toml:"base_branch"`
	Remote              string `toml:"remote"`
	Validation          string `toml:"validation"`
	CascadeDependencies bool   `toml:"cascade_dependencies"`
}

// GitHubConfig holds [github].
type GitHubConfig struct {
	TokenEnv string `toml:"token_env"`
	APIURL   string `toml:"api_url"`
}

// OutputConfig holds [output].
type OutputConfig struct {
	DiffLines int `toml:"diff_lines"`
}

// ScanConfig holds [scan].
type ScanConfig struct {
	Exclude []string `toml:"exclude"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Upgrade: UpgradeConfig{Remote: DefaultRemote, Validation: ValidationWarn},
		GitHub:  GitHubConfig{TokenEnv: DefaultTokenEnv, APIURL: DefaultAPIURL},
		Output:  OutputConfig{DiffLines: DefaultDiffLines},
	}
}

// Token returns the GitHub token from the configured environment variable.
func (c *Config) Token() string {
	value, _ := lookupEnv(c.GitHub.TokenEnv)
	return value
}

// Load returns the configuration for root and the file it came from.
// An explicit path must exist. Otherwise the project file is tried, then the
// user file; with neither present the defaults are returned with an empty source.
func Load(root string, explicit string) (*Config, string, error) {
	if explicit != "" {
		path, err := ExpandPath(explicit)
		if err != nil {
			return nil, "", err
		}
		cfg, err := LoadConfig(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	paths, err := DefaultPaths(root)
	if err != nil {
		return nil, "", err
	}
	for _, path := range []string{paths.Project, paths.User} {
		data, err := readFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, "", fmt.Errorf(messages.ConfigReadFileFmt, path, err)
		}
		cfg, err := ParseConfig(data, path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	return Default(), "", nil
}

// LoadConfig reads and validates the config file at path.
func LoadConfig(path string) (*Config, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf(messages.ConfigMissingFileFmt, path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig decodes data over the defaults and validates the result.
// source is used in error messages.
func ParseConfig(data []byte, source string) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf(messages.ConfigInvalidConfigFmt, source, err)
	}
	if err := decodeStrict(data); err != nil {
		return nil, fmt.Errorf("%w: "+messages.ConfigUnrecognizedKeysFmt+" "+messages.ConfigValidationGuidance, ErrConfigValidation, source, err)
	}
	if err := cfg.Validate(source); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}
	return cfg, nil
}

// decodeStrict re-decodes data rejecting keys that toml.Unmarshal ignores.
func decodeStrict(data []byte) error {
	var cfg Config
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(&cfg)
}
