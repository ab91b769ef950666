package config

import (
	"fmt"
	"path/filepath"

	"github.com/mitchellh/go-homedir"

	"github.com/conn-castle/ladder/internal/messages"
)

// ProjectFileName is the per-project config file at the project root.
const ProjectFileName = ".ladder.toml"

var homeDir = homedir.Dir

// Paths holds the candidate config file locations, in lookup order.
type Paths struct {
	Project string
	User    string
}

// DefaultPaths returns the config locations for a project root.
func DefaultPaths(root string) (Paths, error) {
	home, err := homeDir()
	if err != nil {
		return Paths{}, fmt.Errorf(messages.ConfigHomeDirFmt, err)
	}
	return Paths{
		Project: filepath.Join(root, ProjectFileName),
		User:    filepath.Join(home, ".config", "ladder", "config.toml"),
	}, nil
}

// ExpandPath resolves a leading ~ in path to the user's home directory.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf(messages.ConfigExpandPathFmt, path, err)
	}
	return expanded, nil
}
