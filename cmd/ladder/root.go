package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/conn-castle/ladder/internal/config"
	"github.com/conn-castle/ladder/internal/drivers/golang"
	"github.com/conn-castle/ladder/internal/drivers/laravel"
	"github.com/conn-castle/ladder/internal/drivers/php"
	"github.com/conn-castle/ladder/internal/engine"
	"github.com/conn-castle/ladder/internal/messages"
	"github.com/conn-castle/ladder/internal/vcs"
)

var getwd = os.Getwd
var newEngine = defaultEngine

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           messages.RootUse,
		Short:         messages.RootShort,
		Long:          messages.RootLong,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.AddCommand(newDetectCmd(), newUpgradeCmd(), newListDriversCmd())
	return cmd
}

// defaultEngine registers the built-in drivers. Laravel depends on php.
// Pull requests are only possible when cfg yields a token.
func defaultEngine(cfg *config.Config) *engine.Engine {
	e := engine.New()
	phpDriver := php.New()
	e.Register(phpDriver)
	e.Register(laravel.New(phpDriver))
	e.Register(golang.New())
	if token := cfg.Token(); token != "" {
		e.GitHub = vcs.NewGitHubClient(cfg.GitHub.APIURL, token)
	}
	return e
}

// resolveProject returns the absolute project directory, defaulting to the working directory.
func resolveProject(path string) (string, error) {
	if path == "" {
		cwd, err := getwd()
		if err != nil {
			return "", err
		}
		path = cwd
	}
	expanded, err := config.ExpandPath(path)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf(messages.UpgradeProjectPathFmt, path, err)
	}
	return abs, nil
}
