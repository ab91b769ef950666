package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/conn-castle/ladder/internal/config"
	"github.com/conn-castle/ladder/internal/engine"
	"github.com/conn-castle/ladder/internal/messages"
	"github.com/conn-castle/ladder/internal/prompt"
	"github.com/conn-castle/ladder/internal/upgrade"
)

// confirmer asks before a run mutates the project.
type confirmer interface {
	prompt.Confirmer
	Interactive() bool
}

var newConfirmer = func() confirmer { return prompt.New() }

type upgradeFlags struct {
	path      string
	config    string
	branch    string
	base      string
	remote    string
	exclude   []string
	dryRun    bool
	pr        bool
	strict    bool
	cascade   bool
	diff      bool
	asJSON    bool
	yes       bool
	diffLines int
	timeout   time.Duration
}

func newUpgradeCmd() *cobra.Command {
	f := &upgradeFlags{}
	cmd := &cobra.Command{
		Use:   messages.UpgradeUse,
		Short: messages.UpgradeShort,
		Long:  messages.UpgradeLong,
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpgrade(cmd, args, f)
		},
	}
	f.bind(cmd)
	return cmd
}

func (f *upgradeFlags) bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.path, "path", "", messages.UpgradeFlagPath)
	flags.StringVar(&f.config, "config", "", messages.UpgradeFlagConfig)
	flags.BoolVar(&f.dryRun, "dry-run", false, messages.UpgradeFlagDryRun)
	flags.BoolVar(&f.pr, "pr", false, messages.UpgradeFlagPR)
	flags.StringVar(&f.branch, "branch", "", messages.UpgradeFlagBranch)
	flags.StringVar(&f.base, "base", "", messages.UpgradeFlagBase)
	flags.StringVar(&f.remote, "remote", "", messages.UpgradeFlagRemote)
	flags.BoolVar(&f.strict, "strict", false, messages.UpgradeFlagStrict)
	flags.BoolVar(&f.cascade, "cascade", false, messages.UpgradeFlagCascade)
	flags.BoolVar(&f.diff, "diff", false, messages.UpgradeFlagDiff)
	flags.IntVar(&f.diffLines, "diff-lines", 0, messages.UpgradeFlagDiffLines)
	flags.StringArrayVar(&f.exclude, "exclude", nil, messages.UpgradeFlagExclude)
	flags.BoolVar(&f.asJSON, "json", false, messages.UpgradeFlagJSON)
	flags.BoolVarP(&f.yes, "yes", "y", false, messages.UpgradeFlagYes)
	flags.DurationVar(&f.timeout, "timeout", 0, messages.UpgradeFlagTimeout)
}

func runUpgrade(cmd *cobra.Command, args []string, f *upgradeFlags) error {
	root, err := resolveProject(f.path)
	if err != nil {
		return err
	}
	cfg, _, err := config.Load(root, f.config)
	if err != nil {
		return err
	}
	opts := upgradeOptions(cmd, cfg, f)

	e := newEngine(cfg)
	driverName := args[0]
	d, err := e.Driver(driverName)
	if err != nil {
		return err
	}
	to := args[len(args)-1]
	from := d.CurrentVersion(root)
	if len(args) == 3 {
		from = args[1]
	}

	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()
	e.SetProgress(progressRenderer(stderr))
	opts.Out = stdout
	if f.asJSON {
		opts.Out = stderr
	}

	if !opts.DryRun && !f.yes {
		ok, err := confirmUpgrade(d, root, from, to, opts)
		if err != nil {
			return err
		}
		if !ok {
			_, err := fmt.Fprintln(stdout, messages.UpgradeCancelled)
			return err
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	res, runErr := e.Upgrade(ctx, root, driverName, from, to, opts)
	if res != nil {
		var renderErr error
		if f.asJSON {
			renderErr = renderJSON(stdout, res, opts.DiffLines, runErr)
		} else {
			renderErr = renderResult(stdout, res, f.diff, opts.DiffLines)
		}
		if renderErr != nil && runErr == nil {
			return renderErr
		}
	}
	var publishErr *engine.PublishError
	if errors.As(runErr, &publishErr) && !f.asJSON {
		_, _ = fmt.Fprintln(stderr, color.RedString(messages.UpgradePublishFailed))
	}
	return runErr
}

// upgradeOptions builds engine options from cfg, letting explicitly set flags win.
func upgradeOptions(cmd *cobra.Command, cfg *config.Config, f *upgradeFlags) engine.Options {
	flags := cmd.Flags()
	opts := engine.Options{
		DryRun:              f.dryRun,
		CreatePR:            f.pr,
		BranchName:          f.branch,
		BaseBranch:          cfg.Upgrade.BaseBranch,
		Remote:              cfg.Upgrade.Remote,
		Validation:          engine.ValidationPolicy(cfg.Upgrade.Validation),
		CascadeDependencies: cfg.Upgrade.CascadeDependencies,
		Exclude:             append(append([]string(nil), cfg.Scan.Exclude...), f.exclude...),
		DiffLines:           cfg.Output.DiffLines,
	}
	if flags.Changed("base") {
		opts.BaseBranch = f.base
	}
	if flags.Changed("remote") {
		opts.Remote = f.remote
	}
	if flags.Changed("strict") {
		opts.Validation = engine.ValidationWarn
		if f.strict {
			opts.Validation = engine.ValidationStrict
		}
	}
	if flags.Changed("cascade") {
		opts.CascadeDependencies = f.cascade
	}
	if flags.Changed("diff-lines") {
		opts.DiffLines = f.diffLines
	}
	return opts
}

// confirmUpgrade asks whether to run the planned steps. Runs without a
// terminal, runs with nothing to do, and runs that fail to plan proceed
// without asking so the engine reports the outcome.
func confirmUpgrade(d upgrade.Driver, root string, from string, to string, opts engine.Options) (bool, error) {
	path, err := d.UpgradePath(from, to)
	if err != nil || len(path) < 2 {
		return true, nil
	}
	c := newConfirmer()
	if !c.Interactive() {
		return true, nil
	}
	steps := len(path) - 1
	description := fmt.Sprintf(messages.PromptConfirmDescFmt, steps, root)
	if opts.BranchName != "" {
		description = fmt.Sprintf(messages.PromptConfirmDescOneFmt, steps, root, opts.BranchName)
	}
	return c.Confirm(fmt.Sprintf(messages.PromptConfirmTitleFmt, d.Name(), from, to), description, true)
}
