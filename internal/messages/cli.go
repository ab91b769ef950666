package messages

// CLI messages for user-facing commands.
const (
	// RootUse is the CLI command name.
	RootUse   = "ladder"
	RootShort = "Upgrade a project one supported version at a time"
	RootLong  = "ladder detects upgradeable components in a project, plans the path of supported versions\n" +
		"between two releases, and applies and commits each step on its own so any step can be reverted."

	// VersionCommitFmt formats the commit hash for version display.
	VersionCommitFmt = "commit %s"
	VersionBuildFmt  = "built %s"
	VersionFullFmt   = "%s (%s)"
	VersionTemplate  = "{{.Version}}\n"

	DetectUse          = "detect [path]"
	DetectShort        = "List the upgradeable components found in a project"
	DetectHeaderFmt    = "Components in %s:\n"
	DetectLineFmt      = "  %-10s %s\n"
	DetectNone         = "No upgradeable components detected."
	DetectFlagJSON     = "Print detections as JSON"
	ListDriversUse     = "list-drivers"
	ListDriversShort   = "List the available drivers and their supported versions"
	ListDriversLineFmt = "%-10s %s\n"
	ListDriversDepsFmt = "           depends on: %s\n"

	UpgradeUse   = "upgrade <driver> [from] <to>"
	UpgradeShort = "Upgrade a component, committing every version step separately"
	UpgradeLong  = "Upgrade walks every supported version between from and to. Each step is written,\n" +
		"staged, and committed before the next one starts. When from is omitted it is read from the project."

	UpgradeFlagPath      = "Project directory (defaults to the current directory)"
	UpgradeFlagDryRun    = "Compute every step without writing files or touching git"
	UpgradeFlagPR        = "Push the result and open a GitHub pull request"
	UpgradeFlagBranch    = "Commit every step to this branch instead of one branch per step"
	UpgradeFlagBase      = "Pull request base branch (defaults to the branch checked out at start)"
	UpgradeFlagRemote    = "Git remote to push to"
	UpgradeFlagStrict    = "Abort a step before writing when validation fails"
	UpgradeFlagCascade   = "Also upgrade dependencies (such as php for laravel) to the versions each step needs"
	UpgradeFlagDiff      = "Print a unified diff for every rewritten file"
	UpgradeFlagDiffLines = "Maximum diff lines shown per file"
	UpgradeFlagJSON      = "Print the result as JSON"
	UpgradeFlagYes       = "Do not ask for confirmation"
	UpgradeFlagTimeout   = "Abort after this long (for example 10m); 0 disables the limit"
	UpgradeFlagConfig    = "Config file (defaults to .ladder.toml, then ~/.config/ladder/config.toml)"
	UpgradeFlagExclude   = "Extra glob pattern no driver may touch (repeatable)"

	UpgradeCancelled       = "Upgrade cancelled."
	UpgradeDryRunHeaderFmt = "Dry run: %s %s -> %s (no files written, nothing committed)\n"
	UpgradeHeaderFmt       = "Upgraded %s %s -> %s\n"
	UpgradeNothingFmt      = "%s is already at %s; nothing to do.\n"
	UpgradeStepFmt         = "\nStep %s -> %s"
	UpgradeStepBranchFmt   = " (branch %s)"
	UpgradeFileFmt         = "  %s\n"
	UpgradeChangeFmt       = "    %s\n"
	UpgradeNoChanges       = "  no changes"
	UpgradeWarningFmt      = "warning: %s\n"
	UpgradeSummaryFmt      = "\n%d files, %d rewritten, %d changes (%d need manual review)\n"
	UpgradePullRequestFmt  = "Pull request: %s\n"
	UpgradePublishFailed   = "Every step was committed locally, but publishing failed:"
	UpgradeProgressFmt     = "[%s] %s\n"
	UpgradeFileProgressFmt = "[%s] step %d/%d: %d/%d files\n"
	UpgradeProjectPathFmt  = "failed to resolve project path %s: %w"
	UpgradeDiffHeaderFmt   = "\nDiff for %s:\n"
)
