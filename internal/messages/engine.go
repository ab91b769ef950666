package messages

// Engine messages.
const (
	EngineDetectingFmt        = "Planning %s upgrade from %s to %s"
	EnginePreparingFmt        = "Step %d/%d: preparing %s %s -> %s"
	EngineTransformingFmt     = "Step %d/%d: transforming %s %s -> %s"
	EngineCommittingFmt       = "Step %d/%d: committing %s %s -> %s"
	EngineCompleteFmt         = "Upgraded %s from %s to %s"
	EngineNothingToDoFmt      = "%s is already at %s"
	EngineStepBranchFmt       = "upgrade-%s-%s-to-%s"
	EngineCommitMessageFmt    = "Upgrade %s from %s to %s"
	EngineDirtyTreeFmt        = "%s has uncommitted changes; commit or stash them first"
	EngineVCSUnavailableFmt   = "%s is not a git working tree"
	EngineStatusFmt           = "failed to read working tree status: %w"
	EngineValidationFailedFmt = "%s %s: %s"
	EngineValidationWarnFmt   = "%s %s validation: %s"
	EngineWriteFmt            = "failed to write %s: %w"
	EngineBeforeHookFmt       = "%s before-upgrade hook failed: %w"
	EngineAfterHookFmt        = "%s after-upgrade hook failed: %w"
	EngineValidateFmt         = "%s validation failed to run: %w"
	EngineTransformFmt        = "%s transform %s -> %s failed: %w"
	EngineCascadeFmt          = "Cascading %s %s -> %s for %s %s\n"
	EngineCascadeSkipFmt      = "cannot cascade %s from %s to %s: %v"
	EngineCanceledFmt         = "upgrade canceled before step %d/%d: %w"
	EnginePublishFmt          = "publish failed: %v"
	EngineBaseBranchFmt       = "failed to resolve base branch: %w"
)

// Pull request description.
const (
	PRTitleFmt        = "Upgrade %s from %s to %s"
	PRHeadingFmt      = "## Upgrade %s from %s to %s\n\n"
	PRPathFmt         = "Upgrade path: %s\n\n"
	PRSummaryHeader   = "### Summary\n\n"
	PRSummaryLineFmt  = "- %d files touched, %d rewritten\n- %d changes, %d need manual review\n\n"
	PRChangesHeader   = "### Changes\n\n"
	PRFileHeaderFmt   = "#### `%s`\n\n"
	PRChangeLineFmt   = "- %s\n"
	PRDiffsHeader     = "### Diffs\n\n"
	PRDiffBlockFmt    = "```diff\n%s```\n\n"
	PRWarningsHeader  = "### Warnings\n\n"
	PRNextStepsHeader = "### Next steps\n\n"
	PRNextSteps       = "- Install updated dependencies\n- Run the test suite\n- Review every advisory change listed above\n"
	PRNoChanges       = "No files changed.\n\n"
)
