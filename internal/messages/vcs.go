package messages

// VCS messages for git and pull request operations.
const (
	VCSCommandFailedFmt       = "git %s: %v"
	VCSCommandFailedStderrFmt = "git %s: %v: %s"
	VCSCreateBranchFmt        = "failed to create branch %s: %w"
	VCSStageFmt               = "failed to stage changes: %w"
	VCSCommitFmt              = "failed to commit: %w"
	VCSPushFmt                = "failed to push %s to %s: %w"

	VCSAPIErrorFmt        = "github api error (%s)"
	VCSAPIErrorMessageFmt = "github api error (%s): %s"
	VCSEncodeRequestFmt   = "failed to encode pull request: %w"
	VCSCreateRequestFmt   = "failed to create request: %w"
	VCSSendRequestFmt     = "failed to send pull request: %w"
	VCSDecodeResponseFmt  = "failed to decode pull request response: %w"
)
