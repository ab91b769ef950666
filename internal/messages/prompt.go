package messages

// Confirmation prompt messages.
const (
	PromptRequiresTerminal  = "confirmation requires an interactive terminal; pass --yes to skip it"
	PromptConfirmTitleFmt   = "Upgrade %s from %s to %s?"
	PromptConfirmDescFmt    = "%d steps on %s; each step is committed on its own branch."
	PromptConfirmDescOneFmt = "%d steps on %s; all steps are committed to branch %s."
	PromptAffirmative       = "Upgrade"
	PromptNegative          = "Cancel"
	PromptCancelHelp        = "cancel"
)
