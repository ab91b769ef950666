package messages

// Config messages for configuration loading and validation.
const (
	ConfigMissingFileFmt      = "missing config file %s: %w"
	ConfigReadFileFmt         = "failed to read config file %s: %w"
	ConfigInvalidConfigFmt    = "invalid config %s: %w"
	ConfigUnrecognizedKeysFmt = "%s: unrecognized config keys: %v"
	ConfigValidationGuidance  = "(see ladder upgrade --help for the supported keys)"
	ConfigExpandPathFmt       = "failed to expand %s: %w"
	ConfigHomeDirFmt          = "failed to resolve home directory: %w"

	ConfigEnumInvalidFmt     = "%s: %s must be one of %s"
	ConfigRemoteRequiredFmt  = "%s: upgrade.remote must not be empty"
	ConfigDiffLinesFmt       = "%s: output.diff_lines must not be negative"
	ConfigTokenEnvInvalidFmt = "%s: github.token_env %q is not a valid environment variable name"
	ConfigAPIURLInvalidFmt   = "%s: github.api_url %q must be an http or https URL"
	ConfigExcludeEmptyFmt    = "%s: scan.exclude[%d] is empty"
	ConfigExcludeInvalidFmt  = "%s: scan.exclude[%d] %q is not a valid glob: %v"

	ConfigValidationWarnDescription   = "Record validation errors as warnings and keep going"
	ConfigValidationStrictDescription = "Abort a step before writing when validation fails"
)
