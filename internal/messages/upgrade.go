package messages

// Upgrade planning, pipeline, parser, and manifest messages.
const (
	UpgradeInvalidRangeFmt  = "%s -> %s"
	UpgradeDowngradeFmt     = "cannot go from %s back to %s"
	UpgradeUnknownDriverFmt = "%q"

	// PipelineInvalidGlobFmt formats scope pattern compile errors.
	PipelineInvalidGlobFmt     = "invalid glob %q: %w"
	PipelineWalkFmt            = "failed to scan %s: %w"
	PipelineSkipUnreadableFmt  = "skipped unreadable file %s: %v"
	PipelineSkipUnscannableFmt = "skipped unscannable path %s: %v"
	PipelineProgressFmt        = "processed %d/%d files"
	PipelineManifestFmt        = "manifest update failed: %w"
	PipelineManifestReadFmt    = "failed to read manifest %s: %w"
	PipelineManifestParseFmt   = "failed to parse manifest %s: %w"

	ParserGoParseFmt        = "failed to parse Go source: %w"
	ParserGoFormatFmt       = "failed to format Go source: %w"
	ParserUnexpectedTreeFmt = "%s parser cannot generate from %T"

	ManifestDecodeFmt      = "invalid manifest JSON: %w"
	ManifestRootNotObject  = "manifest root must be a JSON object"
	ManifestTrailingData   = "unexpected data after manifest root object"
	ManifestPathMissingFmt = "manifest has no value at %s"
	// ManifestBumpPackageFmt describes a dependency constraint change: name, old, new.
	ManifestBumpPackageFmt = "Update %s from %s to %s"
)
