package messages

// Driver messages printed by hooks or returned by detection and validation.
const (
	DriverDetectFmt = "%s detection failed: %w"

	PHPPreparingFmt            = "Preparing PHP upgrade from %s to %s\n"
	PHPCompletedFmt            = "PHP upgrade from %s to %s applied. Run composer update and your test suite.\n"
	PHPBumpRequireFmt          = "Update PHP version requirement from %s to %s"
	PHPBumpPlatformFmt         = "Update platform PHP version from %s to %s"
	PHPNoConstraint            = "composer.json declares no PHP requirement"
	PHPUnparsableConstraintFmt = "cannot parse PHP constraint %q: %v"
	PHPConstraintExcludesFmt   = "PHP constraint %q does not allow PHP %s"
)

// Laravel driver messages.
const (
	LaravelPreparingFmt            = "Preparing Laravel upgrade from %s to %s\n"
	LaravelPackagePlanHeader       = "Package dependencies that will be upgraded when declared:\n"
	LaravelPackagePlanLineFmt      = "  - %s: %s -> %s\n"
	LaravelCompletedFmt            = "Laravel upgrade from %s to %s applied.\n"
	LaravelNextSteps               = "Next steps:\n  1. Run: composer update\n  2. Run: php artisan migrate\n  3. Clear cache: php artisan cache:clear\n  4. Test your application thoroughly\n"
	LaravelBumpFrameworkFmt        = "Update Laravel framework from %s to %s"
	LaravelFrameworkMissing        = "composer.json no longer requires laravel/framework"
	LaravelUnparsableConstraintFmt = "cannot parse laravel/framework constraint %q: %v"
	LaravelConstraintExcludesFmt   = "laravel/framework constraint %q does not allow Laravel %s"
	LaravelPHPTooOldFmt            = "PHP constraint %q is below what Laravel %s requires (%s); upgrade php too or rerun with --cascade"
)

// Go driver messages.
const (
	GoCompletedFmt      = "Go upgrade from %s to %s applied. Run go mod tidy and go test ./...\n"
	GoModParseFmt       = "failed to parse %s: %w"
	GoModEditFmt        = "failed to update %s: %w"
	GoAddDirectiveFmt   = "Add go %s directive"
	GoBumpDirectiveFmt  = "Update go directive from %s to %s"
	GoDropToolchainFmt  = "Remove toolchain %s, implied by the go directive"
	GoMissingDirective  = "go.mod has no go directive"
	GoDirectiveBelowFmt = "go directive %s is below %s"
)
