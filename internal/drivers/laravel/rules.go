package laravel

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/conn-castle/ladder/internal/change"
	"github.com/conn-castle/ladder/internal/parser"
	"github.com/conn-castle/ladder/internal/pipeline"
)

var phpFiles = []string{".php"}

const httpKernel = "app/Http/Kernel.php"

// Catalog returns the Laravel rule tables keyed by step.
func Catalog() pipeline.Catalog {
	c := pipeline.Catalog{}
	c.Add("9", "10",
		pipeline.AdviseRule("laravel10-route-namespace", phpFiles,
			regexp.MustCompile(`Route::.*\bnamespace\s*\(`), change.KindModify,
			"Route namespacing behavior changed in Laravel 10; verify namespace usage"),
		pipeline.AdviseRule("laravel10-required-if", phpFiles,
			regexp.MustCompile(`['"|]required_if:`), change.KindModify,
			"The required_if validation rule behavior changed in Laravel 10"),
		pipeline.AdviseRule("laravel10-drop-columns", phpFiles,
			regexp.MustCompile(`\bdropColumns\s*\(`), change.KindModify,
			"Schema::dropColumns now drops all columns in a single statement in Laravel 10"),
		pipeline.AdviseRule("laravel10-redirect-home", phpFiles,
			regexp.MustCompile(`\bRedirect::home\s*\(`), change.KindModify,
			"Redirect::home() was removed in Laravel 10; redirect to a named route instead"),
	)
	c.Add("10", "11",
		pipeline.Rule{ID: "laravel11-http-kernel", Extensions: phpFiles, Apply: retireHTTPKernel},
		nativeStringHelper("contains", "str_contains"),
		nativeStringHelper("startsWith", "str_starts_with"),
		nativeStringHelper("endsWith", "str_ends_with"),
		pipeline.AdviseRule("laravel11-str-replace-array", phpFiles,
			regexp.MustCompile(`\bstr_replace_array\s*\(`), change.KindModify,
			"str_replace_array() was removed; use Str::replaceArray()"),
		pipeline.AdviseRule("laravel11-dates-property", phpFiles,
			regexp.MustCompile(`\bprotected\s+\$dates\b`), change.KindModify,
			"The $dates model property is gone; move these columns into $casts as 'datetime'"),
		pipeline.AdviseRule("laravel11-middleware", phpFiles,
			regexp.MustCompile(`\$(?:middleware|middlewareGroups|middlewareAliases|routeMiddleware)\b`), change.KindModify,
			"Middleware configuration moved to bootstrap/app.php in Laravel 11"),
	)
	c.Add("11", "12",
		pipeline.AdviseOnceRule("laravel12-carbon", phpFiles,
			regexp.MustCompile(`\bCarbon\\Carbon\b`), change.KindModify,
			"Laravel 12 requires Carbon 3; check date handling for breaking changes"),
		pipeline.AdviseOnceRule("laravel12-uuids", phpFiles,
			regexp.MustCompile(`\bHasUuids\b`), change.KindModify,
			"HasUuids now generates ordered UUID v7 values; use HasVersion4Uuids to keep v4"),
		pipeline.AdviseRule("laravel12-image-svg", phpFiles,
			regexp.MustCompile(`['"|]image['"|]`), change.KindModify,
			"The image validation rule rejects SVG by default in Laravel 12; use image:allow_svg if needed"),
		pipeline.AdviseRule("laravel12-schema-listing", phpFiles,
			regexp.MustCompile(`\bSchema::(?:getTables|getViews|getTypes)\s*\(`), change.KindModify,
			"Schema listing methods now include every schema by default in Laravel 12"),
		pipeline.AdviseOnceRule("laravel12-inertia", phpFiles,
			regexp.MustCompile(`\binertia\s*\(|\bInertia::`), change.KindModify,
			"Laravel 12 pairs with inertia-laravel 1.x; verify compatibility"),
	)
	return c
}

// nativeStringHelper rewrites Str::<method>( to the native PHP 8 function.
// Fully qualified calls are left alone.
func nativeStringHelper(method string, native string) pipeline.Rule {
	re := regexp.MustCompile(`(^|[^\\\w])Str::` + method + `\(`)
	return pipeline.RewriteRule("laravel11-str-"+strings.ToLower(method), phpFiles, re, "${1}"+native+"(",
		"Replace Str::"+method+"() with native "+native+"()")
}

// retireHTTPKernel flags app/Http/Kernel.php, which Laravel 11 replaces with bootstrap/app.php.
func retireHTTPKernel(path string, content string, _ parser.Lookup) (string, []change.Change) {
	if !strings.HasSuffix(filepath.ToSlash(path), "/"+httpKernel) {
		return content, nil
	}
	return content, []change.Change{change.Advisory(change.KindRemove, 0,
		"Laravel 11 removes app/Http/Kernel.php; configure middleware in bootstrap/app.php")}
}
