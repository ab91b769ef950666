package laravel

import "github.com/conn-castle/ladder/internal/manifest"

// FrameworkPackage is the composer package that marks a Laravel project.
const FrameworkPackage = "laravel/framework"

// PackageUpgrades lists companion package bumps per target Laravel version.
// Only packages already declared in composer.json are touched.
var PackageUpgrades = manifest.UpgradeMap{
	"12": {
		{Name: "php", From: "^8.0", To: "^8.2"},
		{Name: "laravel/sanctum", From: "^3.0", To: "^4.0"},
		{Name: "laravel/tinker", From: "^2.7", To: "^2.9"},
		{Name: "laravel/scout", From: "^10.0", To: "^10.1"},
		{Name: "spatie/laravel-permission", From: "^5.0", To: "^6.0"},
		{Name: "spatie/laravel-multitenancy", From: "^3.0", To: "^3.2"},
		{Name: "spatie/laravel-query-builder", From: "^5.0", To: "^6.0"},
		{Name: "inertiajs/inertia-laravel", From: "^0.6", To: "^1.0"},
		{Name: "nesbot/carbon", From: "^2.0", To: "^3.0"},
	},
	"11": {
		{Name: "php", From: "^8.0", To: "^8.2"},
		{Name: "laravel/sanctum", From: "^2.0|^3.0", To: "^3.3"},
		{Name: "laravel/tinker", From: "^2.7", To: "^2.9"},
		{Name: "laravel/scout", From: "^9.0", To: "^10.0"},
		{Name: "spatie/laravel-permission", From: "^5.0", To: "^5.11"},
		{Name: "spatie/laravel-multitenancy", From: "^2.0", To: "^3.0"},
	},
	"10": {
		{Name: "php", From: "^8.0", To: "^8.1"},
		{Name: "laravel/sanctum", From: "^2.0", To: "^3.0"},
		{Name: "laravel/breeze", From: "^1.0", To: "^1.9"},
		{Name: "laravel/scout", From: "^9.0", To: "^9.8"},
	},
	"9": {
		{Name: "php", From: "^7.3", To: "^8.0"},
		{Name: "laravel/sanctum", From: "^2.11", To: "^2.15"},
		{Name: "laravel/scout", From: "^9.0", To: "^9.4"},
	},
}

// phpMinimums is the PHP minor version each Laravel major requires.
var phpMinimums = map[string]string{
	"9":  "8.0",
	"10": "8.1",
	"11": "8.2",
	"12": "8.2",
}
