package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conn-castle/ladder/internal/engine"
	"github.com/conn-castle/ladder/internal/testutil"
)

func TestDetectListsComponents(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"composer.json": `{"require": {"php": "^8.1", "laravel/framework": "^10.10"}}` + "\n",
		"go.mod":        "module example.com/app\n\ngo 1.22.3\n",
	})

	out, _, err := run(t, "detect", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Components in "+dir)
	assert.Regexp(t, `php\s+8\.1`, out)
	assert.Regexp(t, `laravel\s+10`, out)
	assert.Regexp(t, `go\s+1\.22`, out)
}

func TestDetectJSON(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"go.mod": "module example.com/app\n\ngo 1.21\n"})

	out, _, err := run(t, "detect", dir, "--json")
	require.NoError(t, err)
	var found []engine.Detection
	require.NoError(t, json.Unmarshal([]byte(out), &found))
	assert.Equal(t, []engine.Detection{{Driver: "go", Version: "1.21"}}, found)
}

func TestDetectNothing(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	out, _, err := run(t, "detect", dir)
	require.NoError(t, err)
	assert.Equal(t, "No upgradeable components detected.\n", out)

	out, _, err = run(t, "detect", dir, "--json")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, out)
}

func TestDetectInvalidConfig(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{".ladder.toml": "[upgrade]\nvalidation = \"loud\"\n"})

	_, _, err := run(t, "detect", dir)
	assert.ErrorContains(t, err, "validation")
}

func TestListDrivers(t *testing.T) {
	isolate(t)
	out, _, err := run(t, "list-drivers")
	require.NoError(t, err)
	assert.Contains(t, out, "7.4 → 8.0 → 8.1 → 8.2 → 8.3 → 8.4")
	assert.Contains(t, out, "9 → 10 → 11 → 12")
	assert.Contains(t, out, "1.20 → 1.21")
	assert.Contains(t, out, "depends on: php")
}

func TestDetectDefaultsToWorkingDirectory(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{"go.mod": "module example.com/app\n\ngo 1.24\n"})

	testutil.WithWorkingDir(t, dir, func() {
		out, _, err := run(t, "detect")
		require.NoError(t, err)
		assert.Regexp(t, `go\s+1\.24`, out)
	})
}
