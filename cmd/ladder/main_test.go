package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty directory so no user config is read, and
// disables color so output can be matched as plain text.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	origCache := homedir.DisableCache
	homedir.DisableCache = true
	origNoColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		homedir.DisableCache = origCache
		color.NoColor = origNoColor
	})
}

// run executes the CLI and returns stdout, stderr, and the error.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := execute(append([]string{"ladder"}, args...), &stdout, &stderr)
	return stdout.String(), stderr.String(), err
}

func TestMainVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, execute([]string{"ladder", "--version"}, &out, &out))
	assert.Contains(t, out.String(), Version)
}

func TestMainUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	assert.Error(t, execute([]string{"ladder", "unknown"}, &out, &out))
}

func TestExecuteCancelsContextOnInterrupt(t *testing.T) {
	orig := rootCmdFunc
	t.Cleanup(func() { rootCmdFunc = orig })
	rootCmdFunc = func() *cobra.Command {
		root := orig()
		root.AddCommand(&cobra.Command{
			Use: "wait",
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx := cmd.Context()
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if err := syscall.Kill(os.Getpid(), syscall.SIGINT); err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(5 * time.Second):
					return errors.New("context was not canceled")
				}
			},
		})
		return root
	}

	_, _, err := run(t, "wait")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunMainSuccess(t *testing.T) {
	var out bytes.Buffer
	called := false
	runMain([]string{"ladder", "--version"}, &out, &out, func(int) { called = true })
	assert.False(t, called)
}

func TestRunMainError(t *testing.T) {
	var out bytes.Buffer
	code := 0
	runMain([]string{"ladder", "unknown"}, &out, &out, func(exitCode int) { code = exitCode })
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "unknown command")
}

func TestRunMainExecuteError(t *testing.T) {
	orig := executeFunc
	executeFunc = func([]string, io.Writer, io.Writer) error { return errors.New("boom") }
	t.Cleanup(func() { executeFunc = orig })

	var out bytes.Buffer
	code := 0
	runMain([]string{"ladder"}, &out, &out, func(exitCode int) { code = exitCode })
	assert.Equal(t, 1, code)
	assert.Equal(t, "boom\n", out.String())
}

func TestMainCallsExecute(t *testing.T) {
	originalArgs := os.Args
	t.Cleanup(func() { os.Args = originalArgs })
	os.Args = []string{"ladder", "--version"}
	main()
}

func TestVersionString(t *testing.T) {
	origVersion, origCommit, origDate := Version, Commit, BuildDate
	t.Cleanup(func() { Version, Commit, BuildDate = origVersion, origCommit, origDate })

	Version, Commit, BuildDate = "1.2.0", "unknown", "unknown"
	assert.Equal(t, "1.2.0", versionString())

	Commit = "abc123"
	assert.Equal(t, "1.2.0 (commit abc123)", versionString())

	BuildDate = "2026-01-02"
	assert.Equal(t, "1.2.0 (commit abc123, built 2026-01-02)", versionString())
}

func TestResolveProjectDefaultsToWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	orig := getwd
	getwd = func() (string, error) { return dir, nil }
	t.Cleanup(func() { getwd = orig })

	got, err := resolveProject("")
	require.NoError(t, err)
	assert.Equal(t, dir, got)
}

func TestResolveProjectGetwdError(t *testing.T) {
	orig := getwd
	getwd = func() (string, error) { return "", errors.New("getwd failed") }
	t.Cleanup(func() { getwd = orig })

	_, err := resolveProject("")
	assert.EqualError(t, err, "getwd failed")
}
