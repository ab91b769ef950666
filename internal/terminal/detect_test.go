package terminal

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func withTerminal(t *testing.T, fn func(int) bool) {
	t.Helper()
	orig := isTerminal
	isTerminal = fn
	t.Cleanup(func() { isTerminal = orig })
}

func TestIsTerminal(t *testing.T) {
	withTerminal(t, func(int) bool { return true })
	assert.True(t, IsTerminal(os.Stderr))
	assert.False(t, IsTerminal(&bytes.Buffer{}), "only files can be terminals")
	var nilFile *os.File
	assert.False(t, IsTerminal(nilFile))
}

func TestIsInteractive(t *testing.T) {
	stdin := int(os.Stdin.Fd())
	withTerminal(t, func(fd int) bool { return fd == stdin })
	assert.False(t, IsInteractive(), "stdout is not a terminal")

	withTerminal(t, func(int) bool { return true })
	assert.True(t, IsInteractive())
}
