package prompt

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withRunForm(t *testing.T, fn func(*huh.Form) error) {
	t.Helper()
	orig := runFormFunc
	runFormFunc = fn
	t.Cleanup(func() { runFormFunc = orig })
}

func interactive() *HuhConfirmer {
	return &HuhConfirmer{isTerminal: func() bool { return true }}
}

func TestConfirmRequiresTerminal(t *testing.T) {
	withRunForm(t, func(*huh.Form) error {
		t.Fatal("form must not run without a terminal")
		return nil
	})
	c := &HuhConfirmer{isTerminal: func() bool { return false }}
	ok, err := c.Confirm("Upgrade?", "", true)
	require.ErrorIs(t, err, ErrNotInteractive)
	assert.False(t, ok)
}

func TestConfirmReturnsAnswer(t *testing.T) {
	var ran *huh.Form
	withRunForm(t, func(form *huh.Form) error {
		ran = form
		return nil
	})
	ok, err := interactive().Confirm("Upgrade?", "2 steps", true)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NotNil(t, ran)

	ok, err = interactive().Confirm("Upgrade?", "2 steps", false)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmAbortMeansNo(t *testing.T) {
	withRunForm(t, func(*huh.Form) error { return huh.ErrUserAborted })
	ok, err := interactive().Confirm("Upgrade?", "", true)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestConfirmPropagatesFormErrors(t *testing.T) {
	boom := errors.New("tty gone")
	withRunForm(t, func(*huh.Form) error { return boom })
	_, err := interactive().Confirm("Upgrade?", "", true)
	require.ErrorIs(t, err, boom)
}

func TestKeyMapQuitsOnEscape(t *testing.T) {
	km := keyMap()
	assert.Equal(t, []string{"ctrl+c", "esc"}, km.Quit.Keys())
}

func TestInterruptFilter(t *testing.T) {
	assert.Equal(t, tea.QuitMsg{}, interruptFilter(nil, tea.InterruptMsg{}))
	msg := tea.KeyMsg{Type: tea.KeyEnter}
	assert.Equal(t, msg, interruptFilter(nil, msg))
}
