// Package prompt asks the user to confirm an upgrade before it mutates the project.
package prompt

import (
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/ladder/internal/messages"
	"github.com/conn-castle/ladder/internal/terminal"
)

// ErrNotInteractive is returned when there is no terminal to ask on.
var ErrNotInteractive = errors.New(messages.PromptRequiresTerminal)

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(title string, description string, defaultYes bool) (bool, error)
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// HuhConfirmer implements Confirmer with a huh confirm field on stderr.
type HuhConfirmer struct {
	isTerminal func() bool
}

// New returns a HuhConfirmer using terminal.IsInteractive.
func New() *HuhConfirmer {
	return &HuhConfirmer{isTerminal: terminal.IsInteractive}
}

// Interactive reports whether Confirm can ask.
func (c *HuhConfirmer) Interactive() bool {
	checker := c.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	return checker()
}

// keyMap maps esc and ctrl+c to abort, which Confirm treats as "no".
func keyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", messages.PromptCancelHelp))
	return km
}

// interruptFilter turns an interrupt into a quit so the form clears itself.
func interruptFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.InterruptMsg); ok {
		return tea.QuitMsg{}
	}
	return msg
}

// Confirm shows the question and returns the answer. Aborting the form
// answers no.
func (c *HuhConfirmer) Confirm(title string, description string, defaultYes bool) (bool, error) {
	if !c.Interactive() {
		return false, ErrNotInteractive
	}
	value := defaultYes
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Description(description).
			Affirmative(messages.PromptAffirmative).
			Negative(messages.PromptNegative).
			Value(&value),
	))
	form.WithKeyMap(keyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithFilter(interruptFilter),
	)
	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return value, nil
}
