package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Pins    key.Binding
	Confirm key.Binding
	Strike  key.Binding
	Gutter  key.Binding
	Reset   key.Binding
	NewGame key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Pins: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "tap pin"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "confirm"),
		),
		Strike: key.NewBinding(
			key.WithKeys("x", "X"),
			key.WithHelp("x", "strike"),
		),
		Gutter: key.NewBinding(
			key.WithKeys("-", "0"),
			key.WithHelp("-", "gutter"),
		),
		Reset: key.NewBinding(
			key.WithKeys("backspace", "u"),
			key.WithHelp("⌫/u", "undo"),
		),
		NewGame: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new game"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pins, k.Confirm, k.Strike, k.Gutter, k.Reset, k.NewGame, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pins, k.Confirm, k.Strike, k.Gutter},
		{k.Reset, k.NewGame, k.Help, k.Quit},
	}
}
