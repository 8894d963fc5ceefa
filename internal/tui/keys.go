package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the key bindings and doubles as the help source.
type keyMap struct {
	Focus  key.Binding
	Rest   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Toggle key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Focus: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "focus"),
		),
		Rest: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rest"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next phase"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev phase"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space", "enter", "s"),
			key.WithHelp("space", "start/pause"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Focus, k.Rest, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Focus, k.Rest},
		{k.Next, k.Prev},
		{k.Help, k.Quit},
	}
}

// fullHelpHeight is the tallest column in FullHelp.
const fullHelpHeight = 3
