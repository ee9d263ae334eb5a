package tui

import "github.com/charmbracelet/bubbles/key"

type KeyMap struct {
	TabHome    key.Binding
	TabStats   key.Binding
	TabProfile key.Binding
	Quit       key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		TabHome: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "home"),
		),
		TabStats: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "stats"),
		),
		TabProfile: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "profile"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.TabHome, k.TabStats, k.TabProfile, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.TabHome, k.TabStats, k.TabProfile}, {k.Quit}}
}
