package main

import "github.com/charmbracelet/bubbles/key"

// exploreKeyMap defines the explorer's keyboard shortcuts
type exploreKeyMap struct {
	Up         key.Binding
	Down       key.Binding
	Home       key.Binding
	End        key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Copy       key.Binding
	Help       key.Binding
	Esc        key.Binding
	Quit       key.Binding
}

func defaultExploreKeyMap() exploreKeyMap {
	return exploreKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous tag"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next tag"),
		),
		Home: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "first tag"),
		),
		End: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "last tag"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup", "u"),
			key.WithHelp("pgup/u", "scroll details up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown", "d"),
			key.WithHelp("pgdn/d", "scroll details down"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy tag bytes as hex"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// bindings lists the shortcuts in the order the help overlay shows them
func (k exploreKeyMap) bindings() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Home, k.End, k.ScrollUp, k.ScrollDown, k.Copy, k.Help, k.Quit}
}
