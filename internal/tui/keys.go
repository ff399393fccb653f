package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all key bindings for the application.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Select      key.Binding
	Range       key.Binding
	SelectAll   key.Binding
	MoveItemUp  key.Binding
	MoveItemDn  key.Binding
	Move        key.Binding
	AddFolder   key.Binding
	Rename      key.Binding
	Delete      key.Binding
	Filter      key.Binding
	Search      key.Binding
	Dupes       key.Binding
	YankName    key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default vim-style key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		Left: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/left", "go back"),
		),
		Right: key.NewBinding(
			key.WithKeys("l", "right", "enter"),
			key.WithHelp("l/right", "enter folder"),
		),
		Top: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("gg", "go to top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "toggle select"),
		),
		Range: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "range select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("ctrl+a", "select all"),
		),
		MoveItemUp: key.NewBinding(
			key.WithKeys("K"),
			key.WithHelp("K", "move item up"),
		),
		MoveItemDn: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "move item down"),
		),
		Move: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "move to folder"),
		),
		AddFolder: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "add folder"),
		),
		Rename: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rename"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Search: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "global search"),
		),
		Dupes: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "find duplicates"),
		),
		YankName: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "yank name"),
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
