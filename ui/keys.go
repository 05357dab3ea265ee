package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard key bindings.
type KeyMap struct {
	ToggleLive key.Binding
	Search     key.Binding
	Status     key.Binding
	Priority   key.Binding
	Refresh    key.Binding
	Dismiss    key.Binding
	Quit       key.Binding

	// Active while the search input has focus.
	Confirm key.Binding
	Cancel  key.Binding
	Erase   key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	ToggleLive: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "live/pause"),
	),
	Search: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "search"),
	),
	Status: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "status"),
	),
	Priority: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "priority"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Dismiss: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "dismiss"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Confirm: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "apply"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "clear"),
	),
	Erase: key.NewBinding(
		key.WithKeys("backspace"),
	),
}

// ShortHelp returns the bindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleLive, k.Search, k.Status, k.Priority, k.Refresh, k.Dismiss, k.Quit}
}
