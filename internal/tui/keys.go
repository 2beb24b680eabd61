package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit      key.Binding
	Day       key.Binding
	ThreeDay  key.Binding
	Week      key.Binding
	Prev      key.Binding
	Next      key.Binding
	Today     key.Binding
	Refresh   key.Binding
	New       key.Binding
	Edit      key.Binding
	Delete    key.Binding
	Export    key.Binding
	Import    key.Binding
	ScrollUp  key.Binding
	ScrollDn  key.Binding
	Dismiss   key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Day:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "day")),
	ThreeDay: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "3-day")),
	Week:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "week")),
	Prev:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "back")),
	Next:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "forward")),
	Today:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "today")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
	Edit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
	Delete:   key.NewBinding(key.WithKeys("x", "delete"), key.WithHelp("x", "delete")),
	Export:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export .ics")),
	Import:   key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import CalDAV")),
	ScrollUp: key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "scroll up")),
	ScrollDn: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "scroll down")),
	Dismiss:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "dismiss")),
}
