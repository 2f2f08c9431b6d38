package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	ForceQuit key.Binding // everywhere
	Quit      key.Binding // non-form screens
	Start     key.Binding
	Back      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Confirm   key.Binding
	Toggle    key.Binding
	Restart   key.Binding
}

var keys = keyMap{
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
	Start:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "new run")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Next:      key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:      key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "previous field")),
	Confirm:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next/submit")),
	Toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
	Restart:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "new run")),
}
