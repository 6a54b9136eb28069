// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the bindings of the entry screen. Printable characters are
// never bound; they always go into the field.
type keyMap struct {
	Submit       key.Binding
	Quit         key.Binding
	ToggleLength key.Binding
	Left         key.Binding
	Right        key.Binding
	Home         key.Binding
	End          key.Binding
	Backspace    key.Binding
	Delete       key.Binding
	KillBefore   key.Binding
	KillAfter    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		Quit:         key.NewBinding(key.WithKeys("esc", "ctrl+c"), key.WithHelp("esc", "quit")),
		ToggleLength: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "show length")),
		Left:         key.NewBinding(key.WithKeys("left", "ctrl+b"), key.WithHelp("←", "left")),
		Right:        key.NewBinding(key.WithKeys("right", "ctrl+f"), key.WithHelp("→", "right")),
		Home:         key.NewBinding(key.WithKeys("home", "ctrl+a"), key.WithHelp("home", "start")),
		End:          key.NewBinding(key.WithKeys("end", "ctrl+e"), key.WithHelp("end", "end")),
		Backspace:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("bksp", "delete left")),
		Delete:       key.NewBinding(key.WithKeys("delete", "ctrl+d"), key.WithHelp("del", "delete right")),
		KillBefore:   key.NewBinding(key.WithKeys("ctrl+u"), key.WithHelp("ctrl+u", "clear to start")),
		KillAfter:    key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "clear to end")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.ToggleLength, k.KillBefore, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Home, k.End},
		{k.Backspace, k.Delete, k.KillBefore, k.KillAfter},
		{k.Submit, k.ToggleLength, k.Quit},
	}
}
