// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case SubmittedMsg:
		m.submitting = false
		if msg.Err != nil {
			m.errMsg = msg.Err.Error()
			return m, nil
		}
		m.result = msg.Result
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}
	return m, nil
}

// handleKeyPress routes a key. Runes are inserted before any binding is
// consulted so that no printable character can trigger an action.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.field.Reset()
		m.surface = nil
		m.cursor = 0
		m.quitting = true
		return m, tea.Quit
	}
	if m.submitting {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		m.edit(m.cursor, m.cursor, msg.Runes)
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()

	case key.Matches(msg, m.keys.ToggleLength):
		m.showLength = !m.showLength

	case key.Matches(msg, m.keys.Left):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.cursor < len(m.surface) {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.cursor = len(m.surface)

	case key.Matches(msg, m.keys.Backspace):
		if m.cursor > 0 {
			m.edit(m.cursor-1, m.cursor, nil)
		}
	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(m.surface) {
			m.edit(m.cursor, m.cursor+1, nil)
		}
	case key.Matches(msg, m.keys.KillBefore):
		m.edit(0, m.cursor, nil)
	case key.Matches(msg, m.keys.KillAfter):
		m.edit(m.cursor, len(m.surface), nil)
	}
	return m, nil
}

// edit replaces surface[from:to] with ins, leaves the caret after the
// inserted text and hands the result to the field for reconciliation.
func (m *Model) edit(from, to int, ins []rune) {
	raw := make([]rune, 0, len(m.surface)-(to-from)+len(ins))
	raw = append(raw, m.surface[:from]...)
	raw = append(raw, ins...)
	raw = append(raw, m.surface[to:]...)

	m.surface, m.cursor = m.field.UpdateRunes(raw, from+len(ins))
	for i := range raw {
		raw[i] = 0
	}
	for i := range ins {
		ins[i] = 0
	}
	m.errMsg = ""
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if len(m.surface) == 0 {
		m.errMsg = "Nothing entered"
		return m, nil
	}
	secret, err := m.field.Extract()
	if err != nil {
		m.errMsg = err.Error()
		return m, nil
	}
	m.field.Reset()
	m.surface = nil
	m.cursor = 0
	m.submitting = true
	return m, submitCmd(secret, m.onSubmit)
}
