// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aplane-algo/secfield/internal/secfield"
)

// Model is the secret entry screen. The surface it renders only ever holds
// placeholder characters; the secret lives in the field.
type Model struct {
	field    *secfield.Field
	onSubmit SubmitFunc
	title    string
	mask     rune

	// surface mirrors the field's display; cursor is a rune offset into it.
	surface []rune
	cursor  int

	showLength bool
	submitting bool
	result     string
	errMsg     string
	quitting   bool

	keys keyMap
	help help.Model

	width int
}

// NewModel creates an entry screen over field. mask is drawn once per
// secret character.
func NewModel(field *secfield.Field, title string, mask rune, onSubmit SubmitFunc) Model {
	if mask == 0 {
		mask = '*'
	}
	return Model{
		field:    field,
		onSubmit: onSubmit,
		title:    title,
		mask:     mask,
		keys:     defaultKeyMap(),
		help:     help.New(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Result returns the line produced by the last successful submit.
func (m Model) Result() string {
	return m.result
}

// Quitting reports whether the user left without submitting.
func (m Model) Quitting() bool {
	return m.quitting
}
