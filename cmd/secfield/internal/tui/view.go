// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("42")).
			Padding(0, 1)

	cursorStyle = lipgloss.NewStyle().Reverse(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)
)

// minInputWidth keeps the box from resizing with the first few characters.
const minInputWidth = 30

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting || m.result != "" {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render(m.title))
	sb.WriteString("\n")

	if m.submitting {
		sb.WriteString(subtitleStyle.Render("Deriving key..."))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(inputStyle.Render(m.renderInput()))
	sb.WriteString("\n")

	if m.showLength {
		sb.WriteString(subtitleStyle.Render(fmt.Sprintf("%d/%d characters", len(m.surface), m.field.MaxLength())))
		sb.WriteString("\n")
	}
	if m.errMsg != "" {
		sb.WriteString(errorStyle.Render(m.errMsg))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// renderInput draws one mask rune per surface position. The placeholders
// themselves are never printed.
func (m Model) renderInput() string {
	var sb strings.Builder
	n := len(m.surface)
	sb.WriteString(strings.Repeat(string(m.mask), m.cursor))
	if m.cursor < n {
		sb.WriteString(cursorStyle.Render(string(m.mask)))
		sb.WriteString(strings.Repeat(string(m.mask), n-m.cursor-1))
	} else {
		sb.WriteString(cursorStyle.Render(" "))
	}
	if pad := minInputWidth - n - 1; pad > 0 {
		sb.WriteString(strings.Repeat(" ", pad))
	}
	return sb.String()
}
