// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aplane-algo/secfield/internal/crypto"
)

// SubmitFunc consumes an extracted secret and returns a line to show the
// user, typically a key fingerprint. It runs outside the update loop, so it
// may block. The secret is destroyed after it returns.
type SubmitFunc func(secret *crypto.MaskedValue) (string, error)

// SubmittedMsg is sent when a SubmitFunc finishes.
type SubmittedMsg struct {
	Result string
	Err    error
}

func submitCmd(secret *crypto.MaskedValue, onSubmit SubmitFunc) tea.Cmd {
	return func() tea.Msg {
		defer secret.Destroy()
		result, err := onSubmit(secret)
		return SubmittedMsg{Result: result, Err: err}
	}
}
