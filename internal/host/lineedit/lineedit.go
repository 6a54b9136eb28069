// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package lineedit hosts a secure field inside a readline prompt.
//
// readline owns the edit buffer and the caret. After every keystroke it hands
// the buffer to a Listener, which is where the field reconciles the edit and
// swaps the typed character for a placeholder. The line readline returns on
// Enter therefore never holds a secret character.
package lineedit

import (
	"errors"
	"fmt"

	"github.com/chzyer/readline"

	"github.com/aplane-algo/secfield/internal/crypto"
	"github.com/aplane-algo/secfield/internal/secfield"
)

// ErrInterrupted is returned when the user cancels the prompt with Ctrl+C.
var ErrInterrupted = errors.New("secret entry interrupted")

// Listener adapts a secure field to readline's change callback.
type Listener struct {
	field *secfield.Field
}

// NewListener returns a listener that feeds every change into field.
func NewListener(field *secfield.Field) *Listener {
	return &Listener{field: field}
}

// OnChange implements readline.Listener.
func (l *Listener) OnChange(line []rune, pos int, key rune) ([]rune, int, bool) {
	// readline fires once with an empty buffer before the first key.
	if line == nil && pos == 0 && key == 0 {
		return nil, 0, false
	}
	display, caret := l.field.UpdateRunes(line, pos)
	// The runes readline passed in may hold a typed character; it is about
	// to replace them with the display, so clear them here.
	for i := range line {
		line[i] = 0
	}
	return display, caret, true
}

// Prompt reads one secret into field using readline's password mode and
// returns it under a fresh mask. The field is reset first and left reset on
// error. mask is the rune echoed per position; zero keeps readline's default.
func Prompt(rl *readline.Instance, prompt string, field *secfield.Field, mask rune) (*crypto.MaskedValue, error) {
	field.Reset()

	cfg := rl.GenPasswordConfig()
	cfg.Prompt = prompt
	cfg.Listener = NewListener(field)
	if mask != 0 {
		cfg.MaskRune = mask
	}

	line, err := rl.ReadPasswordWithConfig(cfg)
	crypto.ZeroBytes(line)
	if err != nil {
		field.Reset()
		if errors.Is(err, readline.ErrInterrupt) {
			return nil, ErrInterrupted
		}
		return nil, fmt.Errorf("failed to read secret: %w", err)
	}

	secret, err := field.Extract()
	field.Reset()
	if err != nil {
		return nil, fmt.Errorf("failed to extract secret: %w", err)
	}
	return secret, nil
}
