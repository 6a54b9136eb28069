// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package secfield

import (
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/aplane-algo/secfield/internal/crypto"
)

// ErrDestroyed is returned when a destroyed field is used.
var ErrDestroyed = errors.New("secure field has been destroyed")

// Field owns one State and serializes every access to it, so an edit event
// firing while Extract runs cannot expose a half-updated display/mask pair.
type Field struct {
	mu        sync.Mutex
	state     State
	rng       io.Reader
	logger    *slog.Logger
	destroyed bool
}

// New creates an empty field. The placeholder base is drawn here and fixed
// for the lifetime of the field.
func New(opts ...Option) (*Field, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	state, err := newState(o)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("secure field created", "max_length", o.maxLength)
	return &Field{state: state, rng: o.rng, logger: o.logger}, nil
}

// Update reconciles a raw edit. The host must write the returned text back
// into its surface control and move the caret to the returned offset before
// handling the next event.
func (f *Field) Update(surface string, caret int) (string, int) {
	display, caretOut := f.UpdateRunes([]rune(surface), caret)
	return string(display), caretOut
}

// UpdateRunes is Update for hosts that keep their edit buffer as runes.
// It avoids building an intermediate string holding the typed characters.
// The returned slice is a fresh copy owned by the caller.
func (f *Field) UpdateRunes(surface []rune, caret int) ([]rune, int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.destroyed {
		f.logger.Warn("update on destroyed secure field ignored")
		return nil, 0
	}

	next, caretOut, dropped := reconcile(f.state, surface, caret)
	if dropped > 0 {
		f.logger.Debug("secure field at capacity, input dropped", "dropped", dropped, "max_length", next.maxLength)
	}
	f.state.Wipe()
	f.state = next
	return append([]rune(nil), next.display...), caretOut
}

// Extract returns the secret under a fresh output mask.
func (f *Field) Extract() (*crypto.MaskedValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.destroyed {
		return nil, ErrDestroyed
	}
	return Extract(f.state, f.rng)
}

// Len returns the number of secret characters.
func (f *Field) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Len()
}

// Display returns the placeholder text currently shown by the surface.
func (f *Field) Display() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Display()
}

// MaxLength returns the capacity in code points.
func (f *Field) MaxLength() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.MaxLength()
}

// PlaceholderBase returns the first code point of the placeholder range.
// The display text already reveals it.
func (f *Field) PlaceholderBase() rune {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.Base()
}

// Reset clears the secret. The field stays usable.
func (f *Field) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Wipe()
}

// Destroy clears the secret and makes further use fail.
// Calling Destroy more than once is safe.
func (f *Field) Destroy() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Wipe()
	f.destroyed = true
}

// LogValue implements slog.LogValuer.
func (f *Field) LogValue() slog.Value {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.LogValue()
}
