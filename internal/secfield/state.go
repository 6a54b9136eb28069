// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package secfield implements the core of an obfuscated secret input field.
//
// The surface control of the field only ever shows placeholder code points
// from a per-instance range. The true character at each position is kept as
// mask[i] XOR display[i], so the secret never exists as a contiguous
// plaintext buffer. Hosts forward every raw edit to Reconcile (or
// Field.Update), write the returned text back into the control, and call
// Extract when the real value is needed.
//
// Characters that the user types from inside the placeholder range cannot be
// told apart from carried-over placeholders and are treated as deleted
// positions.
package secfield

import (
	"fmt"
	"log/slog"

	"github.com/aplane-algo/secfield/internal/crypto"
)

// State is the obfuscated content of one field.
// display[i] is always base+i, so it reveals only the secret's length.
type State struct {
	display   []rune
	mask      []uint32
	base      rune
	maxLength int
}

// NewState creates an empty state with a freshly drawn placeholder base.
func NewState(opts ...Option) (State, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newState(o)
}

func newState(o options) (State, error) {
	if err := ValidateRange(o.rangeStart, o.rangeEnd, o.maxLength); err != nil {
		return State{}, err
	}
	base, err := drawBase(o.rng, o.rangeStart, o.rangeEnd, o.maxLength)
	if err != nil {
		return State{}, err
	}
	return State{base: base, maxLength: o.maxLength}, nil
}

// Len returns the number of secret characters.
func (s State) Len() int { return len(s.display) }

// Base returns the first code point of the placeholder range.
func (s State) Base() rune { return s.base }

// MaxLength returns the capacity in code points.
func (s State) MaxLength() int { return s.maxLength }

// Display returns the text the surface control is allowed to show.
func (s State) Display() string { return string(s.display) }

// IsPlaceholder reports whether ch belongs to this state's placeholder range.
func (s State) IsPlaceholder(ch rune) bool {
	return ch >= s.base && ch < s.base+rune(s.maxLength)
}

func (s State) placeholder(i int) rune { return s.base + rune(i) }

// push appends the next sequential placeholder carrying the true character
// whose code point is trueCh.
func (s *State) push(trueCh uint32) {
	p := s.placeholder(len(s.display))
	s.display = append(s.display, p)
	s.mask = append(s.mask, trueCh^uint32(p))
}

// checkInvariants panics when the state was corrupted. Continuing with a
// mismatched display/mask pair would decode garbage or leak mask words.
func (s State) checkInvariants() {
	if s.maxLength <= 0 {
		panic("secfield: invariant violated: state was not created with NewState")
	}
	if len(s.display) != len(s.mask) {
		panic(fmt.Sprintf("secfield: invariant violated: display length %d != mask length %d", len(s.display), len(s.mask)))
	}
	if len(s.display) > s.maxLength {
		panic(fmt.Sprintf("secfield: invariant violated: length %d exceeds capacity %d", len(s.display), s.maxLength))
	}
	for i, ch := range s.display {
		if ch != s.placeholder(i) {
			panic(fmt.Sprintf("secfield: invariant violated: display[%d] out of sequence", i))
		}
	}
}

// Wipe zeroes the mask and empties the state. The placeholder base and
// capacity are kept so the state can be reused.
func (s *State) Wipe() {
	crypto.ZeroWords(s.mask[:cap(s.mask)])
	s.mask = nil
	s.display = nil
}

// String never includes secret-derived data.
func (s State) String() string {
	return fmt.Sprintf("secfield.State(len=%d, max=%d)", len(s.display), s.maxLength)
}

// LogValue implements slog.LogValuer.
func (s State) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("len", len(s.display)),
		slog.Int("max", s.maxLength),
	)
}
