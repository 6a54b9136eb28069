// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package secfield

import (
	"bytes"
	"testing"

	"github.com/aplane-algo/secfield/internal/crypto"
)

// seqReader is a deterministic random source yielding 0, 1, 2, ...
type seqReader struct{ next byte }

func (r *seqReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = r.next
		r.next++
	}
	return len(p), nil
}

// zeroBase makes drawBase return the start of the range.
func zeroBase() Option {
	return WithRandom(bytes.NewReader(make([]byte, 4)))
}

func newTestState(t *testing.T, opts ...Option) State {
	t.Helper()
	s, err := NewState(append([]Option{zeroBase()}, opts...)...)
	if err != nil {
		t.Fatalf("NewState failed: %v", err)
	}
	return s
}

// editor mirrors every edit on a plaintext reference buffer so tests can
// compare Extract against it.
type editor struct {
	t     *testing.T
	state State
	plain []rune
}

func newEditor(t *testing.T, opts ...Option) *editor {
	return &editor{t: t, state: newTestState(t, opts...)}
}

// replace simulates the surface control replacing runes [from, to) with text
// and leaving the caret after the inserted text.
func (e *editor) replace(from, to int, text string) int {
	e.t.Helper()
	ins := []rune(text)
	surface := []rune(e.state.Display())
	raw := make([]rune, 0, len(surface)+len(ins))
	raw = append(raw, surface[:from]...)
	raw = append(raw, ins...)
	raw = append(raw, surface[to:]...)

	caret := from + len(ins)
	next, corrected, caretOut := Reconcile(e.state, string(raw), caret)
	if corrected != next.Display() {
		e.t.Fatalf("corrected text differs from display")
	}
	e.state.Wipe()
	e.state = next

	plain := make([]rune, 0, len(e.plain)+len(ins))
	plain = append(plain, e.plain[:from]...)
	plain = append(plain, ins...)
	plain = append(plain, e.plain[to:]...)
	e.plain = plain
	return caretOut
}

func (e *editor) typeText(text string) {
	for _, r := range text {
		n := e.state.Len()
		e.replace(n, n, string(r))
	}
}

func (e *editor) secret() string {
	e.t.Helper()
	return extractString(e.t, e.state)
}

func extractString(t *testing.T, s State) string {
	t.Helper()
	mv, err := Extract(s, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	defer mv.Destroy()
	return recombine(t, mv)
}

func recombine(t *testing.T, mv *crypto.MaskedValue) string {
	t.Helper()
	var out string
	if err := mv.WithPlaintext(func(p []byte) error {
		out = string(p)
		return nil
	}); err != nil {
		t.Fatalf("WithPlaintext failed: %v", err)
	}
	return out
}

func assertInvariants(t *testing.T, s State) {
	t.Helper()
	if len(s.display) != len(s.mask) {
		t.Fatalf("display length %d != mask length %d", len(s.display), len(s.mask))
	}
	for i, ch := range s.display {
		if ch != s.base+rune(i) {
			t.Fatalf("display[%d] = %#x, want %#x", i, ch, s.base+rune(i))
		}
		if !s.IsPlaceholder(ch) {
			t.Fatalf("display[%d] = %#x outside placeholder range", i, ch)
		}
	}
}

func placeholders(base rune, n int) string {
	r := make([]rune, n)
	for i := range r {
		r[i] = base + rune(i)
	}
	return string(r)
}
