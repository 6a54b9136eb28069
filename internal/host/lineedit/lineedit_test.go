// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package lineedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aplane-algo/secfield/internal/secfield"
)

// runeBuffer mimics readline's RuneBuffer: it edits in place, then lets the
// listener replace the whole line.
type runeBuffer struct {
	buf      []rune
	idx      int
	listener *Listener
}

func (b *runeBuffer) notify(key rune) {
	line, pos, ok := b.listener.OnChange(b.buf, b.idx, key)
	if ok {
		b.buf, b.idx = line, pos
	}
}

func (b *runeBuffer) write(s string) {
	for _, r := range s {
		buf := make([]rune, 0, len(b.buf)+1)
		buf = append(buf, b.buf[:b.idx]...)
		buf = append(buf, r)
		buf = append(buf, b.buf[b.idx:]...)
		b.buf = buf
		b.idx++
		b.notify(r)
	}
}

func (b *runeBuffer) backspace() {
	if b.idx == 0 {
		return
	}
	b.buf = append(b.buf[:b.idx-1], b.buf[b.idx:]...)
	b.idx--
	b.notify(127)
}

func (b *runeBuffer) left() {
	if b.idx > 0 {
		b.idx--
	}
	b.notify(2)
}

func (b *runeBuffer) killLine() {
	b.buf = b.buf[:0]
	b.idx = 0
	b.notify(21)
}

func newBuffer(t *testing.T, opts ...secfield.Option) (*runeBuffer, *secfield.Field) {
	t.Helper()
	field, err := secfield.New(opts...)
	require.NoError(t, err)
	t.Cleanup(field.Destroy)
	return &runeBuffer{listener: NewListener(field)}, field
}

func extract(t *testing.T, field *secfield.Field) string {
	t.Helper()
	secret, err := field.Extract()
	require.NoError(t, err)
	defer secret.Destroy()
	var out string
	require.NoError(t, secret.WithPlaintext(func(p []byte) error {
		out = string(p)
		return nil
	}))
	return out
}

func TestListener_InitialCallIsIgnored(t *testing.T) {
	b, field := newBuffer(t)
	line, pos, ok := b.listener.OnChange(nil, 0, 0)
	assert.False(t, ok)
	assert.Nil(t, line)
	assert.Zero(t, pos)
	assert.Zero(t, field.Len())
}

func TestListener_TypingNeverLeavesSecretInBuffer(t *testing.T) {
	b, field := newBuffer(t)
	b.write("hunter2")

	assert.Equal(t, "hunter2", extract(t, field))
	assert.Equal(t, 7, b.idx)
	require.Len(t, b.buf, 7)
	for i, r := range b.buf {
		assert.True(t, r >= secfield.DefaultRangeStart && r < secfield.DefaultRangeEnd,
			"position %d holds %q, want a placeholder", i, r)
	}
	assert.Equal(t, field.Display(), string(b.buf))
}

func TestListener_EditsInTheMiddle(t *testing.T) {
	b, field := newBuffer(t)
	b.write("abd")
	b.left()
	b.write("c")
	assert.Equal(t, "abcd", extract(t, field))
	assert.Equal(t, 3, b.idx)

	b.backspace()
	b.backspace()
	assert.Equal(t, "ad", extract(t, field))
	assert.Equal(t, 1, b.idx)

	b.killLine()
	assert.Empty(t, extract(t, field))
	assert.Empty(t, b.buf)
}

func TestListener_NonASCII(t *testing.T) {
	b, field := newBuffer(t)
	b.write("pä😀ss")
	assert.Equal(t, "pä😀ss", extract(t, field))
	assert.Len(t, b.buf, 5)
}

func TestListener_CapacityDropsExtraInput(t *testing.T) {
	b, field := newBuffer(t, secfield.WithMaxLength(3))
	b.write("abcdef")
	assert.Equal(t, "abc", extract(t, field))
	assert.Len(t, b.buf, 3)
	assert.Equal(t, 3, b.idx)
}

func TestListener_ClearsIncomingLine(t *testing.T) {
	b, _ := newBuffer(t)
	line := []rune{'x'}
	out, pos, ok := b.listener.OnChange(line, 1, 'x')
	require.True(t, ok)
	assert.Equal(t, 1, pos)
	assert.Equal(t, rune(0), line[0])
	assert.NotEqual(t, 'x', out[0])
}
