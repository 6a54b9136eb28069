// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package crypto

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sync"

	"github.com/awnumar/memguard"
)

// ErrMaskLength is returned when a cipher/mask pair has mismatched lengths.
var ErrMaskLength = errors.New("cipher and mask lengths differ")

// ZeroBytes securely overwrites a byte slice with zeros
// Uses constant-time operation to prevent compiler optimization
func ZeroBytes(b []byte) {
	if len(b) == 0 {
		return
	}
	subtle.ConstantTimeCopy(1, b, make([]byte, len(b)))
	runtime.KeepAlive(b)
}

// ZeroWords overwrites a slice of mask words with zeros.
func ZeroWords(w []uint32) {
	if len(w) == 0 {
		return
	}
	for i := range w {
		w[i] = 0
	}
	runtime.KeepAlive(w)
}

// MaskedValue holds a secret as a (cipher, mask) pair such that
// plaintext[i] = cipher[i] XOR mask[i]. Neither half alone reveals the secret.
// The plaintext is only ever recombined inside a memguard locked buffer.
type MaskedValue struct {
	cipher []byte
	mask   []byte
	lock   sync.RWMutex
}

// NewMaskedValue takes ownership of cipher and mask.
// The caller must not retain or modify either slice afterwards.
func NewMaskedValue(cipher, mask []byte) (*MaskedValue, error) {
	if len(cipher) != len(mask) {
		return nil, fmt.Errorf("%w: %d != %d", ErrMaskLength, len(cipher), len(mask))
	}
	return &MaskedValue{cipher: cipher, mask: mask}, nil
}

// MaskBytes masks plaintext under a fresh pad read from rng and wipes plaintext.
// A nil rng uses crypto/rand.
func MaskBytes(plaintext []byte, rng io.Reader) (*MaskedValue, error) {
	if rng == nil {
		rng = rand.Reader
	}
	mask := make([]byte, len(plaintext))
	if _, err := io.ReadFull(rng, mask); err != nil {
		return nil, fmt.Errorf("failed to draw mask: %w", err)
	}
	cipher := make([]byte, len(plaintext))
	for i := range plaintext {
		cipher[i] = plaintext[i] ^ mask[i]
	}
	memguard.WipeBytes(plaintext)
	return &MaskedValue{cipher: cipher, mask: mask}, nil
}

// Parts returns copies of the cipher and mask halves.
func (m *MaskedValue) Parts() (cipher, mask []byte) {
	m.lock.RLock()
	defer m.lock.RUnlock()
	cipher = append([]byte(nil), m.cipher...)
	mask = append([]byte(nil), m.mask...)
	return cipher, mask
}

// WithPlaintext recombines the secret into a locked buffer, passes it to fn
// and destroys the buffer when fn returns. An empty or destroyed value
// passes nil.
//
// IMPORTANT: fn must NOT store or leak the byte slice. It is only valid during
// the callback.
func (m *MaskedValue) WithPlaintext(fn func([]byte) error) error {
	buf := m.recombine()
	if buf == nil {
		return fn(nil)
	}
	defer buf.Destroy()
	return fn(buf.Bytes())
}

// recombine writes the plaintext into a new locked buffer, or returns nil
// when the value is empty. The read lock is held only while copying, so
// callers never hold two values' locks at once.
func (m *MaskedValue) recombine() *memguard.LockedBuffer {
	m.lock.RLock()
	defer m.lock.RUnlock()
	if len(m.cipher) == 0 {
		return nil
	}
	buf := memguard.NewBuffer(len(m.cipher))
	plain := buf.Bytes()
	for i := range m.cipher {
		plain[i] = m.cipher[i] ^ m.mask[i]
	}
	return buf
}

// Equal reports whether both values recombine to the same secret.
// Comparison is constant-time with respect to content.
func (m *MaskedValue) Equal(other *MaskedValue) bool {
	if other == nil {
		return m.IsEmpty()
	}
	if other == m {
		return true
	}
	if m.Len() != other.Len() {
		return false
	}

	a := m.recombine()
	if a == nil {
		return other.IsEmpty()
	}
	defer a.Destroy()
	b := other.recombine()
	if b == nil {
		return false
	}
	defer b.Destroy()
	return subtle.ConstantTimeCompare(a.Bytes(), b.Bytes()) == 1
}

// Len returns the secret length in bytes.
func (m *MaskedValue) Len() int {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return len(m.cipher)
}

// IsEmpty returns true if the value holds no bytes or was destroyed
func (m *MaskedValue) IsEmpty() bool {
	return m.Len() == 0
}

// Destroy zeros both halves.
// After calling Destroy, the MaskedValue should not be used
func (m *MaskedValue) Destroy() {
	m.lock.Lock()
	defer m.lock.Unlock()
	memguard.WipeBytes(m.cipher)
	memguard.WipeBytes(m.mask)
	m.cipher = nil
	m.mask = nil
}

// String never includes content.
func (m *MaskedValue) String() string {
	return fmt.Sprintf("MaskedValue(len=%d)", m.Len())
}

// LogValue implements slog.LogValuer.
func (m *MaskedValue) LogValue() slog.Value {
	return slog.GroupValue(slog.Int("len", m.Len()))
}
