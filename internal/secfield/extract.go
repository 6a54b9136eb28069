// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package secfield

import (
	"crypto/rand"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/aplane-algo/secfield/internal/crypto"
)

// Extract decodes the secret as UTF-8 and returns it under a fresh output
// mask drawn from rng (crypto/rand when nil). The state is not modified.
func Extract(s State, rng io.Reader) (*crypto.MaskedValue, error) {
	s.checkInvariants()
	if rng == nil {
		rng = rand.Reader
	}

	size := 0
	for i := range s.display {
		size += encodedLen(s.trueRune(i))
	}

	outMask := make([]byte, size)
	if _, err := io.ReadFull(rng, outMask); err != nil {
		return nil, fmt.Errorf("failed to draw output mask: %w", err)
	}

	cipher := make([]byte, size)
	var buf [utf8.UTFMax]byte
	off := 0
	for i := range s.display {
		n := utf8.EncodeRune(buf[:], s.trueRune(i))
		for j := 0; j < n; j++ {
			cipher[off] = buf[j] ^ outMask[off]
			off++
		}
	}
	crypto.ZeroBytes(buf[:])

	return crypto.NewMaskedValue(cipher, outMask)
}

func (s State) trueRune(i int) rune {
	return rune(s.mask[i] ^ uint32(s.display[i]))
}

// encodedLen matches utf8.EncodeRune, which writes RuneError for invalid runes.
func encodedLen(r rune) int {
	if n := utf8.RuneLen(r); n > 0 {
		return n
	}
	return utf8.RuneLen(utf8.RuneError)
}
