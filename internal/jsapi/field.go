// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package jsapi

import (
	"encoding/hex"
	"fmt"

	"github.com/aplane-algo/secfield/internal/crypto"
	"github.com/aplane-algo/secfield/internal/secfield"
)

// jsField is the object returned by createSecureField. Its exported methods
// are visible to scripts with a lower-cased first letter.
type jsField struct {
	api   *API
	field *secfield.Field
}

// ReconcileResult is what reconcile returns to the script.
type ReconcileResult struct {
	Text  string `json:"text"`
	Caret int    `json:"caret"`
}

// Reconcile takes the surface text after an edit and the caret as a UTF-16
// offset, the way JS strings count, and returns the text and caret the
// script must put back.
//
// Astral placeholders are surrogate pairs in JS. An edit that removes only
// one unit of a pair hands Go a lone surrogate, which arrives as U+FFFD;
// such halves are dropped so the whole placeholder counts as deleted.
func (f *jsField) Reconcile(text string, caret int) ReconcileResult {
	raw := []rune(text)
	pos := utf16ToRuneOffset(raw, caret)
	if f.field.PlaceholderBase() > 0xFFFF {
		raw, pos = dropReplacementRunes(raw, pos)
	}
	display, caretOut := f.field.UpdateRunes(raw, pos)
	for i := range raw {
		raw[i] = 0
	}
	return ReconcileResult{
		Text:  string(display),
		Caret: runeToUTF16Offset(display, caretOut),
	}
}

// Extract returns an opaque handle on the secret.
func (f *jsField) Extract() (*jsSecret, error) {
	value, err := f.field.Extract()
	if err != nil {
		return nil, err
	}
	s := &jsSecret{api: f.api, value: value}
	f.api.trackSecret(s)
	return s, nil
}

// Length returns the number of secret characters.
func (f *jsField) Length() int { return f.field.Len() }

// MaxLength returns the field's capacity.
func (f *jsField) MaxLength() int { return f.field.MaxLength() }

// Reset clears the field.
func (f *jsField) Reset() { f.field.Reset() }

// Destroy clears the field and makes further use fail.
func (f *jsField) Destroy() { f.field.Destroy() }

// jsSecret wraps an extracted secret. Scripts can compare, measure and
// derive from it but cannot read it.
type jsSecret struct {
	api   *API
	value *crypto.MaskedValue
}

// Length returns the UTF-8 byte length of the secret.
func (s *jsSecret) Length() int { return s.value.Len() }

// Equals reports whether both handles hold the same secret.
func (s *jsSecret) Equals(other *jsSecret) bool {
	if other == nil {
		return s.value.IsEmpty()
	}
	return s.value.Equal(other.value)
}

// Fingerprint derives a key from the secret with the configured KDF and
// the hex-encoded salt, and returns the key's fingerprint.
func (s *jsSecret) Fingerprint(saltHex string) (string, error) {
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return "", fmt.Errorf("invalid salt: %w", err)
	}
	key, err := crypto.DeriveKey(s.value, salt, s.api.factory.Config().KDF)
	if err != nil {
		return "", err
	}
	defer crypto.ZeroBytes(key)
	return crypto.Fingerprint(key), nil
}

// Destroy wipes the secret.
func (s *jsSecret) Destroy() { s.value.Destroy() }

// String keeps the secret out of print().
func (s *jsSecret) String() string { return s.value.String() }
