// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package crypto

import (
	"bytes"
	"errors"
	"testing"
)

// testKDFParams keeps Argon2id cheap in tests.
var testKDFParams = KDFParams{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: 32}

func maskString(t *testing.T, s string, seed byte) *MaskedValue {
	t.Helper()
	mv, err := MaskBytes([]byte(s), bytes.NewReader(bytes.Repeat([]byte{seed}, len(s))))
	if err != nil {
		t.Fatalf("MaskBytes failed: %v", err)
	}
	return mv
}

// TestIsEncrypted verifies detection of encrypted vs plaintext data
func TestIsEncrypted(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected bool
	}{
		{"encrypted data", []byte(`{"envelope_version":1,"salt":"abc","nonce":"def","ciphertext":"ghi"}`), true},
		{"plaintext", []byte("This is plaintext"), false},
		{"empty data", []byte(""), false},
		{"invalid JSON", []byte("{invalid json"), false},
		{"JSON with version 0", []byte(`{"envelope_version":0,"salt":"abc"}`), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEncrypted(tt.data); got != tt.expected {
				t.Errorf("IsEncrypted(%q) = %v, expected %v", tt.data, got, tt.expected)
			}
		})
	}
}

func TestKDFParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  KDFParams
		wantErr bool
	}{
		{"defaults", DefaultKDFParams(), false},
		{"test params", testKDFParams, false},
		{"zero time", KDFParams{Time: 0, MemoryKiB: 64, Threads: 1, KeyLen: 32}, true},
		{"zero threads", KDFParams{Time: 1, MemoryKiB: 64, Threads: 0, KeyLen: 32}, true},
		{"memory too small", KDFParams{Time: 1, MemoryKiB: 8, Threads: 4, KeyLen: 32}, true},
		{"bad key length", KDFParams{Time: 1, MemoryKiB: 64, Threads: 1, KeyLen: 20}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestDeriveKey_MaskIndependent verifies the key depends on the secret, not on its mask
func TestDeriveKey_MaskIndependent(t *testing.T) {
	salt := bytes.Repeat([]byte{0x11}, SaltLen)

	a := maskString(t, "correct horse", 0x01)
	b := maskString(t, "correct horse", 0x7F)
	c := maskString(t, "battery staple", 0x01)
	defer a.Destroy()
	defer b.Destroy()
	defer c.Destroy()

	ka, err := DeriveKey(a, salt, testKDFParams)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	kb, _ := DeriveKey(b, salt, testKDFParams)
	kc, _ := DeriveKey(c, salt, testKDFParams)

	if len(ka) != 32 {
		t.Errorf("key length = %d, want 32", len(ka))
	}
	if !bytes.Equal(ka, kb) {
		t.Error("same secret under different masks should derive the same key")
	}
	if bytes.Equal(ka, kc) {
		t.Error("different secrets should derive different keys")
	}
	if Fingerprint(ka) != Fingerprint(kb) || len(Fingerprint(ka)) != 16 {
		t.Errorf("unexpected fingerprint %q", Fingerprint(ka))
	}
}

func TestDeriveKey_Empty(t *testing.T) {
	empty, _ := NewMaskedValue(nil, nil)
	if _, err := DeriveKey(empty, nil, testKDFParams); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("expected ErrEmptySecret, got %v", err)
	}
	if _, err := DeriveKey(nil, nil, testKDFParams); !errors.Is(err, ErrEmptySecret) {
		t.Errorf("expected ErrEmptySecret for nil, got %v", err)
	}
}

func TestNewSalt(t *testing.T) {
	salt, err := NewSalt(bytes.NewReader(bytes.Repeat([]byte{9}, SaltLen)))
	if err != nil {
		t.Fatalf("NewSalt failed: %v", err)
	}
	if len(salt) != SaltLen {
		t.Errorf("salt length = %d", len(salt))
	}
	if _, err := NewSalt(bytes.NewReader(nil)); err == nil {
		t.Error("expected error from empty reader")
	}
}

// TestSealOpen_RoundTrip encrypts with a derived key and decrypts after re-deriving it
func TestSealOpen_RoundTrip(t *testing.T) {
	secret := maskString(t, "passphrase", 0x33)
	defer secret.Destroy()

	salt, _ := NewSalt(nil)
	key, err := DeriveKey(secret, salt, testKDFParams)
	if err != nil {
		t.Fatalf("DeriveKey failed: %v", err)
	}
	defer ZeroBytes(key)

	envelope, err := Seal([]byte("payload"), key, salt)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if !IsEncrypted(envelope) {
		t.Fatal("Seal output not recognized as encrypted")
	}

	gotSalt, err := ReadSalt(envelope)
	if err != nil {
		t.Fatalf("ReadSalt failed: %v", err)
	}
	key2, _ := DeriveKey(secret, gotSalt, testKDFParams)
	plain, err := Open(envelope, key2)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if string(plain) != "payload" {
		t.Errorf("Open = %q, want %q", plain, "payload")
	}
}

func TestOpen_WrongKey(t *testing.T) {
	key := bytes.Repeat([]byte{1}, 32)
	wrong := bytes.Repeat([]byte{2}, 32)
	envelope, err := Seal([]byte("payload"), key, nil)
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if _, err := Open(envelope, wrong); err == nil {
		t.Error("Open with wrong key should fail")
	}
	if _, err := Open([]byte(`{"envelope_version":2}`), key); err == nil {
		t.Error("Open should reject unknown envelope versions")
	}
}
