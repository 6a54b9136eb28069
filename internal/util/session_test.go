// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aplane-algo/secfield/internal/crypto"
)

func TestStartSession(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "max_length: 12\nkdf:\n  time: 1\n  memory_kib: 64\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s, err := StartSession(ctx, dir)
	if err != nil {
		t.Fatalf("StartSession failed: %v", err)
	}
	if s.ConfigPath != filepath.Join(dir, ConfigFileName) {
		t.Errorf("ConfigPath = %q", s.ConfigPath)
	}
	if s.Factory.Config().MaxLength != 12 {
		t.Errorf("MaxLength = %d", s.Factory.Config().MaxLength)
	}

	secret, err := crypto.MaskBytes([]byte("pw"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer secret.Destroy()

	salt := make([]byte, 16)
	fp1, err := s.DeriveFingerprint(secret, salt)
	if err != nil {
		t.Fatalf("DeriveFingerprint failed: %v", err)
	}
	fp2, _ := s.DeriveFingerprint(secret, salt)
	if fp1 != fp2 || len(fp1) != 16 {
		t.Errorf("fingerprints %q %q", fp1, fp2)
	}
}

func TestStartSession_InvalidConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "max_length: 0\n")
	if _, err := StartSession(context.Background(), dir); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestResolveSalt(t *testing.T) {
	salt, generated, err := ResolveSalt("")
	if err != nil || !generated || len(salt) != crypto.SaltLen {
		t.Errorf("generated salt: len=%d generated=%v err=%v", len(salt), generated, err)
	}

	salt, generated, err = ResolveSalt("00112233445566778899aabbccddeeff")
	if err != nil || generated || len(salt) != 16 {
		t.Errorf("explicit salt: len=%d generated=%v err=%v", len(salt), generated, err)
	}

	for _, bad := range []string{"xyz", "0011"} {
		if _, _, err := ResolveSalt(bad); err == nil || !strings.Contains(err.Error(), "invalid salt") {
			t.Errorf("ResolveSalt(%q) err = %v", bad, err)
		}
	}
}
