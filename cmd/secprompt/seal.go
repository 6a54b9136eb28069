// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"fmt"
	"os"

	"github.com/aplane-algo/secfield/internal/crypto"
	"github.com/aplane-algo/secfield/internal/fsutil"
	"github.com/aplane-algo/secfield/internal/util"
)

// sealFile encrypts opts.sealPath under a key derived with a fresh salt.
// The salt travels inside the envelope.
func sealFile(session *util.Session, secret *crypto.MaskedValue, opts options) error {
	plaintext, err := os.ReadFile(opts.sealPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.sealPath, err)
	}
	defer crypto.ZeroBytes(plaintext)

	salt, err := crypto.NewSalt(nil)
	if err != nil {
		return err
	}
	key, err := crypto.DeriveKey(secret, salt, session.Factory.Config().KDF)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}
	defer crypto.ZeroBytes(key)

	sealed, err := crypto.Seal(plaintext, key, salt)
	if err != nil {
		return err
	}

	out := opts.outPath
	if out == "" {
		out = opts.sealPath + ".sealed"
	}
	if err := fsutil.WriteFile(out, sealed); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	fp := crypto.Fingerprint(key)
	util.Logger.Info("file sealed", "path", out, "fingerprint", fp)
	return nil
}

// openFile decrypts opts.openPath and writes the plaintext to opts.outPath
// or stdout.
func openFile(session *util.Session, secret *crypto.MaskedValue, opts options) error {
	data, err := os.ReadFile(opts.openPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", opts.openPath, err)
	}
	if !crypto.IsEncrypted(data) {
		return fmt.Errorf("%s is not a sealed file", opts.openPath)
	}

	salt, err := crypto.ReadSalt(data)
	if err != nil {
		return err
	}
	key, err := crypto.DeriveKey(secret, salt, session.Factory.Config().KDF)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}
	defer crypto.ZeroBytes(key)

	plaintext, err := crypto.Open(data, key)
	if err != nil {
		return err
	}
	defer crypto.ZeroBytes(plaintext)

	if opts.outPath == "" {
		_, err = os.Stdout.Write(plaintext)
		return err
	}
	return fsutil.WriteFile(opts.outPath, plaintext)
}
