// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/aplane-algo/secfield/internal/crypto"
)

// Session is the shared startup state of the secfield binaries.
type Session struct {
	DataDir    string
	ConfigPath string
	Factory    *FieldFactory
}

// StartSession loads the config from the resolved data directory and, when
// a config path exists, keeps the factory current as the file changes until
// ctx is done. A missing data directory is not an error; defaults apply and
// no watcher runs.
func StartSession(ctx context.Context, dataDirFlag string) (*Session, error) {
	dataDir := GetDataDir(dataDirFlag)
	cfg, err := LoadConfig(dataDir)
	if err != nil {
		return nil, err
	}

	s := &Session{
		DataDir:    dataDir,
		ConfigPath: GetConfigPath(dataDir),
		Factory:    NewFieldFactory(cfg, Logger),
	}

	if s.ConfigPath != "" {
		err := WatchConfig(ctx, s.ConfigPath, s.Factory.Apply, func(err error) {
			Logger.Warn("config reload failed, keeping previous settings", "error", err)
		})
		if err != nil {
			Logger.Debug("config watcher not started", "error", err)
		}
	}
	return s, nil
}

// ResolveSalt decodes a hex salt, or draws a fresh one when saltHex is
// empty. generated reports which happened.
func ResolveSalt(saltHex string) (salt []byte, generated bool, err error) {
	if saltHex == "" {
		salt, err = crypto.NewSalt(nil)
		return salt, true, err
	}
	salt, err = hex.DecodeString(saltHex)
	if err != nil {
		return nil, false, fmt.Errorf("invalid salt: %w", err)
	}
	if len(salt) < 16 {
		return nil, false, fmt.Errorf("invalid salt: need at least 16 bytes, got %d", len(salt))
	}
	return salt, false, nil
}

// DeriveFingerprint derives a key from secret with the session's current
// KDF settings and returns the key's fingerprint.
func (s *Session) DeriveFingerprint(secret *crypto.MaskedValue, salt []byte) (string, error) {
	key, err := crypto.DeriveKey(secret, salt, s.Factory.Config().KDF)
	if err != nil {
		return "", fmt.Errorf("failed to derive key: %w", err)
	}
	defer crypto.ZeroBytes(key)
	return crypto.Fingerprint(key), nil
}
