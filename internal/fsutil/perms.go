// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package fsutil provides filesystem helpers for files that may hold
// secret-derived data: sealed envelopes, decrypted output and logs.
// They are created owner-only and the mode is re-applied after opening,
// so a pre-existing file with looser permissions is tightened too.
package fsutil

import (
	"fmt"
	"os"
)

// PrivateFilePerm is the permission mode for files written by the binaries.
const PrivateFilePerm os.FileMode = 0600

// WriteFile writes data to a file with owner-only permissions.
// Unlike os.WriteFile, this explicitly sets permissions after writing
// so an existing file is tightened as well.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, PrivateFilePerm); err != nil {
		return err
	}
	return os.Chmod(path, PrivateFilePerm)
}

// CreateFile opens a file for writing with owner-only permissions.
// Returns the opened file. Caller is responsible for closing it.
func CreateFile(path string, flag int) (*os.File, error) {
	f, err := os.OpenFile(path, flag, PrivateFilePerm)
	if err != nil {
		return nil, err
	}
	if err := f.Chmod(PrivateFilePerm); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return f, nil
}
