// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

//go:build !linux

package security

import "errors"

var errUnsupported = errors.New("not supported on this platform")

// LockMemory is only implemented on Linux.
func LockMemory() error { return errUnsupported }

// DisableCoreDumps is only implemented on Linux.
func DisableCoreDumps() error { return errUnsupported }
