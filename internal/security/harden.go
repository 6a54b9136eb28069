// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package security

import (
	"log/slog"
	"os"
)

// Harden applies process-level protections before any secret is typed.
// Failures are logged and never fatal: an unprivileged user must still be
// able to enter a secret. Set SECFIELD_NO_MLOCK to skip memory locking.
func Harden(logger *slog.Logger) {
	if err := DisableCoreDumps(); err != nil {
		logger.Warn("core dumps not disabled", "error", err)
	}
	if os.Getenv("SECFIELD_NO_MLOCK") != "" {
		logger.Debug("memory locking disabled by SECFIELD_NO_MLOCK")
		return
	}
	if err := LockMemory(); err != nil {
		logger.Warn("memory not locked", "error", err)
	}
}
