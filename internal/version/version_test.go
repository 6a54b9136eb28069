// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package version

import (
	"strings"
	"testing"
)

func TestHandleFlag(t *testing.T) {
	code := -1
	HandleFlag("secfield", []string{"-d", "/tmp", "--version"}, func(c int) { code = c })
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}

	code = -1
	HandleFlag("secfield", []string{"-d", "/tmp"}, func(c int) { code = c })
	if code != -1 {
		t.Error("exit called without --version")
	}
}

func TestString(t *testing.T) {
	if s := String(); !strings.HasPrefix(s, Version+" (commit: ") {
		t.Errorf("String() = %q", s)
	}
}
