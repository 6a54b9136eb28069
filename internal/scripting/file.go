// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package scripting

import (
	"context"
	"fmt"
	"os"
)

// RunFile loads the script at path and runs it, interrupting it when ctx is
// done. If the context ended the script, the context error is returned.
func RunFile(ctx context.Context, r Runner, path string) (Result, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read script: %w", err)
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			r.Interrupt()
		case <-done:
		}
	}()

	result, err := r.Run(string(code))
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{}, fmt.Errorf("script stopped: %w", ctxErr)
		}
		return Result{}, err
	}
	return result, nil
}
