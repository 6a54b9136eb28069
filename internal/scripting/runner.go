// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package scripting runs scripts that drive secure fields.
// It abstracts the underlying VM behind a common interface.
package scripting

// ScriptError represents an error that occurred during script execution.
type ScriptError struct {
	Message string
}

func (e *ScriptError) Error() string {
	return e.Message
}

// Result holds the outcome of running a script.
type Result struct {
	// Value is the exported result value (nil if IsEmpty is true)
	Value interface{}
	// IsEmpty is true if the script returned undefined/null/void
	IsEmpty bool
}

// Runner is the low-level VM abstraction for executing scripts.
// It handles code execution within an embedded interpreter.
//
// The runtime persists between calls, so a script can be fed in pieces.
// Loading files and enforcing timeouts are left to the caller; see RunFile.
type Runner interface {
	// Run executes the given code and returns the result.
	// Errors include syntax errors, runtime exceptions, etc.
	Run(code string) (Result, error)

	// SetOutput sets the function used for print() output.
	// Must be called before Run() if custom output handling is needed.
	SetOutput(fn func(string))

	// Interrupt stops the currently running script.
	// Safe to call from another goroutine.
	Interrupt()

	// Close releases everything scripts created.
	Close()
}
