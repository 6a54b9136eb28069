// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package scripting

import (
	"errors"

	"github.com/dop251/goja"

	"github.com/aplane-algo/secfield/internal/jsapi"
)

// GojaRunner implements Runner using the Goja JavaScript interpreter.
type GojaRunner struct {
	vm     *goja.Runtime
	api    *jsapi.API
	output func(string)
}

// NewGojaRunner creates a new Goja-based script runner whose
// createSecureField() draws fields from factory.
func NewGojaRunner(factory jsapi.FieldFactory) *GojaRunner {
	r := &GojaRunner{
		output: func(s string) {}, // Default: discard output
	}

	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	// Create API with output wrapper (so SetOutput works after creation)
	api := jsapi.NewAPI(factory, false, func(msg string) {
		r.output(msg)
	})
	if err := api.RegisterAll(vm); err != nil {
		// Registration errors are programming bugs, not runtime errors
		panic("failed to register JS API: " + err.Error())
	}

	r.vm = vm
	r.api = api

	return r
}

// Run executes JavaScript code and returns the result.
func (r *GojaRunner) Run(code string) (Result, error) {
	result, err := r.vm.RunString(code)
	if err != nil {
		var jsErr *goja.Exception
		if errors.As(err, &jsErr) {
			// String() keeps the message and position; Export() would give map[] for Error objects
			return Result{}, &ScriptError{Message: jsErr.String()}
		}
		var intErr *goja.InterruptedError
		if errors.As(err, &intErr) {
			return Result{}, &ScriptError{Message: intErr.String()}
		}
		return Result{}, err
	}

	if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return Result{IsEmpty: true}, nil
	}

	return Result{Value: result.Export()}, nil
}

// SetOutput sets the function used for print() and log() output.
func (r *GojaRunner) SetOutput(fn func(string)) {
	if fn == nil {
		r.output = func(s string) {}
	} else {
		r.output = fn
	}
}

// Interrupt stops the currently running script.
// Safe to call from another goroutine (e.g., for timeout enforcement).
func (r *GojaRunner) Interrupt() {
	r.vm.Interrupt("script interrupted")
}

// Close destroys every field and secret the scripts created.
func (r *GojaRunner) Close() {
	r.api.Close()
}

// Runtime returns the underlying Goja runtime.
// Use sparingly - prefer the Runner interface for portability.
func (r *GojaRunner) Runtime() *goja.Runtime {
	return r.vm
}

// Compile-time interface check
var _ Runner = (*GojaRunner)(nil)
