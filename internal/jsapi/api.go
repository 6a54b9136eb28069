// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package jsapi provides JavaScript bindings for secure fields.
//
// A script plays the part of the surface control: it holds the text the
// user sees, edits it, and calls reconcile after every edit. Secrets never
// reach the JS heap; extract returns an opaque handle. Functions are
// organized into files:
//   - api.go: API struct, registration, output
//   - field.go: secure field and secret handle objects
//   - helpers.go: argument parsing and UTF-16 offset conversion
package jsapi

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"

	"github.com/aplane-algo/secfield/internal/secfield"
	"github.com/aplane-algo/secfield/internal/util"
)

// FieldFactory creates secure fields for scripts. util.FieldFactory
// implements it.
type FieldFactory interface {
	NewField(extra ...secfield.Option) (*secfield.Field, error)
	Config() util.Config
}

// API provides JavaScript bindings for secure fields.
type API struct {
	factory FieldFactory
	runtime *goja.Runtime
	verbose bool
	output  func(string)

	mu      sync.Mutex
	fields  []*jsField
	secrets []*jsSecret
}

// NewAPI creates a new JavaScript API instance.
func NewAPI(factory FieldFactory, verbose bool, output func(string)) *API {
	return &API{
		factory: factory,
		verbose: verbose,
		output:  output,
	}
}

// RegisterAll registers all API functions on the given Goja runtime.
func (a *API) RegisterAll(vm *goja.Runtime) error {
	a.runtime = vm

	set := func(name string, fn func(goja.FunctionCall) goja.Value) error {
		return vm.Set(name, fn)
	}

	if err := set("print", a.jsPrint); err != nil {
		return fmt.Errorf("failed to register print: %w", err)
	}
	if err := set("log", a.jsLog); err != nil {
		return fmt.Errorf("failed to register log: %w", err)
	}
	if err := set("setVerbose", a.jsSetVerbose); err != nil {
		return fmt.Errorf("failed to register setVerbose: %w", err)
	}
	if err := set("createSecureField", a.jsCreateSecureField); err != nil {
		return fmt.Errorf("failed to register createSecureField: %w", err)
	}
	if err := set("config", a.jsConfig); err != nil {
		return fmt.Errorf("failed to register config: %w", err)
	}

	return nil
}

// Close destroys every field and secret handed out to scripts.
func (a *API) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, f := range a.fields {
		f.field.Destroy()
	}
	for _, s := range a.secrets {
		s.value.Destroy()
	}
	a.fields = nil
	a.secrets = nil
}

func (a *API) track(f *jsField) {
	a.mu.Lock()
	a.fields = append(a.fields, f)
	a.mu.Unlock()
}

func (a *API) trackSecret(s *jsSecret) {
	a.mu.Lock()
	a.secrets = append(a.secrets, s)
	a.mu.Unlock()
}

// output helper for internal use.
func (a *API) outputMsg(msg string) {
	if a.output != nil {
		a.output(msg)
	} else {
		fmt.Println(msg)
	}
}

// jsPrint outputs a message to the console.
func (a *API) jsPrint(call goja.FunctionCall) goja.Value {
	args := make([]interface{}, len(call.Arguments))
	for i, arg := range call.Arguments {
		args[i] = arg.Export()
	}
	a.outputMsg(fmt.Sprint(args...))
	return goja.Undefined()
}

// jsLog outputs a debug message (only in verbose mode).
func (a *API) jsLog(call goja.FunctionCall) goja.Value {
	if !a.verbose {
		return goja.Undefined()
	}
	args := make([]interface{}, len(call.Arguments))
	for i, arg := range call.Arguments {
		args[i] = arg.Export()
	}
	a.outputMsg("[debug] " + fmt.Sprint(args...))
	return goja.Undefined()
}

// jsSetVerbose enables or disables log() output.
// setVerbose(enabled)
func (a *API) jsSetVerbose(call goja.FunctionCall) goja.Value {
	a.requireArgs(call, 1, "setVerbose() requires a boolean argument")
	a.verbose = call.Arguments[0].ToBoolean()
	return goja.Undefined()
}

// jsConfig returns the settings new fields are created with.
// config() -> { maxLength, rangeStart, rangeEnd, maskRune }
func (a *API) jsConfig(call goja.FunctionCall) goja.Value {
	cfg := a.factory.Config()
	return a.runtime.ToValue(map[string]interface{}{
		"maxLength":  cfg.MaxLength,
		"rangeStart": cfg.RangeStart.String(),
		"rangeEnd":   cfg.RangeEnd.String(),
		"maskRune":   cfg.MaskRune,
	})
}

// jsCreateSecureField creates an empty field.
// createSecureField({ maxLength }) -> field
func (a *API) jsCreateSecureField(call goja.FunctionCall) goja.Value {
	var extra []secfield.Option
	if len(call.Arguments) > 0 && !goja.IsUndefined(call.Arguments[0]) && !goja.IsNull(call.Arguments[0]) {
		opts := call.Arguments[0].ToObject(a.runtime)
		if v := opts.Get("maxLength"); v != nil && !goja.IsUndefined(v) {
			n := toInt(a.runtime, v, "maxLength")
			extra = append(extra, secfield.WithMaxLength(n))
		}
	}

	field, err := a.factory.NewField(extra...)
	if err != nil {
		panic(a.runtime.ToValue(fmt.Sprintf("createSecureField() error: %v", err)))
	}

	f := &jsField{api: a, field: field}
	a.track(f)
	return a.runtime.ToValue(f)
}
