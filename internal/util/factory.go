// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"log/slog"
	"sync/atomic"

	"github.com/aplane-algo/secfield/internal/secfield"
)

// FieldFactory creates secure fields from the current config.
// Apply can be wired to WatchConfig; fields that already exist keep the
// settings they were created with.
type FieldFactory struct {
	current atomic.Pointer[Config]
	logger  *slog.Logger
}

// NewFieldFactory returns a factory starting from cfg.
func NewFieldFactory(cfg Config, logger *slog.Logger) *FieldFactory {
	if logger == nil {
		logger = Logger
	}
	f := &FieldFactory{logger: logger}
	f.current.Store(&cfg)
	return f
}

// Apply replaces the config used for new fields.
func (f *FieldFactory) Apply(cfg Config) {
	f.current.Store(&cfg)
	f.logger.Info("secure field config reloaded", "max_length", cfg.MaxLength, "range_start", cfg.RangeStart.String())
}

// Config returns the config new fields will use.
func (f *FieldFactory) Config() Config {
	return *f.current.Load()
}

// NewField creates a field; extra options are applied after the config.
func (f *FieldFactory) NewField(extra ...secfield.Option) (*secfield.Field, error) {
	cfg := f.Config()
	opts := append(cfg.FieldOptions(), secfield.WithLogger(f.logger))
	opts = append(opts, extra...)
	return secfield.New(opts...)
}
