// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package util

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"
)

func TestWatchConfig_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "max_length: 32\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 4)
	errs := make(chan error, 4)
	if err := WatchConfig(ctx, path, func(c Config) { changes <- c }, func(err error) { errs <- err }); err != nil {
		t.Fatalf("WatchConfig failed: %v", err)
	}

	writeConfig(t, dir, "max_length: 48\n")

	select {
	case cfg := <-changes:
		if cfg.MaxLength != 48 {
			t.Errorf("reloaded MaxLength = %d, want 48", cfg.MaxLength)
		}
	case err := <-errs:
		t.Fatalf("unexpected watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatchConfig_InvalidFileReportsError(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "max_length: 32\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 4)
	errs := make(chan error, 4)
	if err := WatchConfig(ctx, path, func(c Config) { changes <- c }, func(err error) { errs <- err }); err != nil {
		t.Fatalf("WatchConfig failed: %v", err)
	}

	writeConfig(t, dir, "max_length: -1\n")

	select {
	case err := <-errs:
		if !strings.Contains(err.Error(), "max length") {
			t.Errorf("unexpected error: %v", err)
		}
	case cfg := <-changes:
		t.Fatalf("invalid config should not be applied: %+v", cfg)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for error")
	}
}

func TestWatchConfig_RemovedFileKeepsPreviousConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "max_length: 32\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan Config, 4)
	errs := make(chan error, 4)
	if err := WatchConfig(ctx, path, func(c Config) { changes <- c }, func(err error) { errs <- err }); err != nil {
		t.Fatalf("WatchConfig failed: %v", err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-errs:
		if !strings.Contains(err.Error(), "removed") {
			t.Errorf("unexpected error: %v", err)
		}
	case cfg := <-changes:
		t.Fatalf("removal should not apply defaults: %+v", cfg)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for removal report")
	}

	writeConfig(t, dir, "max_length: 40\n")

	select {
	case cfg := <-changes:
		if cfg.MaxLength != 40 {
			t.Errorf("reloaded MaxLength = %d, want 40", cfg.MaxLength)
		}
	case err := <-errs:
		t.Fatalf("unexpected watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for reload after recreate")
	}
}

func TestWatchConfig_Errors(t *testing.T) {
	if err := WatchConfig(context.Background(), "", func(Config) {}, nil); err == nil {
		t.Error("expected error for empty path")
	}
	if err := WatchConfig(context.Background(), "/nonexistent/dir/secfield.yaml", func(Config) {}, nil); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestFieldFactory_ApplyAffectsOnlyNewFields(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	cfg := DefaultConfig()
	cfg.MaxLength = 4
	factory := NewFieldFactory(cfg, logger)

	before, err := factory.NewField()
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}

	cfg.MaxLength = 8
	factory.Apply(cfg)

	after, err := factory.NewField()
	if err != nil {
		t.Fatalf("NewField failed: %v", err)
	}

	if before.MaxLength() != 4 || after.MaxLength() != 8 {
		t.Errorf("MaxLength before=%d after=%d", before.MaxLength(), after.MaxLength())
	}
	if factory.Config().MaxLength != 8 {
		t.Errorf("Config().MaxLength = %d", factory.Config().MaxLength)
	}
	if !strings.Contains(logs.String(), "config reloaded") {
		t.Errorf("expected reload log line, got %q", logs.String())
	}
}
