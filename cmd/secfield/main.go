// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// secfield reads a secret in a full-screen terminal form and prints the
// fingerprint of the key derived from it. The secret itself is never
// printed or stored.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/aplane-algo/secfield/cmd/secfield/internal/tui"
	"github.com/aplane-algo/secfield/internal/crypto"
	"github.com/aplane-algo/secfield/internal/fsutil"
	"github.com/aplane-algo/secfield/internal/security"
	"github.com/aplane-algo/secfield/internal/util"
	"github.com/aplane-algo/secfield/internal/version"
)

func main() {
	// Handle early-exit flags before any other processing
	version.HandleFlag("secfield", os.Args[1:], os.Exit)
	os.Exit(run())
}

// run returns the exit code so deferred cleanup runs before os.Exit.
func run() int {
	dataDir := flag.String("d", "", "Data directory (or set SECFIELD_DATA)")
	saltHex := flag.String("salt", "", "Hex salt for key derivation (random if empty)")
	logFile := flag.String("log", "", "Write logs to this file (the terminal is owned by the form)")
	title := flag.String("title", "Enter secret", "Form title")
	flag.Parse()

	if *logFile != "" {
		f, err := fsutil.CreateFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log file: %v\n", err)
			return 1
		}
		defer func() { _ = f.Close() }()
		util.InitLoggerTo(f)
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: secfield needs an interactive terminal (try secprompt)")
		return 1
	}

	security.Harden(util.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := util.StartSession(ctx, *dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	salt, generated, err := util.ResolveSalt(*saltHex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	field, err := session.Factory.NewField()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer field.Destroy()

	model := tui.NewModel(field, *title, session.Factory.Config().Mask(), func(secret *crypto.MaskedValue) (string, error) {
		return session.DeriveFingerprint(secret, salt)
	})

	final, err := tea.NewProgram(model).Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	m := final.(tui.Model)
	if m.Result() == "" {
		return 130
	}
	if generated {
		fmt.Printf("salt: %x\n", salt)
	}
	fmt.Printf("fingerprint: %s\n", m.Result())
	return 0
}
