// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// secprompt reads a secret at a single-line prompt. Without further flags it
// prints the fingerprint of the derived key. With -seal or -open it uses the
// key to encrypt or decrypt a file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/aplane-algo/secfield/internal/crypto"
	"github.com/aplane-algo/secfield/internal/host/lineedit"
	"github.com/aplane-algo/secfield/internal/secfield"
	"github.com/aplane-algo/secfield/internal/security"
	"github.com/aplane-algo/secfield/internal/util"
	"github.com/aplane-algo/secfield/internal/version"
)

type options struct {
	dataDir  string
	saltHex  string
	prompt   string
	confirm  bool
	sealPath string
	openPath string
	outPath  string
}

func main() {
	// Handle early-exit flags before any other processing
	version.HandleFlag("secprompt", os.Args[1:], os.Exit)

	var opts options
	flag.StringVar(&opts.dataDir, "d", "", "Data directory (or set SECFIELD_DATA)")
	flag.StringVar(&opts.saltHex, "salt", "", "Hex salt for key derivation (random if empty)")
	flag.StringVar(&opts.prompt, "prompt", "Secret: ", "Prompt text")
	flag.BoolVar(&opts.confirm, "confirm", false, "Ask twice and require both entries to match")
	flag.StringVar(&opts.sealPath, "seal", "", "Encrypt this file with the derived key")
	flag.StringVar(&opts.openPath, "open", "", "Decrypt this sealed file with the derived key")
	flag.StringVar(&opts.outPath, "o", "", "Output file for -seal/-open (default: <file>.sealed, stdout)")
	flag.Parse()

	util.InitLogger()
	os.Exit(run(opts))
}

func run(opts options) int {
	if opts.sealPath != "" && opts.openPath != "" {
		fmt.Fprintln(os.Stderr, "Error: -seal and -open are mutually exclusive")
		return 2
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: secprompt needs an interactive terminal")
		return 1
	}

	security.Harden(util.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := util.StartSession(ctx, opts.dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          opts.prompt,
		HistoryLimit:    -1,
		InterruptPrompt: "^C",
		Stdout:          os.Stderr,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to start line editor: %v\n", err)
		return 1
	}
	defer func() {
		_ = rl.Close() // Best-effort close, errors during shutdown not critical
	}()

	field, err := session.Factory.NewField()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer field.Destroy()

	secret, err := readSecret(rl, field, session.Factory.Config().Mask(), opts)
	if err != nil {
		if errors.Is(err, lineedit.ErrInterrupted) {
			return 130
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer secret.Destroy()

	switch {
	case opts.sealPath != "":
		err = sealFile(session, secret, opts)
	case opts.openPath != "":
		err = openFile(session, secret, opts)
	default:
		err = printFingerprint(session, secret, opts)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// readSecret prompts once, or twice with -confirm (not when opening, where
// a wrong secret simply fails to decrypt).
func readSecret(rl *readline.Instance, field *secfield.Field, mask rune, opts options) (*crypto.MaskedValue, error) {
	secret, err := lineedit.Prompt(rl, opts.prompt, field, mask)
	if err != nil {
		return nil, err
	}
	if secret.IsEmpty() {
		secret.Destroy()
		return nil, crypto.ErrEmptySecret
	}
	if !opts.confirm || opts.openPath != "" {
		return secret, nil
	}

	again, err := lineedit.Prompt(rl, "Confirm: ", field, mask)
	if err != nil {
		secret.Destroy()
		return nil, err
	}
	defer again.Destroy()
	if !secret.Equal(again) {
		secret.Destroy()
		return nil, errors.New("entries do not match")
	}
	return secret, nil
}

func printFingerprint(session *util.Session, secret *crypto.MaskedValue, opts options) error {
	salt, generated, err := util.ResolveSalt(opts.saltHex)
	if err != nil {
		return err
	}
	fp, err := session.DeriveFingerprint(secret, salt)
	if err != nil {
		return err
	}
	if generated {
		fmt.Printf("salt: %x\n", salt)
	}
	fmt.Printf("fingerprint: %s\n", fp)
	return nil
}
