// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// secscript runs a JavaScript file that drives secure fields through
// createSecureField(). It is used to replay edit sequences the way a UI
// toolkit would deliver them.
//
//	secscript [-d dir] [-timeout 30s] script.js
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/aplane-algo/secfield/internal/scripting"
	"github.com/aplane-algo/secfield/internal/security"
	"github.com/aplane-algo/secfield/internal/util"
	"github.com/aplane-algo/secfield/internal/version"
)

func main() {
	// Handle early-exit flags before any other processing
	version.HandleFlag("secscript", os.Args[1:], os.Exit)

	dataDir := flag.String("d", "", "Data directory (or set SECFIELD_DATA)")
	timeout := flag.Duration("timeout", 30*time.Second, "Abort the script after this long (0 disables)")
	verbose := flag.Bool("v", false, "Enable log() output from the script")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: secscript [-d dir] [-timeout 30s] [-v] script.js")
		os.Exit(2)
	}

	util.InitLogger()
	os.Exit(run(*dataDir, flag.Arg(0), *timeout, *verbose))
}

func run(dataDir, path string, timeout time.Duration, verbose bool) int {
	security.Harden(util.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	session, err := util.StartSession(ctx, dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	runner := scripting.NewGojaRunner(session.Factory)
	defer runner.Close()
	runner.SetOutput(func(s string) { fmt.Println(s) })
	if verbose {
		if _, err := runner.Run("setVerbose(true)"); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}

	runCtx := ctx
	if timeout > 0 {
		var stop context.CancelFunc
		runCtx, stop = context.WithTimeout(ctx, timeout)
		defer stop()
	}

	result, err := scripting.RunFile(runCtx, runner, path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if !result.IsEmpty {
		fmt.Printf("%v\n", result.Value)
	}
	return 0
}
