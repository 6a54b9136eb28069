// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package main implements a static analyzer that checks secret buffers are
// wiped by the function that owns them.
//
// Three ownership rules are enforced per function:
//   - a key from DeriveKey/argon2.IDKey or plaintext from Open is zeroed or
//     returned to the caller;
//   - a rune buffer handed to UpdateRunes is cleared afterwards, since it
//     held the characters the user just typed;
//   - a field's State is wiped before it is replaced, so the old mask words
//     do not linger on the heap.
package main

import (
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Directories to scan (relative to repo root)
var targetDirs = []string{
	"internal",
	"cmd",
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: keyzero <repo-root>")
		os.Exit(1)
	}

	findings, checked, err := scan(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("Secret Zeroing Analysis\n")
	fmt.Printf("=======================\n")
	fmt.Printf("Files checked: %d\n\n", checked)

	if len(findings) == 0 {
		fmt.Println("No issues found.")
		os.Exit(0)
	}

	fmt.Printf("Potential issues: %d\n\n", len(findings))
	for _, f := range findings {
		fmt.Println(f)
	}
	os.Exit(1)
}

func scan(root string) ([]finding, int, error) {
	fset := token.NewFileSet()
	var findings []finding
	checked := 0

	for _, dir := range targetDirs {
		dirPath := filepath.Join(root, dir)
		if _, err := os.Stat(dirPath); os.IsNotExist(err) {
			continue
		}
		err := filepath.WalkDir(dirPath, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if d.Name() == "testdata" {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
				return nil
			}
			checked++
			fileFindings, err := checkSource(fset, path, nil)
			if err != nil {
				return err
			}
			findings = append(findings, fileFindings...)
			return nil
		})
		if err != nil {
			return nil, checked, err
		}
	}
	return findings, checked, nil
}
