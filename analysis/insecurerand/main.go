// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

// Package main implements a static analyzer for the randomness that feeds
// secure fields.
//
// Placeholder bases, character masks, output masks and salts must all come
// from crypto/rand. The analyzer flags math/rand imports in secret-handling
// packages, and flags math/rand generators or fixed in-memory readers passed
// where a field or mask expects its random source.
package main

import (
	"fmt"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Directories that should never use math/rand
var criticalDirs = []string{
	"internal/crypto",
	"internal/secfield",
	"internal/host",
	"internal/jsapi",
	"internal/util",
	"cmd",
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: insecurerand <repo-root>")
		os.Exit(1)
	}

	findings, checked, err := scan(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	fmt.Printf("Randomness Source Analysis\n")
	fmt.Printf("==========================\n")
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

// scan checks every non-test Go file under the critical directories of root.
func scan(root string) ([]finding, int, error) {
	fset := token.NewFileSet()
	var findings []finding
	checked := 0

	for _, dir := range criticalDirs {
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
