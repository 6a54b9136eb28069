// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"strconv"
)

type finding struct {
	pos    token.Position
	reason string
}

func (f finding) String() string {
	return fmt.Sprintf("%s\n  Issue: %s\n", f.pos, f.reason)
}

var mathRandPaths = map[string]bool{
	"math/rand":    true,
	"math/rand/v2": true,
}

// rngArgs maps calls that take a random source to the index of that argument.
var rngArgs = map[string]int{
	"WithRandom": 0,
	"NewSalt":    0,
	"MaskBytes":  1,
	"Extract":    1,
}

// Readers that replay fixed bytes. Fine in tests, never as a mask source.
var fixedReaders = map[string]bool{
	"bytes.NewReader":       true,
	"bytes.NewBuffer":       true,
	"bytes.NewBufferString": true,
	"strings.NewReader":     true,
}

// checkSource parses one file and reports weak randomness. src follows
// parser.ParseFile: nil reads filename from disk.
func checkSource(fset *token.FileSet, filename string, src any) ([]finding, error) {
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	var findings []finding
	mathRand := make(map[string]bool)
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil || !mathRandPaths[path] {
			continue
		}
		name := "rand"
		if imp.Name != nil {
			name = imp.Name.Name
		}
		mathRand[name] = true
		findings = append(findings, finding{
			pos:    fset.Position(imp.Pos()),
			reason: path + " imported in secret-handling code; use crypto/rand",
		})
	}

	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		name := calleeName(call.Fun)
		idx, ok := rngArgs[name]
		if !ok || idx >= len(call.Args) {
			return true
		}
		if why := weakSource(call.Args[idx], mathRand); why != "" {
			findings = append(findings, finding{
				pos:    fset.Position(call.Args[idx].Pos()),
				reason: fmt.Sprintf("%s receives %s", name, why),
			})
		}
		return true
	})

	return findings, nil
}

func calleeName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	case *ast.IndexExpr:
		return calleeName(f.X)
	}
	return ""
}

// weakSource says why expr is not a cryptographic source, or returns "".
func weakSource(expr ast.Expr, mathRand map[string]bool) string {
	var why string
	ast.Inspect(expr, func(n ast.Node) bool {
		if why != "" {
			return false
		}
		sel, ok := n.(*ast.SelectorExpr)
		if !ok {
			return true
		}
		pkg, ok := sel.X.(*ast.Ident)
		if !ok {
			return true
		}
		switch {
		case mathRand[pkg.Name]:
			why = "a math/rand generator"
		case fixedReaders[pkg.Name+"."+sel.Sel.Name]:
			why = "a fixed in-memory reader"
		}
		return why == ""
	})
	return why
}
