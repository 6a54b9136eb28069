// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"strings"
)

type finding struct {
	pos    token.Position
	call   string
	reason string
}

func (f finding) String() string {
	return fmt.Sprintf("%s\n  Call: %s\n  Issue: %s\n", f.pos, f.call, f.reason)
}

// Names that hold secret material in this codebase: recombined plaintext,
// XOR masks, true characters, derived keys and raw edit buffers.
var secretNames = map[string]bool{
	"plaintext": true,
	"plain":     true,
	"key":       true,
	"mask":      true,
	"outMask":   true,
	"trueCh":    true,
	"surface":   true,
	"raw":       true,
	"ins":       true,
}

var fmtSinks = map[string]bool{
	"Print": true, "Printf": true, "Println": true,
	"Fprint": true, "Fprintf": true, "Fprintln": true,
	"Sprint": true, "Sprintf": true, "Sprintln": true,
	"Errorf": true, "Appendf": true,
}

// slog.Logger methods and the package-level helpers that wrap them.
var logMethods = map[string]bool{
	"Debug": true, "Info": true, "Warn": true, "Error": true, "Log": true,
	"DebugContext": true, "InfoContext": true, "WarnContext": true, "ErrorContext": true,
}

// Calls whose result still carries their argument's content.
var passThrough = map[string]bool{
	"string":         true,
	"EncodeToString": true,
	"Quote":          true,
}

func isSink(fun ast.Expr) bool {
	sel, ok := fun.(*ast.SelectorExpr)
	if !ok {
		return false
	}
	if pkg, ok := sel.X.(*ast.Ident); ok {
		switch pkg.Name {
		case "fmt":
			return fmtSinks[sel.Sel.Name]
		case "log":
			name := sel.Sel.Name
			return strings.HasPrefix(name, "Print") || strings.HasPrefix(name, "Fatal") || strings.HasPrefix(name, "Panic")
		}
	}
	return logMethods[sel.Sel.Name]
}

// checkSource parses one file and reports secret material passed to output
// calls. src follows parser.ParseFile: nil reads filename from disk.
func checkSource(fset *token.FileSet, filename string, src any) ([]finding, error) {
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	var findings []finding
	ast.Inspect(file, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok || !isSink(call.Fun) {
			return true
		}
		for _, arg := range call.Args {
			if why := leaks(arg); why != "" {
				findings = append(findings, finding{
					pos:    fset.Position(arg.Pos()),
					call:   types.ExprString(call.Fun),
					reason: why,
				})
			}
		}
		return true
	})
	return findings, nil
}

// leaks says what secret material expr carries, or returns "".
// Other calls (len, Fingerprint, Len) are taken to reduce their argument
// to something safe to print.
func leaks(expr ast.Expr) string {
	switch e := expr.(type) {
	case *ast.Ident:
		if secretNames[e.Name] {
			return fmt.Sprintf("%q holds secret material", e.Name)
		}
	case *ast.SelectorExpr:
		if secretNames[e.Sel.Name] {
			return fmt.Sprintf("%q holds secret material", types.ExprString(e))
		}
	case *ast.IndexExpr:
		return leaks(e.X)
	case *ast.SliceExpr:
		return leaks(e.X)
	case *ast.ParenExpr:
		return leaks(e.X)
	case *ast.StarExpr:
		return leaks(e.X)
	case *ast.UnaryExpr:
		return leaks(e.X)
	case *ast.BinaryExpr:
		if why := leaks(e.X); why != "" {
			return why
		}
		return leaks(e.Y)
	case *ast.CallExpr:
		if sel, ok := e.Fun.(*ast.SelectorExpr); ok && sel.Sel.Name == "Display" && len(e.Args) == 0 {
			return "Display() placeholder text identifies the field instance and its length"
		}
		_, conversion := e.Fun.(*ast.ArrayType)
		if !conversion && !passThrough[lastName(e.Fun)] {
			return ""
		}
		for _, arg := range e.Args {
			if why := leaks(arg); why != "" {
				return why
			}
		}
	}
	return ""
}

func lastName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		return f.Sel.Name
	}
	return ""
}
