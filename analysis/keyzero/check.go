// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (C) 2026 aPlane Authors

package main

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
)

type finding struct {
	pos      token.Position
	funcName string
	reason   string
}

func (f finding) String() string {
	return fmt.Sprintf("%s\n  Function: %s\n  Issue: %s\n", f.pos, f.funcName, f.reason)
}

// Calls whose first result is secret material owned by the caller.
// Unqualified names match calls inside the defining package.
var secretSources = map[string]bool{
	"DeriveKey":        true,
	"crypto.DeriveKey": true,
	"argon2.IDKey":     true,
	"crypto.Open":      true,
	"gcm.Open":         true,
}

// Calls that wipe their first argument.
var wipeCalls = map[string]bool{
	"ZeroBytes": true,
	"ZeroWords": true,
	"WipeBytes": true,
	"clear":     true,
}

// checkSource parses one file and applies the ownership rules to every
// function. src follows parser.ParseFile: nil reads filename from disk.
func checkSource(fset *token.FileSet, filename string, src any) ([]finding, error) {
	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	var findings []finding
	for _, decl := range file.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Body == nil {
			continue
		}
		for _, p := range checkFunc(fn.Body) {
			p.funcName = fn.Name.Name
			p.pos = fset.Position(p.at)
			findings = append(findings, p.finding)
		}
	}
	return findings, nil
}

type problem struct {
	finding
	at token.Pos
}

// funcFacts is what one pass over a function body collects.
type funcFacts struct {
	secrets   []*ast.Ident         // assigned from a secret source
	runeBufs  []*ast.Ident         // passed to UpdateRunes
	replaced  []ast.Expr           // x.state targets of plain assignment
	wiped     map[string]bool      // names zeroed by wipeCalls or x[i] = 0
	returned  map[string]bool      // names that appear in a return statement
	stateWipe map[string]token.Pos // first x.state.Wipe() call per x.state
}

func checkFunc(body *ast.BlockStmt) []problem {
	facts := funcFacts{
		wiped:     make(map[string]bool),
		returned:  make(map[string]bool),
		stateWipe: make(map[string]token.Pos),
	}

	ast.Inspect(body, func(n ast.Node) bool {
		switch s := n.(type) {
		case *ast.AssignStmt:
			facts.assign(s)
		case *ast.ReturnStmt:
			for _, r := range s.Results {
				if id, ok := r.(*ast.Ident); ok {
					facts.returned[id.Name] = true
				}
			}
		case *ast.CallExpr:
			facts.call(s)
		}
		return true
	})

	var problems []problem
	for _, id := range facts.secrets {
		if !facts.wiped[id.Name] && !facts.returned[id.Name] {
			problems = append(problems, problem{at: id.Pos(), finding: finding{
				reason: fmt.Sprintf("%q holds secret material but is never zeroed or returned", id.Name),
			}})
		}
	}
	for _, id := range facts.runeBufs {
		if !facts.wiped[id.Name] {
			problems = append(problems, problem{at: id.Pos(), finding: finding{
				reason: fmt.Sprintf("%q is passed to UpdateRunes but never cleared; it held typed characters", id.Name),
			}})
		}
	}
	for _, target := range facts.replaced {
		wipedAt, ok := facts.stateWipe[types.ExprString(target)]
		if !ok || wipedAt > target.Pos() {
			problems = append(problems, problem{at: target.Pos(), finding: finding{
				reason: fmt.Sprintf("%s is replaced without calling %s.Wipe() first", types.ExprString(target), types.ExprString(target)),
			}})
		}
	}
	return problems
}

func (f *funcFacts) assign(s *ast.AssignStmt) {
	// x[i] = 0 clears a buffer element by element.
	for i, lhs := range s.Lhs {
		if idx, ok := lhs.(*ast.IndexExpr); ok && i < len(s.Rhs) && isZero(s.Rhs[i]) {
			if id, ok := idx.X.(*ast.Ident); ok {
				f.wiped[id.Name] = true
			}
		}
		if sel, ok := lhs.(*ast.SelectorExpr); ok && sel.Sel.Name == "state" && s.Tok == token.ASSIGN {
			f.replaced = append(f.replaced, sel)
		}
	}

	if len(s.Rhs) != 1 || len(s.Lhs) == 0 {
		return
	}
	call, ok := s.Rhs[0].(*ast.CallExpr)
	if !ok || !secretSources[qualifiedName(call.Fun)] {
		return
	}
	if id, ok := s.Lhs[0].(*ast.Ident); ok && id.Name != "_" {
		f.secrets = append(f.secrets, id)
	}
}

func (f *funcFacts) call(c *ast.CallExpr) {
	name := lastName(c.Fun)
	switch {
	case wipeCalls[name] && len(c.Args) > 0:
		if id, ok := c.Args[0].(*ast.Ident); ok {
			f.wiped[id.Name] = true
		}
	case name == "UpdateRunes" && len(c.Args) > 0:
		if id, ok := c.Args[0].(*ast.Ident); ok {
			f.runeBufs = append(f.runeBufs, id)
		}
	case name == "Wipe" && len(c.Args) == 0:
		sel, ok := c.Fun.(*ast.SelectorExpr)
		if !ok {
			return
		}
		if inner, ok := sel.X.(*ast.SelectorExpr); ok && inner.Sel.Name == "state" {
			key := types.ExprString(inner)
			if _, seen := f.stateWipe[key]; !seen {
				f.stateWipe[key] = c.Pos()
			}
		}
	}
}

func isZero(e ast.Expr) bool {
	lit, ok := e.(*ast.BasicLit)
	return ok && lit.Value == "0"
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

// qualifiedName renders pkg.Func or recv.Method for simple receivers and
// the bare name for local calls.
func qualifiedName(fun ast.Expr) string {
	switch f := fun.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		if x, ok := f.X.(*ast.Ident); ok {
			return x.Name + "." + f.Sel.Name
		}
		return f.Sel.Name
	}
	return ""
}
