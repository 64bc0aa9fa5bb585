/*
Copyright (C) 2026  Carl-Philip Hänsch

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU General Public License as published by
	the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU General Public License for more details.

	You should have received a copy of the GNU General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// coverage checks that every bf.InstrKind constant declared in ir.go has a
// matching case in compileAMD64's switch in jit_amd64.go. A silently
// dropped opcode in the JIT would otherwise only surface as a wrong
// program at runtime; this turns it into a build-time listing.
//
// Usage:
//
//	go run ./tools/coverage ./bf
package main

import (
	"fmt"
	"go/ast"
	"go/token"
	"os"

	"golang.org/x/tools/go/packages"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: coverage <package path>")
		os.Exit(2)
	}

	cfg := &packages.Config{Mode: packages.NeedFiles | packages.NeedSyntax | packages.NeedName}
	pkgs, err := packages.Load(cfg, os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "load: %v\n", err)
		os.Exit(1)
	}
	if len(pkgs) == 0 {
		fmt.Fprintln(os.Stderr, "no packages found")
		os.Exit(1)
	}
	pkg := pkgs[0]
	for _, e := range pkg.Errors {
		fmt.Fprintf(os.Stderr, "  %v\n", e)
	}

	declared := map[string]bool{}
	handled := map[string]bool{}

	for _, f := range pkg.Syntax {
		collectInstrKindConsts(f, declared)
		collectSwitchCases(f, "compileAMD64", handled)
	}

	var missing []string
	for name := range declared {
		if !handled[name] {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		fmt.Printf("unhandled opcodes in compileAMD64: %v\n", missing)
		os.Exit(1)
	}
	fmt.Printf("all %d opcodes handled\n", len(declared))
}

// collectInstrKindConsts finds `const ( OpFoo InstrKind = iota; OpBar; ... )`
// blocks and records each identifier's name.
func collectInstrKindConsts(f *ast.File, declared map[string]bool) {
	for _, decl := range f.Decls {
		gen, ok := decl.(*ast.GenDecl)
		if !ok || gen.Tok != token.CONST {
			continue
		}
		sawInstrKind := false
		for _, spec := range gen.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			if ident, ok := vs.Type.(*ast.Ident); ok && ident.Name == "InstrKind" {
				sawInstrKind = true
			}
			if !sawInstrKind {
				continue
			}
			for _, name := range vs.Names {
				if name.Name != "_" {
					declared[name.Name] = true
				}
			}
		}
	}
}

// collectSwitchCases finds funcName's body and records every identifier
// named in a `case` clause of its top-level switch statement.
func collectSwitchCases(f *ast.File, funcName string, handled map[string]bool) {
	for _, decl := range f.Decls {
		fn, ok := decl.(*ast.FuncDecl)
		if !ok || fn.Name.Name != funcName {
			continue
		}
		ast.Inspect(fn.Body, func(n ast.Node) bool {
			sw, ok := n.(*ast.SwitchStmt)
			if !ok {
				return true
			}
			for _, clauseStmt := range sw.Body.List {
				clause, ok := clauseStmt.(*ast.CaseClause)
				if !ok {
					continue
				}
				for _, expr := range clause.List {
					if ident, ok := expr.(*ast.Ident); ok {
						handled[ident.Name] = true
					}
				}
			}
			return false
		})
	}
}
