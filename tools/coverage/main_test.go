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
package main

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"
)

const sampleSource = `
package bf

type InstrKind uint8

const (
	OpAdd InstrKind = iota
	OpSub
	OpSkipped
)

func compileAMD64(prog Program) ([]byte, error) {
	switch instr.Kind {
	case OpAdd:
	case OpSub:
	}
	return nil, nil
}
`

func parseSample(t *testing.T) *ast.File {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "sample.go", sampleSource, 0)
	if err != nil {
		t.Fatalf("parse sample: %v", err)
	}
	return f
}

func TestCollectInstrKindConstsFindsAllOpcodes(t *testing.T) {
	f := parseSample(t)
	declared := map[string]bool{}
	collectInstrKindConsts(f, declared)

	want := []string{"OpAdd", "OpSub", "OpSkipped"}
	for _, name := range want {
		if !declared[name] {
			t.Errorf("missing declared opcode %s", name)
		}
	}
}

func TestCollectSwitchCasesFindsHandledOpcodesOnly(t *testing.T) {
	f := parseSample(t)
	handled := map[string]bool{}
	collectSwitchCases(f, "compileAMD64", handled)

	if !handled["OpAdd"] || !handled["OpSub"] {
		t.Errorf("expected OpAdd and OpSub handled, got %v", handled)
	}
	if handled["OpSkipped"] {
		t.Errorf("OpSkipped has no case clause and must not be marked handled")
	}
}
