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
package debug

import (
	"bytes"
	"strings"
	"testing"
)

func TestSessionStepExecutesOneInstructionAtATime(t *testing.T) {
	var out bytes.Buffer
	sess, err := NewSession("+++.", strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	// "+++." folds to Add(3), Output(1): one step runs the whole `+` run.
	for i := 0; i < 1; i++ {
		more, err := sess.Step()
		if err != nil || !more {
			t.Fatalf("step %d: more=%v err=%v", i, more, err)
		}
	}
	if sess.IP != 1 {
		t.Errorf("IP = %d, want 1", sess.IP)
	}
	if out.Len() != 0 {
		t.Errorf("output produced before reaching Output instruction: %q", out.String())
	}

	more, err := sess.Step()
	if err != nil || !more {
		t.Fatalf("output step: more=%v err=%v", more, err)
	}
	if out.String() != "\x03" {
		t.Errorf("output = %q, want 0x03", out.String())
	}
}

func TestSessionContinueStopsAtBreakpoint(t *testing.T) {
	var out bytes.Buffer
	sess, err := NewSession("+++++.", strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	// "+++++." folds to Add(5), Output(1); break before the Output.
	sess.Breakpoint[1] = true

	more, err := sess.Continue()
	if err != nil || !more {
		t.Fatalf("continue: more=%v err=%v", more, err)
	}
	if sess.IP != 1 {
		t.Errorf("IP = %d, want 1 (breakpoint)", sess.IP)
	}
}

func TestValidateUTF8RejectsInvalidBytes(t *testing.T) {
	invalid := string([]byte{0xff, 0xfe, 0x00})
	if err := ValidateUTF8(invalid); err == nil {
		t.Error("expected error for invalid UTF-8, got nil")
	}
	if err := ValidateUTF8("+++[-]<>"); err != nil {
		t.Errorf("valid ASCII rejected: %v", err)
	}
}

func TestDumpMarksCurrentInstruction(t *testing.T) {
	var out bytes.Buffer
	sess, err := NewSession("+-", strings.NewReader(""), &out)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	dump := sess.Dump()
	if !strings.Contains(dump, "-> 0: Add(1)") {
		t.Errorf("dump missing cursor marker on ip 0:\n%s", dump)
	}
}
