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
package bf

import (
	"strings"
	"testing"
)

func TestProgramStringFormat(t *testing.T) {
	prog, err := Parse("+[-]")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	s := prog.String()
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) != len(prog) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(prog), s)
	}
	if lines[0] != "0: Add(1)" {
		t.Errorf("got %q, want %q", lines[0], "0: Add(1)")
	}
}
