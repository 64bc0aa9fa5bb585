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

//go:build amd64 && linux

package bf

import "testing"

func TestBackendEquivalenceOnNestedLoops(t *testing.T) {
	// three-deep nested loops, no stdin consumption
	const src = "++++[->+++[->++[->+<]<]<]"
	for _, src := range []string{src, "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."} {
		interpOut := runSource(t, src, "")

		prog, err := Parse(src)
		if err != nil {
			t.Fatalf("parse %q: %v", src, err)
		}
		art, err := Compile(prog)
		if err != nil {
			t.Fatalf("compile %q: %v", src, err)
		}
		jitOut := captureStdout(t, func() {
			if err := art.Run(make([]byte, JITTapeSize)); err != nil {
				t.Fatalf("run %q: %v", src, err)
			}
		})
		art.Close()

		if jitOut != interpOut {
			t.Errorf("%q: jit %q != interpreter %q", src, jitOut, interpOut)
		}
	}
}
