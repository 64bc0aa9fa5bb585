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

import "fmt"

// ParseError reports a malformed source program: unbalanced brackets or a
// run-length overflow on a `+`/`-` run. Pos is a rune offset into the
// source, or -1 when the error is only detectable at end of input.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string {
	if e.Pos < 0 {
		return fmt.Sprintf("bf: parse error at end of input: %s", e.Msg)
	}
	return fmt.Sprintf("bf: parse error at offset %d: %s", e.Pos, e.Msg)
}

// RuntimeError reports a fatal condition raised by the interpreter while
// executing an otherwise well-formed Program: tape-pointer underflow on
// Left, or a failed/premature-EOF Input.
type RuntimeError struct {
	IP    int
	Instr Instruction
	Err   error
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("bf: runtime error at ip=%d (%s): %v", e.IP, e.Instr, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}
