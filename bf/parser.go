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

// maxRun is the largest count Add/Sub can carry; a run of 256 or more
// identical `+`/`-` characters is rejected rather than split.
const maxRun = 255

func kindForOperator(r rune) InstrKind {
	switch r {
	case '+':
		return OpAdd
	case '-':
		return OpSub
	case '<':
		return OpLeft
	case '>':
		return OpRight
	case ',':
		return OpInput
	case '.':
		return OpOutput
	default:
		panic("bf: kindForOperator called on a non-run-foldable rune")
	}
}

// Parse turns source into a well-formed Program, or a *ParseError on
// unbalanced brackets or a `+`/`-` run exceeding 255 repeats. Every other
// byte in source, including any operator-looking byte inside a UTF-8
// multi-byte sequence that does not decode to one of the eight operators,
// is silently skipped.
func Parse(source string) (Program, error) {
	lx := newLexer(source)
	var prog Program
	var openStack []int

	r, ok := lx.next()
	for ok {
		switch r {
		case '[':
			openStack = append(openStack, len(prog))
			prog = append(prog, Instruction{Kind: OpJumpIfZero, Arg: 0})
			r, ok = lx.next()

		case ']':
			if len(openStack) == 0 {
				return nil, &ParseError{Pos: lx.pos - 1, Msg: "unmatched close bracket"}
			}
			open := openStack[len(openStack)-1]
			openStack = openStack[:len(openStack)-1]
			prog = append(prog, Instruction{Kind: OpJumpIfNotZero, Arg: open + 1})
			prog[open].Arg = len(prog)
			r, ok = lx.next()

		default:
			kind := kindForOperator(r)
			count := 1
			next, nok := lx.next()
			for nok && next == r {
				count++
				next, nok = lx.next()
			}
			if (kind == OpAdd || kind == OpSub) && count > maxRun {
				return nil, &ParseError{
					Pos: lx.pos,
					Msg: fmt.Sprintf("run of %d %q exceeds the 255-count limit for Add/Sub", count, r),
				}
			}
			prog = append(prog, Instruction{Kind: kind, Arg: count})
			r, ok = next, nok
		}
	}

	if len(openStack) > 0 {
		return nil, &ParseError{Pos: -1, Msg: "unmatched open bracket"}
	}
	return prog, nil
}
