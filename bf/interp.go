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
	"bufio"
	"errors"
	"io"
)

const initialTapeLen = 64

// Tracer receives one callback per executed IR instruction. Implementations
// must not retain instr beyond the call.
type Tracer interface {
	Event(ip int, instr Instruction, mp int)
}

// Interpreter is the reference executor: a growable byte tape, an
// instruction pointer and a tape pointer. It defines the semantics the JIT
// backend must match bit-for-bit.
type Interpreter struct {
	// Trace, if non-nil, is called once per executed instruction.
	Trace Tracer
}

// Run executes prog against in/out until ip runs off the end of the
// program. The tape starts at 64 zero bytes and grows on Right past the
// current end; any reachable cell reads zero until written.
func (vm *Interpreter) Run(prog Program, in io.Reader, out io.Writer) error {
	tape := make([]byte, initialTapeLen)
	mp := 0
	ip := 0

	bufOut := bufio.NewWriter(out)
	flush := func() error {
		if err := bufOut.Flush(); err != nil {
			return err
		}
		return nil
	}

	for ip < len(prog) {
		instr := prog[ip]
		if vm.Trace != nil {
			vm.Trace.Event(ip, instr, mp)
		}

		switch instr.Kind {
		case OpAdd:
			tape[mp] = byte(int(tape[mp]) + instr.Arg)
			ip++

		case OpSub:
			tape[mp] = byte(int(tape[mp]) - instr.Arg)
			ip++

		case OpRight:
			mp += instr.Arg
			if mp >= len(tape) {
				grown := make([]byte, mp+1)
				copy(grown, tape)
				tape = grown
			}
			ip++

		case OpLeft:
			if mp < instr.Arg {
				return &RuntimeError{IP: ip, Instr: instr, Err: errors.New("tape pointer underflow")}
			}
			mp -= instr.Arg
			ip++

		case OpInput:
			for n := 0; n < instr.Arg; n++ {
				if err := flush(); err != nil {
					return &RuntimeError{IP: ip, Instr: instr, Err: err}
				}
				var b [1]byte
				read, err := io.ReadFull(in, b[:])
				if read != 1 || err != nil {
					if err == nil {
						err = io.ErrUnexpectedEOF
					}
					return &RuntimeError{IP: ip, Instr: instr, Err: err}
				}
				tape[mp] = b[0]
			}
			ip++

		case OpOutput:
			for n := 0; n < instr.Arg; n++ {
				if err := bufOut.WriteByte(tape[mp]); err != nil {
					return &RuntimeError{IP: ip, Instr: instr, Err: err}
				}
			}
			ip++

		case OpJumpIfZero:
			if tape[mp] == 0 {
				ip = instr.Arg
			} else {
				ip++
			}

		case OpJumpIfNotZero:
			if tape[mp] != 0 {
				ip = instr.Arg
			} else {
				ip++
			}
		}
	}

	return flush()
}
