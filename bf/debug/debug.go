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

// Package debug is an interactive, single-step REPL over a tape-language
// program's instruction pointer and tape, for pasting a program and
// watching it execute one instruction at a time.
package debug

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/bfjit/bfjit/bf"
)

const prompt = "\033[32m(bfdbg)\033[0m "

// Session holds one paused debugging run: program, tape and cursor.
type Session struct {
	Prog       bf.Program
	Tape       []byte
	IP         int
	MP         int
	Breakpoint map[int]bool
	In         io.Reader
	Out        io.Writer
}

// NewSession validates source as well-formed UTF-8 and parses it, per the
// debugger's stricter entry contract (batch execution does not pay this
// validation cost; a human pasting text by hand does).
func NewSession(source string, in io.Reader, out io.Writer) (*Session, error) {
	if err := ValidateUTF8(source); err != nil {
		return nil, err
	}
	prog, err := bf.Parse(source)
	if err != nil {
		return nil, err
	}
	return &Session{
		Prog:       prog,
		Tape:       make([]byte, 64),
		Breakpoint: map[int]bool{},
		In:         in,
		Out:        out,
	}, nil
}

// Step executes exactly one instruction and advances IP/MP. Returns false
// once IP has run past the end of the program.
func (s *Session) Step() (bool, error) {
	if s.IP >= len(s.Prog) {
		return false, nil
	}
	instr := s.Prog[s.IP]
	switch instr.Kind {
	case bf.OpAdd:
		s.Tape[s.MP] = byte(int(s.Tape[s.MP]) + instr.Arg)
		s.IP++
	case bf.OpSub:
		s.Tape[s.MP] = byte(int(s.Tape[s.MP]) - instr.Arg)
		s.IP++
	case bf.OpRight:
		s.MP += instr.Arg
		if s.MP >= len(s.Tape) {
			grown := make([]byte, s.MP+1)
			copy(grown, s.Tape)
			s.Tape = grown
		}
		s.IP++
	case bf.OpLeft:
		if s.MP < instr.Arg {
			return false, &bf.RuntimeError{IP: s.IP, Instr: instr, Err: fmt.Errorf("tape pointer underflow")}
		}
		s.MP -= instr.Arg
		s.IP++
	case bf.OpInput:
		for n := 0; n < instr.Arg; n++ {
			var b [1]byte
			if _, err := io.ReadFull(s.In, b[:]); err != nil {
				return false, &bf.RuntimeError{IP: s.IP, Instr: instr, Err: err}
			}
			s.Tape[s.MP] = b[0]
		}
		s.IP++
	case bf.OpOutput:
		for n := 0; n < instr.Arg; n++ {
			if _, err := s.Out.Write([]byte{s.Tape[s.MP]}); err != nil {
				return false, &bf.RuntimeError{IP: s.IP, Instr: instr, Err: err}
			}
		}
		s.IP++
	case bf.OpJumpIfZero:
		if s.Tape[s.MP] == 0 {
			s.IP = instr.Arg
		} else {
			s.IP++
		}
	case bf.OpJumpIfNotZero:
		if s.Tape[s.MP] != 0 {
			s.IP = instr.Arg
		} else {
			s.IP++
		}
	}
	return true, nil
}

// Continue steps until a breakpoint is hit or the program ends.
func (s *Session) Continue() (bool, error) {
	for {
		more, err := s.Step()
		if err != nil || !more {
			return more, err
		}
		if s.Breakpoint[s.IP] {
			return true, nil
		}
	}
}

// Dump renders the IR and current cursor position, in the teacher-original
// "index: Mnemonic(arg)" format with a cursor marker on the active line.
func (s *Session) Dump() string {
	var b strings.Builder
	for i, instr := range s.Prog {
		marker := "  "
		if i == s.IP {
			marker = "->"
		}
		fmt.Fprintf(&b, "%s %d: %s\n", marker, i, instr.String())
	}
	fmt.Fprintf(&b, "mp=%d tape[mp]=%d\n", s.MP, s.cell())
	return b.String()
}

func (s *Session) cell() byte {
	if s.MP < len(s.Tape) {
		return s.Tape[s.MP]
	}
	return 0
}

// Run drives an interactive readline loop over session commands: step,
// break <ir-index>, continue, dump, quit.
func Run(session *Session) error {
	l, err := readline.NewEx(&readline.Config{
		Prompt:            prompt,
		HistoryFile:       ".bfdbg-history.tmp",
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		return err
	}
	defer l.Close()
	l.CaptureExitSignal()

	fmt.Fprintln(session.Out, session.Dump())
	for {
		line, err := l.Readline()
		if err == readline.ErrInterrupt {
			continue
		} else if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "step", "s":
			more, err := session.Step()
			if err != nil {
				fmt.Fprintln(session.Out, "error:", err)
				continue
			}
			fmt.Fprintln(session.Out, session.Dump())
			if !more {
				fmt.Fprintln(session.Out, "program terminated")
			}
		case "break", "b":
			if len(fields) != 2 {
				fmt.Fprintln(session.Out, "usage: break <ir-index>")
				continue
			}
			idx, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Fprintln(session.Out, "invalid index:", fields[1])
				continue
			}
			session.Breakpoint[idx] = true
		case "continue", "c":
			more, err := session.Continue()
			if err != nil {
				fmt.Fprintln(session.Out, "error:", err)
				continue
			}
			fmt.Fprintln(session.Out, session.Dump())
			if !more {
				fmt.Fprintln(session.Out, "program terminated")
			}
		case "dump", "d":
			fmt.Fprintln(session.Out, session.Dump())
		case "quit", "q":
			return nil
		default:
			fmt.Fprintln(session.Out, "unknown command:", fields[0])
		}
	}
}
