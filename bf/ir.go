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
	"fmt"
	"strings"
)

// InstrKind tags the variant carried by an Instruction. Dispatch on Kind is
// always a single switch; there is no per-variant type.
type InstrKind uint8

const (
	OpAdd InstrKind = iota
	OpSub
	OpLeft
	OpRight
	OpInput
	OpOutput
	OpJumpIfZero
	OpJumpIfNotZero
)

func (k InstrKind) String() string {
	switch k {
	case OpAdd:
		return "Add"
	case OpSub:
		return "Sub"
	case OpLeft:
		return "Left"
	case OpRight:
		return "Right"
	case OpInput:
		return "Input"
	case OpOutput:
		return "Output"
	case OpJumpIfZero:
		return "JumpIfZero"
	case OpJumpIfNotZero:
		return "JumpIfNotZero"
	default:
		return "Unknown"
	}
}

// Instruction is one IR element: a tag plus a single integer payload. For
// Add/Sub/Left/Right/Input/Output, Arg is a repeat count (>= 1, Add/Sub
// further bounded to [1, 255]). For JumpIfZero/JumpIfNotZero, Arg is the
// target IR index.
type Instruction struct {
	Kind InstrKind
	Arg  int
}

func (instr Instruction) String() string {
	return fmt.Sprintf("%s(%d)", instr.Kind, instr.Arg)
}

// Program is an ordered, read-only-after-construction sequence of
// instructions produced by Parse.
type Program []Instruction

// String renders one "index: Mnemonic(arg)" line per instruction.
func (p Program) String() string {
	var b strings.Builder
	for i, instr := range p {
		fmt.Fprintf(&b, "%d: %s\n", i, instr)
	}
	return b.String()
}
