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

//go:build !(amd64 && linux)

package bf

import "errors"

// JITTapeSize mirrors the amd64/linux build's constant so callers can
// reference it unconditionally.
const JITTapeSize = 10 * 1024

// Artifact is unusable on this platform; the JIT backend is x86-64 Linux
// only, per the one-ISA/one-ABI scope of this system.
type Artifact struct{}

// Compile always fails outside amd64/linux. Use the Interpreter instead.
func Compile(prog Program) (*Artifact, error) {
	return nil, errors.New("bf: jit backend requires amd64 linux, use the interpreter on this platform")
}

// Lower always fails outside amd64/linux.
func Lower(prog Program) ([]byte, error) {
	return nil, errors.New("bf: jit backend requires amd64 linux, use the interpreter on this platform")
}

// LoadArtifact always fails outside amd64/linux.
func LoadArtifact(code []byte) (*Artifact, error) {
	return nil, errors.New("bf: jit backend requires amd64 linux, use the interpreter on this platform")
}

func (a *Artifact) Run(tape []byte) error {
	return errors.New("bf: jit backend requires amd64 linux")
}

func (a *Artifact) Len() int {
	return 0
}

func (a *Artifact) Close() error {
	return nil
}
