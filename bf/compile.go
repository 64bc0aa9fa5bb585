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

import "github.com/bfjit/bfjit/bf/jitrt"

// JITTapeSize is the fixed tape size a compiled Artifact is invoked with.
// The JIT performs no bounds check, so this must be sized conservatively
// for whatever program is being run.
const JITTapeSize = 10 * 1024

// Artifact is a compiled, loaded native program. Its zero value is not
// usable; obtain one from Compile.
type Artifact struct {
	rt *jitrt.Artifact
}

// Compile lowers prog to x86-64, loads it into an executable mapping and
// returns a callable Artifact. prog must be well-formed, as produced by
// Parse.
func Compile(prog Program) (*Artifact, error) {
	code, err := Lower(prog)
	if err != nil {
		return nil, err
	}
	return LoadArtifact(code)
}

// Lower runs only the x86-64 emission pass, without loading the result into
// an executable mapping. Callers that want to cache compiled code by source
// hash (see package bf/cache) lower once and call LoadArtifact per use,
// since an executable mapping cannot safely be shared across callers.
func Lower(prog Program) ([]byte, error) {
	return compileAMD64(prog)
}

// LoadArtifact maps previously lowered code into an executable region and
// returns a callable Artifact. code is typically the output of Lower, or a
// cached copy of one.
func LoadArtifact(code []byte) (*Artifact, error) {
	rt, err := jitrt.Load(code)
	if err != nil {
		return nil, err
	}
	return &Artifact{rt: rt}, nil
}

// Len returns the size in bytes of the loaded executable mapping.
func (a *Artifact) Len() int {
	return a.rt.Len()
}

// Run invokes the compiled program with a pointer to tape's first byte.
func (a *Artifact) Run(tape []byte) error {
	return a.rt.Run(tape)
}

// Close releases the executable mapping. The Artifact must not be used
// afterwards.
func (a *Artifact) Close() error {
	return a.rt.Close()
}
