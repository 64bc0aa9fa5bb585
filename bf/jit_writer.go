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

import "encoding/binary"

// jitFixup is one deferred branch: the offset of the first of four
// placeholder displacement bytes, and the IR index it must end up pointing
// at.
type jitFixup struct {
	patchSite int
	target    int
}

// jitWriter is the architecture-independent code emission scaffold: a
// growable byte buffer, a label table mapping IR index to native byte
// offset, and a side table of displacements to backpatch once every label
// is known. Architecture-specific emit methods live in jit_<arch>.go.
type jitWriter struct {
	code      []byte
	labelAddr map[int]int
	fixups    []jitFixup
}

func newJITWriter() *jitWriter {
	return &jitWriter{labelAddr: make(map[int]int)}
}

func (w *jitWriter) emitByte(b byte) {
	w.code = append(w.code, b)
}

func (w *jitWriter) emitBytes(bs ...byte) {
	w.code = append(w.code, bs...)
}

func (w *jitWriter) emitU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.code = append(w.code, b[:]...)
}

// markLabel records that IR index ir begins at the current end of the code
// buffer. Called before emitting ir's bytes, and once more with
// ir == len(program) to give the trailing ret a label too.
func (w *jitWriter) markLabel(ir int) {
	w.labelAddr[ir] = len(w.code)
}

// addFixup records a deferred branch target and emits its 4-byte
// placeholder displacement.
func (w *jitWriter) addFixup(target int) {
	w.fixups = append(w.fixups, jitFixup{patchSite: len(w.code), target: target})
	w.emitU32(0)
}

// resolveFixups patches every deferred displacement now that every label is
// known. A missing label means the IR produced a jump target markLabel was
// never called for -- an invariant violation in a well-formed Program, so
// this panics rather than returning an error.
func (w *jitWriter) resolveFixups() {
	for _, f := range w.fixups {
		target, ok := w.labelAddr[f.target]
		if !ok {
			panic("bf: jit: undefined branch target")
		}
		rel := int32(target - (f.patchSite + 4))
		binary.LittleEndian.PutUint32(w.code[f.patchSite:f.patchSite+4], uint32(rel))
	}
}
