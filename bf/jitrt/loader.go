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

package jitrt

import (
	"errors"
	"runtime"
	"syscall"
	"unsafe"
)

// Artifact is a compiled native code blob backed by an anonymous memory
// mapping. The mapping is exclusively owned by the Artifact; Close (or
// finalization) releases it, and the entry point must never be invoked
// afterwards.
type Artifact struct {
	mem   []byte
	entry func(tape *byte)
}

// Load allocates a page-aligned RW mapping, copies code into it, then
// flips the mapping to RX. The returned Artifact's mapping outlives every
// call into it until Close is called.
func Load(code []byte) (*Artifact, error) {
	if len(code) == 0 {
		return nil, errors.New("jitrt: empty code")
	}

	page := syscall.Getpagesize()
	n := (len(code) + page - 1) &^ (page - 1)

	mem, err := syscall.Mmap(-1, 0, n, syscall.PROT_READ|syscall.PROT_WRITE, syscall.MAP_PRIVATE|syscall.MAP_ANON)
	if err != nil {
		return nil, &LoaderError{Op: "mmap", Err: err}
	}
	copy(mem, code)

	if err := syscall.Mprotect(mem, syscall.PROT_READ|syscall.PROT_EXEC); err != nil {
		syscall.Munmap(mem)
		return nil, &LoaderError{Op: "mprotect", Err: err}
	}

	a := &Artifact{mem: mem, entry: makeEntry(&mem[0])}
	runtime.SetFinalizer(a, (*Artifact).Close)
	return a, nil
}

// makeEntry reinterprets codePtr as a Go func value. A Go func value is
// represented at runtime as a pointer to a struct whose first word is the
// entry PC; pointing that word directly at mapped machine code makes a
// native call out of an ordinary Go call expression.
func makeEntry(codePtr *byte) func(tape *byte) {
	fn := unsafe.Pointer(&struct{ *byte }{codePtr})
	return *(*func(*byte))(unsafe.Pointer(&fn))
}

// Run invokes the artifact with a pointer to tape's first byte as its sole
// argument; Go's internal calling convention delivers that pointer in rax,
// and the compiled code's own prologue moves it into rdi before the rest of
// the program runs. tape must be at least as large as every Right/Left
// displacement the compiled program can reach; the JIT performs no bounds
// check.
func (a *Artifact) Run(tape []byte) error {
	if a.mem == nil {
		return errors.New("jitrt: artifact already closed")
	}
	if len(tape) == 0 {
		return errors.New("jitrt: empty tape")
	}
	a.entry(&tape[0])
	return nil
}

// Len returns the size in bytes of the mapped executable region, rounded
// up to a page boundary.
func (a *Artifact) Len() int {
	return len(a.mem)
}

// Close unmaps the executable region. It is safe to call more than once.
func (a *Artifact) Close() error {
	if a.mem == nil {
		return nil
	}
	mem := a.mem
	a.mem = nil
	a.entry = nil
	runtime.SetFinalizer(a, nil)
	if err := syscall.Munmap(mem); err != nil {
		return &LoaderError{Op: "munmap", Err: err}
	}
	return nil
}
