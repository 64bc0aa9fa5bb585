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

// Package trace writes a JSON array of execution events to a file, one
// record per executed IR instruction (interpreter) or per compiled
// artifact (JIT driver).
package trace

import (
	"encoding/json"
	"io"
	"os"
	"sync"
	"time"

	"github.com/bfjit/bfjit/bf"
)

// Tracefile is a JSON-array-of-events sink, safe for concurrent writers.
type Tracefile struct {
	isFirst bool
	file    io.WriteCloser
	m       sync.Mutex
	start   time.Time
}

// Default is the process-wide trace sink, nil unless SetFile installs one.
var Default *Tracefile

// SetFile opens path and installs it as Default, closing any previously
// installed trace file first. Passing an empty path disables tracing.
func SetFile(path string) error {
	if Default != nil {
		Default.Close()
		Default = nil
	}
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	Default = New(f)
	return nil
}

// New wraps an already-open writer as a Tracefile.
func New(file io.WriteCloser) *Tracefile {
	file.Write([]byte("["))
	return &Tracefile{file: file, isFirst: true, start: time.Now()}
}

// Close writes the closing bracket and closes the underlying file.
func (t *Tracefile) Close() {
	t.m.Lock()
	t.file.Write([]byte("]"))
	t.file.Close()
	t.m.Unlock()
}

type instrRecord struct {
	TS   int64  `json:"ts"`
	Kind string `json:"kind"`
	IP   int    `json:"ip"`
	MP   int    `json:"mp"`
	Arg  int    `json:"arg"`
}

// Event implements bf.Tracer, recording one interpreter step.
func (t *Tracefile) Event(ip int, instr bf.Instruction, mp int) {
	t.writeRecord(instrRecord{
		TS:   time.Since(t.start).Microseconds(),
		Kind: instr.Kind.String(),
		IP:   ip,
		MP:   mp,
		Arg:  instr.Arg,
	})
}

type compileRecord struct {
	TS       int64  `json:"ts"`
	Kind     string `json:"kind"`
	Program  string `json:"program,omitempty"`
	CodeLen  int    `json:"code_len"`
	Nanos    int64  `json:"nanos"`
}

// CompileEvent records one JIT compilation: the size in bytes the caller
// reports for the compiled artifact and how long compiling it took.
func (t *Tracefile) CompileEvent(programName string, codeLen int, dur time.Duration) {
	t.writeRecord(compileRecord{
		TS:      time.Since(t.start).Microseconds(),
		Kind:    "jit_compile",
		Program: programName,
		CodeLen: codeLen,
		Nanos:   dur.Nanoseconds(),
	})
}

func (t *Tracefile) writeRecord(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	t.m.Lock()
	defer t.m.Unlock()
	if t.isFirst {
		t.isFirst = false
	} else {
		t.file.Write([]byte(",\n"))
	}
	_, err = t.file.Write(b)
	return err
}

var _ bf.Tracer = (*Tracefile)(nil)
