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
package server

import (
	"io"
	"os"
	"sync"
	"syscall"

	"github.com/bfjit/bfjit/bf"
)

// jitCaptureMu serializes JIT runs served through this process: the JIT's
// Output instruction writes directly to fd 1 via syscall rather than
// through an io.Writer, so there is no per-call hook to redirect. Routing
// one run at a time through a pipe dup'd onto fd 1 is the only way to
// collect that output without changing the JIT's instruction encoding.
var jitCaptureMu sync.Mutex

func runJITCapturingStdout(artifact *bf.Artifact, tape []byte, dst io.Writer) error {
	jitCaptureMu.Lock()
	defer jitCaptureMu.Unlock()

	savedStdout, err := syscall.Dup(1)
	if err != nil {
		return err
	}
	defer syscall.Close(savedStdout)

	r, w, err := os.Pipe()
	if err != nil {
		return err
	}
	if err := syscall.Dup2(int(w.Fd()), 1); err != nil {
		w.Close()
		r.Close()
		return err
	}

	done := make(chan struct{})
	go func() {
		io.Copy(dst, r)
		close(done)
	}()

	runErr := artifact.Run(tape)

	w.Close()
	syscall.Dup2(savedStdout, 1)
	<-done
	r.Close()

	return runErr
}
