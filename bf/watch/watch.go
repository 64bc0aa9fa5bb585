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

// Package watch recompiles and reruns a single tape-language source file
// whenever it changes on disk. It is a development convenience only and is
// never imported by package bf itself.
package watch

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bfjit/bfjit/bf"
)

// RunFunc executes source against stdin/stdout, returning any error the
// run produced. Watch calls this once up front and once per file change.
type RunFunc func(source string, stdin io.Reader, stdout io.Writer) error

// InterpretRun is a RunFunc backed by the reference interpreter.
func InterpretRun(source string, stdin io.Reader, stdout io.Writer) error {
	prog, err := bf.Parse(source)
	if err != nil {
		return err
	}
	vm := &bf.Interpreter{}
	return vm.Run(prog, stdin, stdout)
}

// Watch blocks, re-running path through run every time its contents
// change, until stop is closed. Debounces bursts of events (editors often
// emit several writes per save) with a short settle delay.
func Watch(path string, run RunFunc, stdout io.Writer, stop <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	runOnce := func() {
		src, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(stdout, "watch: read %s: %v\n", path, err)
			return
		}
		fmt.Fprintf(stdout, "--- running %s ---\n", path)
		if err := run(string(src), os.Stdin, stdout); err != nil {
			fmt.Fprintf(stdout, "watch: %v\n", err)
		}
	}

	runOnce()

	const settleDelay = 50 * time.Millisecond
	var pending *time.Timer

	for {
		select {
		case <-stop:
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(settleDelay, runOnce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(stdout, "watch: fsnotify error: %v\n", err)
		}
	}
}
