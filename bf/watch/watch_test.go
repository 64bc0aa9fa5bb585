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
package watch

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatchRunsOnceImmediatelyAndOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prog.bf")
	if err := os.WriteFile(path, []byte("+++."), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var buf bytes.Buffer
	calls := 0
	run := func(source string, stdin io.Reader, stdout io.Writer) error {
		calls++
		return InterpretRun(source, stdin, stdout)
	}

	stop := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- Watch(path, run, &buf, stop)
	}()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("+++++."), 0644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	time.Sleep(300 * time.Millisecond)
	close(stop)

	if err := <-done; err != nil {
		t.Fatalf("watch: %v", err)
	}
	if calls < 2 {
		t.Errorf("got %d runs, want at least 2 (initial + on change)", calls)
	}
}
