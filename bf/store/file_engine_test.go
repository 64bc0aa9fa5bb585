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
package store

import (
	"testing"
	"time"
)

func TestFileEngineRoundTrip(t *testing.T) {
	f := &FileFactory{Basepath: t.TempDir()}
	engine, err := f.Open("demo")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer engine.Close()

	rec := RunRecord{
		ID:         NewRunID(),
		SourceHash: "abc123",
		Mode:       ModeJIT,
		StartedAt:  time.Now().UTC().Truncate(time.Second),
		Duration:   5 * time.Millisecond,
		Status:     StatusOK,
		Output:     []byte("Hello, World!\n"),
	}
	if err := engine.WriteRun(rec); err != nil {
		t.Fatalf("write: %v", err)
	}

	runs, err := engine.ReadRuns(10)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].ID != rec.ID || runs[0].SourceHash != rec.SourceHash || string(runs[0].Output) != string(rec.Output) {
		t.Errorf("got %+v, want %+v", runs[0], rec)
	}
}

func TestFileEngineReadRunsRespectsLimit(t *testing.T) {
	f := &FileFactory{Basepath: t.TempDir()}
	engine, err := f.Open("demo")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer engine.Close()

	for i := 0; i < 5; i++ {
		if err := engine.WriteRun(RunRecord{ID: NewRunID(), Status: StatusOK}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	runs, err := engine.ReadRuns(2)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
}
