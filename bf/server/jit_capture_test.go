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

package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bfjit/bfjit/bf"
)

func TestHandleRunExecutesJITMode(t *testing.T) {
	s := New(":0", nil)
	body, _ := json.Marshal(runRequest{
		Source: "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++.",
		Mode:   "jit",
	})
	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	s.handleRun(rec, req)

	var resp runResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != "ok" {
		t.Fatalf("status = %q, error = %q", resp.Status, resp.Error)
	}
	if resp.Output != "Hello, World!\n" {
		t.Errorf("output = %q, want %q", resp.Output, "Hello, World!\n")
	}
}

func TestRunJITCapturingStdoutCapturesHelloWorld(t *testing.T) {
	const src = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++.>>.<-.<.+++.------.--------.>>+.>++."
	prog, err := bf.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	artifact, err := bf.Compile(prog)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	defer artifact.Close()

	tape := make([]byte, bf.JITTapeSize)
	var out bytes.Buffer
	if err := runJITCapturingStdout(artifact, tape, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "Hello, World!\n" {
		t.Errorf("output = %q, want %q", out.String(), "Hello, World!\n")
	}
}
