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
package trace

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/bfjit/bfjit/bf"
)

type nopCloser struct{ *bytes.Buffer }

func (nopCloser) Close() error { return nil }

func TestTracefileProducesValidJSONArray(t *testing.T) {
	buf := &bytes.Buffer{}
	tf := New(nopCloser{buf})
	tf.Event(0, bf.Instruction{Kind: bf.OpAdd, Arg: 3}, 0)
	tf.Event(1, bf.Instruction{Kind: bf.OpOutput, Arg: 1}, 0)
	tf.Close()

	var records []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &records); err != nil {
		t.Fatalf("invalid JSON array: %v\n%s", err, buf.String())
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0]["kind"] != "Add" {
		t.Errorf("got kind %v, want Add", records[0]["kind"])
	}
}
