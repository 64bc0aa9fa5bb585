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
package cache

import (
	"sync/atomic"
	"testing"
)

func TestCacheCompileIsMemoized(t *testing.T) {
	c := New(8)
	var calls int32
	fn := func() ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte{0xC3}, nil
	}

	for i := 0; i < 5; i++ {
		code, err := c.Compile("+++.", fn)
		if err != nil {
			t.Fatalf("compile: %v", err)
		}
		if len(code) != 1 || code[0] != 0xC3 {
			t.Fatalf("got %v", code)
		}
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := New(2)
	mk := func(src string) func() ([]byte, error) {
		return func() ([]byte, error) { return []byte(src), nil }
	}

	c.Compile("a", mk("a"))
	c.Compile("b", mk("b"))
	// touch "a" so "b" becomes the least recently used
	c.Compile("a", mk("a"))
	c.Compile("c", mk("c"))

	if c.Len() != 2 {
		t.Fatalf("got %d entries, want 2", c.Len())
	}
	if c.Get(Key("b")) != nil {
		t.Errorf("expected %q to have been evicted", "b")
	}
	if c.Get(Key("a")) == nil {
		t.Errorf("expected %q to survive eviction", "a")
	}
	if c.Get(Key("c")) == nil {
		t.Errorf("expected %q to survive eviction", "c")
	}
}
