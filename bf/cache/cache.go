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

// Package cache holds compiled native code blobs keyed by the SHA-256 of
// their source text, so repeated requests for the same program skip the
// x86-64 lowering pass. Lookups go through a read-optimized map;
// eviction order is tracked in a btree keyed by last-access time.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"github.com/google/btree"
	"github.com/launix-de/NonLockingReadMap"
	"golang.org/x/sync/singleflight"
)

// entry is one cached artifact. It satisfies NonLockingReadMap's
// KeyGetter[string] contract.
type entry struct {
	key        string
	code       []byte
	lastAccess int64
}

func (e entry) GetKey() string { return e.key }

func (e entry) ComputeSize() uint {
	return uint(len(e.key) + len(e.code) + 24)
}

// accessRecord is the btree's eviction-ordering payload: the lowest
// lastAccess is always the next eviction candidate.
type accessRecord struct {
	lastAccess int64
	key        string
}

// Cache caches compiled machine code by source hash, bounded to maxEntries.
// Concurrent compiles of the same source text are deduplicated.
type Cache struct {
	maxEntries int

	mu      sync.Mutex // guards byAccess + eviction bookkeeping
	entries NonLockingReadMap.NonLockingReadMap[entry, string]
	byAccess *btree.BTreeG[accessRecord]
	clock   int64 // monotonic logical clock, avoids relying on wall time for ordering

	group singleflight.Group
}

// New returns an empty Cache that evicts its least-recently-used entry once
// it holds more than maxEntries compiled programs.
func New(maxEntries int) *Cache {
	return &Cache{
		maxEntries: maxEntries,
		entries:    NonLockingReadMap.New[entry, string](),
		byAccess: btree.NewG[accessRecord](8, func(a, b accessRecord) bool {
			if a.lastAccess != b.lastAccess {
				return a.lastAccess < b.lastAccess
			}
			return a.key < b.key
		}),
	}
}

// Key hashes source text into the cache's lookup key.
func Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Get returns the cached code for key, bumping its recency, or nil if
// absent.
func (c *Cache) Get(key string) []byte {
	e := c.entries.Get(key)
	if e == nil {
		return nil
	}
	c.touch(key, e.lastAccess)
	return e.code
}

// Compile returns the cached code for source, compiling it with fn and
// storing the result if absent. Concurrent callers racing on the same
// source share one call to fn.
func (c *Cache) Compile(source string, fn func() ([]byte, error)) ([]byte, error) {
	key := Key(source)
	if code := c.Get(key); code != nil {
		return code, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if code := c.Get(key); code != nil {
			return code, nil
		}
		code, err := fn()
		if err != nil {
			return nil, err
		}
		c.put(key, code)
		return code, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) put(key string, code []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock++
	now := c.clock
	c.entries.Set(&entry{key: key, code: code, lastAccess: now})
	c.byAccess.ReplaceOrInsert(accessRecord{lastAccess: now, key: key})
	c.evictLocked()
}

func (c *Cache) touch(key string, oldAccess int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clock++
	now := c.clock
	c.byAccess.Delete(accessRecord{lastAccess: oldAccess, key: key})
	c.byAccess.ReplaceOrInsert(accessRecord{lastAccess: now, key: key})
	if e := c.entries.Get(key); e != nil {
		c.entries.Set(&entry{key: key, code: e.code, lastAccess: now})
	}
}

// evictLocked removes least-recently-used entries until the cache is back
// within maxEntries. Caller must hold c.mu.
func (c *Cache) evictLocked() {
	for c.maxEntries > 0 && c.byAccess.Len() > c.maxEntries {
		oldest, ok := c.byAccess.Min()
		if !ok {
			return
		}
		c.byAccess.Delete(oldest)
		c.entries.Remove(oldest.key)
	}
}

// Len reports the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries.GetAll())
}
