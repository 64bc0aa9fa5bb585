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
	"bufio"
	"encoding/json"
	"os"
	"sync"
)

// FileFactory opens one JSON Lines ledger file per namespace under
// Basepath, in the same spirit as the teacher's file-per-schema
// persistence layout.
type FileFactory struct {
	Basepath string
}

func (f *FileFactory) Open(namespace string) (Engine, error) {
	if err := os.MkdirAll(f.Basepath, 0750); err != nil {
		return nil, err
	}
	path := f.Basepath + "/" + namespace + ".jsonl"
	fh, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0640)
	if err != nil {
		return nil, err
	}
	return &FileEngine{file: fh}, nil
}

// FileEngine appends one JSON object per line to a local file. Reads
// rescan the file from the start; this is adequate for a development
// ledger, not a high-throughput store.
type FileEngine struct {
	mu   sync.Mutex
	file *os.File
}

func (e *FileEngine) WriteRun(rec RunRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.file.Write(append(b, '\n')); err != nil {
		return err
	}
	return e.file.Sync()
}

func (e *FileEngine) ReadRuns(limit int) ([]RunRecord, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, err := e.file.Seek(0, 0); err != nil {
		return nil, err
	}
	var all []RunRecord
	scanner := bufio.NewScanner(e.file)
	scanner.Buffer(make([]byte, 0, 64*1024), 8*1024*1024)
	for scanner.Scan() {
		var rec RunRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue
		}
		all = append(all, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (e *FileEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.file.Close()
}
