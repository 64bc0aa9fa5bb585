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

// Package store records one ledger entry per execution run (source hash,
// mode, duration, exit status, truncated output) through a pluggable
// Engine, mirroring the shape of a database persistence layer
// scaled down to a single append-mostly log.
package store

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Mode names the execution backend that produced a RunRecord.
type Mode string

const (
	ModeInterpret Mode = "interpret"
	ModeJIT       Mode = "jit"
)

// Status summarizes how a run ended.
type Status string

const (
	StatusOK           Status = "ok"
	StatusParseError   Status = "parse_error"
	StatusRuntimeError Status = "runtime_error"
	StatusLoaderError  Status = "loader_error"
)

// RunRecord is one ledger entry for a single execution call.
type RunRecord struct {
	ID         string        `json:"id"`
	SourceHash string        `json:"source_hash"`
	Mode       Mode          `json:"mode"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration_ns"`
	Status     Status        `json:"status"`
	Output     []byte        `json:"output,omitempty"`     // truncated to a caller-chosen cap
	IRDump     []byte        `json:"ir_dump,omitempty"`    // compressed per Compression
	Compressed Compression   `json:"compressed,omitempty"`
}

// Engine persists and retrieves RunRecords. Implementations need not
// support both directions equally well: a write-mostly log may implement
// ReadRuns as a best-effort tail read.
type Engine interface {
	WriteRun(rec RunRecord) error
	ReadRuns(limit int) ([]RunRecord, error)
	Close() error
}

// Factory builds an Engine bound to one schema/namespace, mirroring the
// teacher's database-per-schema PersistenceFactory shape.
type Factory interface {
	Open(namespace string) (Engine, error)
}

var runIDCounter uint64 = uint64(time.Now().UnixNano())

// NewRunID returns a correlation ID for one run. It is low-entropy by
// design: run IDs only need to be unique within one process's lifetime for
// log correlation, not cryptographically unguessable.
func NewRunID() string {
	ctr := atomic.AddUint64(&runIDCounter, 1)
	now := uint64(time.Now().UnixNano())
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], ctr)
	binary.LittleEndian.PutUint64(b[8:16], ctr^now^(now<<17))
	b[6] = (b[6] & 0x0f) | 0x40 // RFC4122 version 4
	b[8] = (b[8] & 0x3f) | 0x80 // RFC4122 variant
	return uuid.UUID(b).String()
}
