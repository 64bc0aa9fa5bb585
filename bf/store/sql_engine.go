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
	"database/sql"
	"fmt"
)

// sqlEngine is the shared database/sql-backed ledger used by both
// MySQLEngine and PostgresEngine; only the driver name, DSN and
// placeholder style differ between them.
type sqlEngine struct {
	db        *sql.DB
	table     string
	placehold func(n int) string // returns the n-th bind placeholder ("?" or "$n")
}

func openSQLEngine(driverName, dsn, table string, placehold func(int) string) (*sqlEngine, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	e := &sqlEngine{db: db, table: table, placehold: placehold}
	if err := e.ensureTable(); err != nil {
		db.Close()
		return nil, err
	}
	return e, nil
}

func (e *sqlEngine) ensureTable() error {
	_, err := e.db.Exec(fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		id VARCHAR(36) PRIMARY KEY,
		source_hash VARCHAR(64) NOT NULL,
		mode VARCHAR(16) NOT NULL,
		started_at BIGINT NOT NULL,
		duration_ns BIGINT NOT NULL,
		status VARCHAR(32) NOT NULL,
		output BLOB,
		ir_dump BLOB,
		compressed VARCHAR(8)
	)`, e.table))
	return err
}

func (e *sqlEngine) WriteRun(rec RunRecord) error {
	q := fmt.Sprintf(
		"INSERT INTO %s (id, source_hash, mode, started_at, duration_ns, status, output, ir_dump, compressed) VALUES (%s, %s, %s, %s, %s, %s, %s, %s, %s)",
		e.table,
		e.placehold(1), e.placehold(2), e.placehold(3), e.placehold(4),
		e.placehold(5), e.placehold(6), e.placehold(7), e.placehold(8), e.placehold(9),
	)
	_, err := e.db.Exec(q,
		rec.ID, rec.SourceHash, string(rec.Mode), rec.StartedAt.UnixNano(), rec.Duration.Nanoseconds(),
		string(rec.Status), rec.Output, rec.IRDump, string(rec.Compressed),
	)
	return err
}

func (e *sqlEngine) ReadRuns(limit int) ([]RunRecord, error) {
	q := fmt.Sprintf("SELECT id, source_hash, mode, started_at, duration_ns, status, output, ir_dump, compressed FROM %s ORDER BY started_at DESC", e.table)
	if limit > 0 {
		q += fmt.Sprintf(" LIMIT %d", limit)
	}
	rows, err := e.db.Query(q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []RunRecord
	for rows.Next() {
		var rec RunRecord
		var startedAt, durationNs int64
		var mode, status, compressed string
		if err := rows.Scan(&rec.ID, &rec.SourceHash, &mode, &startedAt, &durationNs, &status, &rec.Output, &rec.IRDump, &compressed); err != nil {
			return nil, err
		}
		rec.Mode = Mode(mode)
		rec.Status = Status(status)
		rec.Compressed = Compression(compressed)
		rec.Duration = durationNsToDuration(durationNs)
		rec.StartedAt = unixNanoToTime(startedAt)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (e *sqlEngine) Close() error {
	return e.db.Close()
}
