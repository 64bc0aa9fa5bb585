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
	"fmt"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLFactory opens one MySQLEngine per namespace, each writing to its
// own "<namespace>_runs" table on a shared connection DSN.
type MySQLFactory struct {
	DSN string // e.g. "user:pass@tcp(127.0.0.1:3306)/bfjit"
}

func (f *MySQLFactory) Open(namespace string) (Engine, error) {
	table := fmt.Sprintf("%s_runs", sanitizeIdent(namespace))
	e, err := openSQLEngine("mysql", f.DSN, table, func(n int) string { return "?" })
	if err != nil {
		return nil, err
	}
	return &MySQLEngine{e}, nil
}

// MySQLEngine is an Engine backed by database/sql + go-sql-driver/mysql.
type MySQLEngine struct {
	*sqlEngine
}
