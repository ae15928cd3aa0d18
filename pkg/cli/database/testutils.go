/* Copyright (C) 2024, 2025 Driftnote contributors
 *
 * This file is part of Driftnote.
 *
 * Driftnote is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * Driftnote is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with Driftnote.  If not, see <https://www.gnu.org/licenses/>.
 */

package database

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// MustScan scans the given row and fails a test in case of any errors
func MustScan(t *testing.T, message string, row *sql.Row, args ...interface{}) {
	err := row.Scan(args...)
	if err != nil {
		t.Fatal(errors.Wrap(errors.Wrap(err, "scanning a row"), message))
	}
}

// MustExec executes the given SQL query and fails a test if an error occurs
func MustExec(t *testing.T, message string, db *DB, query string, args ...interface{}) sql.Result {
	result, err := db.Exec(query, args...)
	if err != nil {
		t.Fatal(errors.Wrap(errors.Wrap(err, "executing sql"), message))
	}

	return result
}

// InitTestMemoryDB initializes an in-memory test database with every migration applied
func InitTestMemoryDB(t *testing.T) *DB {
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := Open(dbName)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening in-memory database"))
	}
	// shared-cache memory databases report table locks instead of waiting
	db.Conn.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	if _, err := Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "migrating test database"))
	}

	return db
}

// InitTestFileDB initializes a file-based test database with every migration applied
func InitTestFileDB(t *testing.T) (*DB, string) {
	dbPath := filepath.Join(t.TempDir(), fmt.Sprintf("driftnote-%s.db", uuid.NewString()))

	db, err := Open(dbPath)
	if err != nil {
		t.Fatal(errors.Wrap(err, "opening database"))
	}
	t.Cleanup(func() { db.Close() })

	if _, err := Migrate(db); err != nil {
		t.Fatal(errors.Wrap(err, "migrating test database"))
	}

	return db, dbPath
}
