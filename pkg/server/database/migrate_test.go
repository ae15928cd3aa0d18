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
	"fmt"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/driftnote/driftnote/pkg/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// reversedFS returns directory entries in reverse order
type reversedFS struct {
	fstest.MapFS
}

func (u reversedFS) ReadDir(name string) ([]fs.DirEntry, error) {
	entries, err := u.MapFS.ReadDir(name)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}
	return entries, nil
}

func openMemoryDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	return db
}

func countRows(t *testing.T, db *gorm.DB, table string) int64 {
	var count int64
	if err := db.Raw(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count).Error; err != nil {
		t.Fatalf("counting %s: %v", table, err)
	}

	return count
}

func TestParseMigrationFilename(t *testing.T) {
	testCases := []struct {
		name     string
		version  int
		expectOK bool
	}{
		{"001-init.sql", 1, true},
		{"042-add-index.sql", 42, true},
		{"1-init.sql", 0, false},
		{"001-.sql", 0, false},
		{"001init.sql", 0, false},
		{"abc-init.sql", 0, false},
		{"001-init.txt", 0, false},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			v, err := parseMigrationFilename(tc.name)

			assert.Equal(t, err == nil, tc.expectOK, "validity mismatch")
			assert.Equal(t, v, tc.version, "version mismatch")
		})
	}
}

func TestMigrateIdempotent(t *testing.T) {
	db := openMemoryDB(t)
	if err := db.Exec("CREATE TABLE counter (value INTEGER)").Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	fsys := fstest.MapFS{
		"001-insert-data.sql": &fstest.MapFile{Data: []byte("INSERT INTO counter (value) VALUES (100);")},
	}

	if err := migrate(db, fsys); err != nil {
		t.Fatalf("first migration failed: %v", err)
	}
	if err := migrate(db, fsys); err != nil {
		t.Fatalf("second migration failed: %v", err)
	}

	assert.Equal(t, countRows(t, db, "counter"), int64(1), "counter rows mismatch")
	assert.Equal(t, countRows(t, db, "schema_migrations"), int64(1), "schema_migrations rows mismatch")
}

func TestMigrateOrdering(t *testing.T) {
	db := openMemoryDB(t)
	if err := db.Exec("CREATE TABLE log (seq INTEGER PRIMARY KEY AUTOINCREMENT, value INTEGER)").Error; err != nil {
		t.Fatalf("failed to create table: %v", err)
	}

	fsys := reversedFS{fstest.MapFS{
		"001-first.sql":  &fstest.MapFile{Data: []byte("INSERT INTO log (value) VALUES (1);")},
		"002-second.sql": &fstest.MapFile{Data: []byte("INSERT INTO log (value) VALUES (2);")},
		"010-third.sql":  &fstest.MapFile{Data: []byte("INSERT INTO log (value) VALUES (10);")},
	}}

	if err := migrate(db, fsys); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	var values []int
	if err := db.Raw("SELECT value FROM log ORDER BY seq").Scan(&values).Error; err != nil {
		t.Fatalf("reading log: %v", err)
	}
	assert.DeepEqual(t, values, []int{1, 2, 10}, "order mismatch")
}

func TestMigrateErrors(t *testing.T) {
	testCases := []struct {
		name string
		fsys fs.FS
	}{
		{
			name: "duplicate version",
			fsys: fstest.MapFS{
				"001-a.sql": &fstest.MapFile{Data: []byte("SELECT 1;")},
				"001-b.sql": &fstest.MapFile{Data: []byte("SELECT 1;")},
			},
		},
		{
			name: "empty file",
			fsys: fstest.MapFS{
				"001-empty.sql": &fstest.MapFile{Data: []byte("  \n")},
			},
		},
		{
			name: "invalid sql",
			fsys: fstest.MapFS{
				"001-bad.sql": &fstest.MapFile{Data: []byte("NOT SQL AT ALL;")},
			},
		},
		{
			name: "invalid filename",
			fsys: fstest.MapFS{
				"init.sql": &fstest.MapFile{Data: []byte("SELECT 1;")},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			db := openMemoryDB(t)

			err := migrate(db, tc.fsys)
			assert.NotEqual(t, err, nil, "expected an error")
			assert.Equal(t, countRows(t, db, "schema_migrations"), int64(0), "no version should be recorded")
		})
	}
}

func TestMigrateEmbedded(t *testing.T) {
	db := openMemoryDB(t)
	InitSchema(db)

	if err := Migrate(db); err != nil {
		t.Fatalf("migration failed: %v", err)
	}

	var version int
	if err := db.Raw("SELECT MAX(version) FROM schema_migrations").Scan(&version).Error; err != nil {
		t.Fatalf("reading version: %v", err)
	}
	assert.Equal(t, version, 2, "version mismatch")
}
