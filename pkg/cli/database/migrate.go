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
	"embed"

	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrationTableName is the name of the table that keeps track of applied migrations
const MigrationTableName = "schema_migrations"

func migrationSource() *migrate.EmbedFileSystemMigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

// Migrate applies every pending schema migration and returns the number applied
func Migrate(db *DB) (int, error) {
	ms := migrate.MigrationSet{TableName: MigrationTableName}

	n, err := ms.Exec(db.Conn, "sqlite3", migrationSource(), migrate.Up)
	if err != nil {
		return n, errors.Wrap(err, "running migrations")
	}

	return n, nil
}

// PendingMigrations returns the number of migrations not yet applied
func PendingMigrations(db *DB) (int, error) {
	ms := migrate.MigrationSet{TableName: MigrationTableName}

	planned, _, err := ms.PlanMigration(db.Conn, "sqlite3", migrationSource(), migrate.Up, 0)
	if err != nil {
		return 0, errors.Wrap(err, "planning migrations")
	}

	return len(planned), nil
}
