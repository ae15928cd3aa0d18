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

// Package database defines the server models and opens their storage
package database

import (
	"os"
	"path/filepath"

	"github.com/driftnote/driftnote/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitSchema migrates database schema to reflect the latest model definition
func InitSchema(db *gorm.DB) {
	if err := db.AutoMigrate(
		&User{},
		&Note{},
		&Folder{},
		&Tag{},
		&NoteShare{},
		&AcceptedShare{},
	); err != nil {
		panic(err)
	}
}

// getDBLogLevel maps the server log level to the gorm logger level
func getDBLogLevel(level string) logger.LogLevel {
	switch level {
	case log.LevelDebug:
		return logger.Info
	case log.LevelWarn:
		return logger.Warn
	case log.LevelError:
		return logger.Error
	default:
		return logger.Silent
	}
}

func gormConfig(logLevel string) *gorm.Config {
	return &gorm.Config{
		Logger: logger.Default.LogMode(getDBLogLevel(logLevel)),
	}
}

// Open initializes a sqlite database connection at the given path
func Open(dbPath, logLevel string) *gorm.DB {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(errors.Wrapf(err, "creating database directory at %s", dir))
	}

	db, err := gorm.Open(sqlite.Open(dbPath), gormConfig(logLevel))
	if err != nil {
		panic(errors.Wrap(err, "opening database conection"))
	}

	return db
}

// OpenPostgres initializes a postgres database connection with the given DSN
func OpenPostgres(dsn, logLevel string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), gormConfig(logLevel))
	if err != nil {
		panic(errors.Wrap(err, "opening postgres conection"))
	}

	return db
}

// Connect opens postgres if a database url is given and the sqlite file at
// dbPath otherwise, and brings the schema up to date
func Connect(dbPath, databaseURL, logLevel string) *gorm.DB {
	var db *gorm.DB
	if databaseURL != "" {
		db = OpenPostgres(databaseURL, logLevel)
	} else {
		db = Open(dbPath, logLevel)
	}

	InitSchema(db)
	if err := Migrate(db); err != nil {
		panic(errors.Wrap(err, "running migrations"))
	}

	return db
}

// Close closes the underlying connection pool
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.ErrorWrap(err, "getting the connection pool")
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.ErrorWrap(err, "closing the database")
	}
}

// Ping checks that the database is reachable
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "getting the connection pool")
	}

	if err := sqlDB.Ping(); err != nil {
		return errors.Wrap(err, "pinging")
	}

	return nil
}
