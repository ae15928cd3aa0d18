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

// Package database implements the local store: durable per-device storage
// of notes, folders, tags, note history, shares and the operation queue.
package database

import (
	"database/sql"

	// sqlite driver
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// ErrNotFound is returned when a record does not exist in the local store
var ErrNotFound = errors.New("not found")

// DB contains information about the current database connection. When Tx is
// set, every statement runs inside that transaction.
type DB struct {
	Conn *sql.DB
	Tx   *sql.Tx
}

// Open initializes a new connection to the sqlite database at the given path
func Open(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "opening db connection")
	}

	if _, err := conn.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "setting busy timeout")
	}

	return New(conn), nil
}

// New wraps an existing connection
func New(conn *sql.DB) *DB {
	return &DB{Conn: conn}
}

// Begin begins a transaction
func (d *DB) Begin() (*DB, error) {
	if d.Tx != nil {
		return nil, errors.New("transaction already in progress")
	}

	tx, err := d.Conn.Begin()
	if err != nil {
		return nil, err
	}

	return &DB{Conn: d.Conn, Tx: tx}, nil
}

// Commit commits a transaction
func (d *DB) Commit() error {
	if d.Tx == nil {
		return errors.New("no transaction in progress")
	}

	return d.Tx.Commit()
}

// Rollback rolls back a transaction
func (d *DB) Rollback() error {
	if d.Tx == nil {
		return errors.New("no transaction in progress")
	}

	return d.Tx.Rollback()
}

// Exec executes a sql
func (d *DB) Exec(query string, values ...interface{}) (sql.Result, error) {
	if d.Tx != nil {
		return d.Tx.Exec(query, values...)
	}

	return d.Conn.Exec(query, values...)
}

// Query queries rows
func (d *DB) Query(query string, values ...interface{}) (*sql.Rows, error) {
	if d.Tx != nil {
		return d.Tx.Query(query, values...)
	}

	return d.Conn.Query(query, values...)
}

// QueryRow queries a row
func (d *DB) QueryRow(query string, values ...interface{}) *sql.Row {
	if d.Tx != nil {
		return d.Tx.QueryRow(query, values...)
	}

	return d.Conn.QueryRow(query, values...)
}

// Close closes a db connection
func (d *DB) Close() error {
	return d.Conn.Close()
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on error. If d is already a transaction, fn runs inside it.
func WithTx(d *DB, fn func(tx *DB) error) error {
	if d.Tx != nil {
		return fn(d)
	}

	tx, err := d.Begin()
	if err != nil {
		return errors.Wrap(err, "beginning a transaction")
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "committing a transaction")
	}

	return nil
}
