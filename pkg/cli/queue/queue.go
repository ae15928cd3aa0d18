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

// Package queue implements the durable operation queue that records local
// deletions until the remote acknowledges them.
package queue

import (
	"encoding/json"

	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/driftnote/driftnote/pkg/clock"
	"github.com/pkg/errors"
)

const (
	// OpInsert records a newly created entity
	OpInsert = "insert"
	// OpUpdate records a modified entity
	OpUpdate = "update"
	// OpDelete records a deleted entity. Delete entries survive until the
	// remote confirms the deletion.
	OpDelete = "delete"
)

// DeleteRetryBackoff is the delay applied before a failed delete is retried.
// Failed deletes are retried on the next reconciliation cycle.
const DeleteRetryBackoff = 0

// Entry is a queued operation
type Entry struct {
	ID         int64
	Collection string
	Operation  string
	Payload    json.RawMessage
	Timestamp  string
}

// IDPayload is the payload of a delete entry
type IDPayload struct {
	ID string `json:"id"`
}

// EntityID returns the id carried by the payload, if any
func (e Entry) EntityID() string {
	var p IDPayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return ""
	}

	return p.ID
}

// Queue appends to and drains the operation queue
type Queue struct {
	clock clock.Clock
}

// New returns a new queue
func New(c clock.Clock) *Queue {
	return &Queue{clock: c}
}

// Enqueue durably appends an operation. When db wraps a transaction the
// entry is written inside it.
func (q *Queue) Enqueue(db *database.DB, collection, operation string, payload interface{}) (int64, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return 0, errors.Wrap(err, "encoding the payload")
	}

	ts := utils.FormatTime(q.clock.Now())
	res, err := db.Exec("INSERT INTO op_queue (collection, operation, payload, timestamp) VALUES (?, ?, ?, ?)",
		collection, operation, string(b), ts)
	if err != nil {
		return 0, errors.Wrapf(err, "enqueueing %s on %s", operation, collection)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "getting the entry id")
	}

	return id, nil
}

// EnqueueDelete appends a delete entry for the entity with the given id
func (q *Queue) EnqueueDelete(db *database.DB, collection, id string) (int64, error) {
	return q.Enqueue(db, collection, OpDelete, IDPayload{ID: id})
}

func scanEntries(db *database.DB, query string, args ...interface{}) ([]Entry, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying the queue")
	}
	defer rows.Close()

	var ret []Entry
	for rows.Next() {
		var e Entry
		var payload string
		if err := rows.Scan(&e.ID, &e.Collection, &e.Operation, &payload, &e.Timestamp); err != nil {
			return nil, errors.Wrap(err, "scanning an entry")
		}
		e.Payload = json.RawMessage(payload)

		ret = append(ret, e)
	}

	return ret, rows.Err()
}

// Drain returns every queued entry in insertion order without removing them
func (q *Queue) Drain(db *database.DB) ([]Entry, error) {
	return scanEntries(db, "SELECT id, collection, operation, payload, timestamp FROM op_queue ORDER BY id")
}

// Deletes returns the queued delete entries for the collection in insertion order
func (q *Queue) Deletes(db *database.DB, collection string) ([]Entry, error) {
	return scanEntries(db, "SELECT id, collection, operation, payload, timestamp FROM op_queue WHERE collection = ? AND operation = ? ORDER BY id",
		collection, OpDelete)
}

// Remove deletes the entry with the given id
func (q *Queue) Remove(db *database.DB, id int64) error {
	if _, err := db.Exec("DELETE FROM op_queue WHERE id = ?", id); err != nil {
		return errors.Wrapf(err, "removing queue entry %d", id)
	}

	return nil
}

// SweepNonDeletes removes every entry that is not a delete and returns the
// number of entries removed
func (q *Queue) SweepNonDeletes(db *database.DB) (int64, error) {
	res, err := db.Exec("DELETE FROM op_queue WHERE operation != ?", OpDelete)
	if err != nil {
		return 0, errors.Wrap(err, "sweeping the queue")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "counting swept entries")
	}

	return n, nil
}

// Depth returns the number of queued entries
func (q *Queue) Depth(db *database.DB) (int, error) {
	var n int
	if err := db.QueryRow("SELECT count(*) FROM op_queue").Scan(&n); err != nil {
		return 0, errors.Wrap(err, "counting queue entries")
	}

	return n, nil
}
