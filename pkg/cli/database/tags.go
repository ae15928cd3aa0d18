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

	"github.com/pkg/errors"
)

// Tag represents a tag. Notes reference tags by name.
type Tag struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Color      string `json:"color"`
	CreatedAt  string `json:"createdAt"`
	SyncStatus string `json:"syncStatus"`
}

const tagColumns = "id, name, color, created_at, sync_status"

func scanTag(s scanner) (Tag, error) {
	var t Tag
	err := s.Scan(&t.ID, &t.Name, &t.Color, &t.CreatedAt, &t.SyncStatus)

	return t, err
}

// Insert inserts a new tag
func (t Tag) Insert(db *DB) error {
	_, err := db.Exec("INSERT INTO tags ("+tagColumns+") VALUES (?, ?, ?, ?, ?)",
		t.ID, t.Name, t.Color, t.CreatedAt, t.SyncStatus)
	if err != nil {
		return errors.Wrapf(err, "inserting tag with id %s", t.ID)
	}

	return nil
}

// Update updates the tag with the given data
func (t Tag) Update(db *DB) error {
	_, err := db.Exec("UPDATE tags SET name = ?, color = ?, created_at = ?, sync_status = ? WHERE id = ?",
		t.Name, t.Color, t.CreatedAt, t.SyncStatus, t.ID)
	if err != nil {
		return errors.Wrapf(err, "updating the tag with id %s", t.ID)
	}

	return nil
}

// Expunge hard-deletes the tag
func (t Tag) Expunge(db *DB) error {
	if _, err := db.Exec("DELETE FROM tags WHERE id = ?", t.ID); err != nil {
		return errors.Wrapf(err, "expunging tag %s", t.ID)
	}

	return nil
}

// GetTag returns the tag with the given id
// MarkTagSynced marks the tag synced if its name and color still match what
// was uploaded. Tags carry no modification time.
func MarkTagSynced(db *DB, t Tag) (bool, error) {
	res, err := db.Exec("UPDATE tags SET sync_status = ? WHERE id = ? AND name = ? AND color = ?", StatusSynced, t.ID, t.Name, t.Color)
	if err != nil {
		return false, errors.Wrapf(err, "marking tag %s synced", t.ID)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "counting affected rows")
	}

	return n > 0, nil
}

func GetTag(db *DB, id string) (Tag, error) {
	t, err := scanTag(db.QueryRow("SELECT "+tagColumns+" FROM tags WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	} else if err != nil {
		return t, errors.Wrapf(err, "finding tag %s", id)
	}

	return t, nil
}

// GetTagByName returns the tag with the given name. Names are case-sensitive.
func GetTagByName(db *DB, name string) (Tag, error) {
	t, err := scanTag(db.QueryRow("SELECT "+tagColumns+" FROM tags WHERE name = ? ORDER BY created_at LIMIT 1", name))
	if err == sql.ErrNoRows {
		return t, ErrNotFound
	} else if err != nil {
		return t, errors.Wrapf(err, "finding tag %s", name)
	}

	return t, nil
}

// GetTags returns every tag ordered by name
func GetTags(db *DB) ([]Tag, error) {
	rows, err := db.Query("SELECT " + tagColumns + " FROM tags ORDER BY name, created_at")
	if err != nil {
		return nil, errors.Wrap(err, "querying tags")
	}
	defer rows.Close()

	ret := []Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning tag")
		}
		ret = append(ret, t)
	}

	return ret, rows.Err()
}
