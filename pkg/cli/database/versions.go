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
	"github.com/pkg/errors"
)

// MaxNoteVersions is the number of history entries kept per note
const MaxNoteVersions = 30

// NoteVersion is a snapshot of a note's title and content
type NoteVersion struct {
	ID        string `json:"id"`
	NoteID    string `json:"noteId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// Insert records the version and evicts the oldest versions of the note
// beyond MaxNoteVersions
func (v NoteVersion) Insert(db *DB) error {
	if _, err := db.Exec("INSERT INTO note_versions (id, note_id, title, content, created_at) VALUES (?, ?, ?, ?, ?)",
		v.ID, v.NoteID, v.Title, v.Content, v.CreatedAt); err != nil {
		return errors.Wrapf(err, "inserting version of note %s", v.NoteID)
	}

	if _, err := db.Exec(`DELETE FROM note_versions WHERE note_id = ? AND id NOT IN (
		SELECT id FROM note_versions WHERE note_id = ? ORDER BY created_at DESC, rowid DESC LIMIT ?)`,
		v.NoteID, v.NoteID, MaxNoteVersions); err != nil {
		return errors.Wrapf(err, "evicting versions of note %s", v.NoteID)
	}

	return nil
}

// GetNoteVersions returns the versions of the note, newest first
func GetNoteVersions(db *DB, noteID string) ([]NoteVersion, error) {
	rows, err := db.Query(`SELECT id, note_id, title, content, created_at FROM note_versions
		WHERE note_id = ? ORDER BY created_at DESC, rowid DESC`, noteID)
	if err != nil {
		return nil, errors.Wrap(err, "querying note versions")
	}
	defer rows.Close()

	var ret []NoteVersion
	for rows.Next() {
		var v NoteVersion
		if err := rows.Scan(&v.ID, &v.NoteID, &v.Title, &v.Content, &v.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning note version")
		}
		ret = append(ret, v)
	}

	return ret, rows.Err()
}
