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
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Reminder is a local-only reminder attached to a note
type Reminder struct {
	ID       string `json:"id"`
	Datetime string `json:"datetime"`
	Notified bool   `json:"notified"`
}

// Note represents a note
type Note struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Content    string          `json:"content"`
	FolderID   *string         `json:"folderId"`
	Tags       []string        `json:"tags"`
	Starred    bool            `json:"starred"`
	Pinned     bool            `json:"pinned"`
	Deleted    bool            `json:"deleted"`
	DeletedAt  *string         `json:"deletedAt"`
	Archived   bool            `json:"archived"`
	ArchivedAt *string         `json:"archivedAt"`
	NoteType   string          `json:"noteType"`
	NoteData   json.RawMessage `json:"noteData,omitempty"`
	Reminders  []Reminder      `json:"reminders,omitempty"`
	Order      *int64          `json:"order"`
	CreatedAt  string          `json:"createdAt"`
	UpdatedAt  string          `json:"updatedAt"`
	SyncStatus string          `json:"syncStatus"`

	// IsExternalUpdate marks a note delivered by the realtime subscription.
	// It is never persisted and is cleared by whoever consumes the note.
	IsExternalUpdate bool `json:"-"`
	// IsShared and SharePermission are set on notes owned by another user
	IsShared        bool   `json:"isShared,omitempty"`
	SharePermission string `json:"sharePermission,omitempty"`
}

// HasTag returns true if the note carries the given tag name. Tag names are
// compared case-sensitively.
func (n Note) HasTag(name string) bool {
	for _, t := range n.Tags {
		if t == name {
			return true
		}
	}

	return false
}

const noteColumns = `id, title, content, folder_id, tags, starred, pinned, deleted, deleted_at,
archived, archived_at, note_type, note_data, reminders, sort_order, created_at, updated_at, sync_status`

type scanner interface {
	Scan(dest ...interface{}) error
}

func nullStringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}

	v := s.String
	return &v
}

func marshalList(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	if string(b) == "null" {
		return "[]", nil
	}

	return string(b), nil
}

func nullRaw(raw json.RawMessage) interface{} {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	return string(raw)
}

func scanNote(s scanner) (Note, error) {
	var n Note
	var folderID, deletedAt, archivedAt, noteData sql.NullString
	var order sql.NullInt64
	var tags, reminders string

	if err := s.Scan(&n.ID, &n.Title, &n.Content, &folderID, &tags, &n.Starred, &n.Pinned,
		&n.Deleted, &deletedAt, &n.Archived, &archivedAt, &n.NoteType, &noteData, &reminders,
		&order, &n.CreatedAt, &n.UpdatedAt, &n.SyncStatus); err != nil {
		return n, err
	}

	n.FolderID = nullStringPtr(folderID)
	n.DeletedAt = nullStringPtr(deletedAt)
	n.ArchivedAt = nullStringPtr(archivedAt)
	if noteData.Valid {
		n.NoteData = json.RawMessage(noteData.String)
	}
	if order.Valid {
		v := order.Int64
		n.Order = &v
	}

	if err := json.Unmarshal([]byte(tags), &n.Tags); err != nil {
		return n, errors.Wrapf(err, "decoding tags of note %s", n.ID)
	}
	if len(n.Tags) == 0 {
		n.Tags = nil
	}
	if err := json.Unmarshal([]byte(reminders), &n.Reminders); err != nil {
		return n, errors.Wrapf(err, "decoding reminders of note %s", n.ID)
	}
	if len(n.Reminders) == 0 {
		n.Reminders = nil
	}

	return n, nil
}

func noteValues(n Note) ([]interface{}, error) {
	tags, err := marshalList(n.Tags)
	if err != nil {
		return nil, errors.Wrap(err, "encoding tags")
	}
	reminders, err := marshalList(n.Reminders)
	if err != nil {
		return nil, errors.Wrap(err, "encoding reminders")
	}

	noteType := n.NoteType
	if noteType == "" {
		noteType = DefaultNoteType
	}

	return []interface{}{n.Title, n.Content, n.FolderID, tags, n.Starred, n.Pinned, n.Deleted,
		n.DeletedAt, n.Archived, n.ArchivedAt, noteType, nullRaw(n.NoteData), reminders, n.Order,
		n.CreatedAt, n.UpdatedAt, n.SyncStatus}, nil
}

func writeNoteTags(db *DB, noteID string, tags []string) error {
	if _, err := db.Exec("DELETE FROM note_tags WHERE note_id = ?", noteID); err != nil {
		return errors.Wrapf(err, "clearing tags of note %s", noteID)
	}

	for i, name := range tags {
		if _, err := db.Exec("INSERT INTO note_tags (note_id, tag_name, position) VALUES (?, ?, ?)", noteID, name, i); err != nil {
			return errors.Wrapf(err, "linking tag %s to note %s", name, noteID)
		}
	}

	return nil
}

// Insert inserts a new note
func (n Note) Insert(db *DB) error {
	vals, err := noteValues(n)
	if err != nil {
		return errors.Wrapf(err, "preparing note %s", n.ID)
	}

	args := append([]interface{}{n.ID}, vals...)
	if _, err := db.Exec(`INSERT INTO notes (`+noteColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, args...); err != nil {
		return errors.Wrapf(err, "inserting note with id %s", n.ID)
	}

	return writeNoteTags(db, n.ID, n.Tags)
}

// Update updates the note with the given data
func (n Note) Update(db *DB) error {
	vals, err := noteValues(n)
	if err != nil {
		return errors.Wrapf(err, "preparing note %s", n.ID)
	}

	args := append(vals, n.ID)
	if _, err := db.Exec(`UPDATE notes SET title = ?, content = ?, folder_id = ?, tags = ?,
		starred = ?, pinned = ?, deleted = ?, deleted_at = ?, archived = ?, archived_at = ?,
		note_type = ?, note_data = ?, reminders = ?, sort_order = ?, created_at = ?, updated_at = ?,
		sync_status = ? WHERE id = ?`, args...); err != nil {
		return errors.Wrapf(err, "updating the note with id %s", n.ID)
	}

	return writeNoteTags(db, n.ID, n.Tags)
}

// Expunge hard-deletes the note along with its tag links and history
func (n Note) Expunge(db *DB) error {
	if _, err := db.Exec("DELETE FROM notes WHERE id = ?", n.ID); err != nil {
		return errors.Wrap(err, "expunging a note locally")
	}
	if _, err := db.Exec("DELETE FROM note_tags WHERE note_id = ?", n.ID); err != nil {
		return errors.Wrap(err, "expunging note tags")
	}
	if _, err := db.Exec("DELETE FROM note_versions WHERE note_id = ?", n.ID); err != nil {
		return errors.Wrap(err, "expunging note versions")
	}

	return nil
}

// MarkNoteSynced marks the note synced unless it was modified after the
// given updatedAt was read. It returns true if the status changed.
func MarkNoteSynced(db *DB, id, updatedAt string) (bool, error) {
	res, err := db.Exec("UPDATE notes SET sync_status = ? WHERE id = ? AND updated_at = ?", StatusSynced, id, updatedAt)
	if err != nil {
		return false, errors.Wrapf(err, "marking note %s synced", id)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "counting affected rows")
	}

	return n > 0, nil
}

// OverwriteNote replaces the stored note with n unless the stored copy
// changed since it was read with the given updatedAt, or has local edits
// pending upload. It returns true if the note was written.
func OverwriteNote(db *DB, n Note, updatedAt string) (bool, error) {
	vals, err := noteValues(n)
	if err != nil {
		return false, errors.Wrapf(err, "preparing note %s", n.ID)
	}

	args := append(vals, n.ID, updatedAt, StatusPending)
	res, err := db.Exec(`UPDATE notes SET title = ?, content = ?, folder_id = ?, tags = ?,
		starred = ?, pinned = ?, deleted = ?, deleted_at = ?, archived = ?, archived_at = ?,
		note_type = ?, note_data = ?, reminders = ?, sort_order = ?, created_at = ?, updated_at = ?,
		sync_status = ? WHERE id = ? AND updated_at = ? AND sync_status != ?`, args...)
	if err != nil {
		return false, errors.Wrapf(err, "overwriting the note with id %s", n.ID)
	}

	count, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "counting affected rows")
	}
	if count == 0 {
		return false, nil
	}

	return true, writeNoteTags(db, n.ID, n.Tags)
}

func queryNotes(db *DB, where string, args ...interface{}) ([]Note, error) {
	rows, err := db.Query("SELECT "+noteColumns+" FROM notes "+where, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying notes")
	}
	defer rows.Close()

	ret := []Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning note")
		}
		ret = append(ret, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterating notes")
	}

	return ret, nil
}

// GetNote returns the note with the given id
func GetNote(db *DB, id string) (Note, error) {
	n, err := scanNote(db.QueryRow("SELECT "+noteColumns+" FROM notes WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return n, ErrNotFound
	} else if err != nil {
		return n, errors.Wrapf(err, "finding note %s", id)
	}

	return n, nil
}

// GetNotes returns every note including tombstones
func GetNotes(db *DB) ([]Note, error) {
	return queryNotes(db, "ORDER BY pinned DESC, sort_order IS NULL, sort_order, updated_at DESC")
}

// GetNotesByStatus returns the notes in the given sync status
func GetNotesByStatus(db *DB, status string) ([]Note, error) {
	return queryNotes(db, "WHERE sync_status = ? ORDER BY created_at", status)
}

// GetNotesByFolder returns the notes in the given folder
func GetNotesByFolder(db *DB, folderID string) ([]Note, error) {
	return queryNotes(db, "WHERE folder_id = ? ORDER BY created_at", folderID)
}

// GetNotesByTag returns the notes carrying the given tag name
func GetNotesByTag(db *DB, name string) ([]Note, error) {
	return queryNotes(db, "WHERE id IN (SELECT note_id FROM note_tags WHERE tag_name = ?) ORDER BY created_at", name)
}

// GetTombstonesBefore returns the tombstoned notes deleted before the given timestamp
func GetTombstonesBefore(db *DB, cutoff string) ([]Note, error) {
	return queryNotes(db, "WHERE deleted = true AND deleted_at IS NOT NULL AND deleted_at < ? ORDER BY deleted_at", cutoff)
}

// CountNotesByStatus counts the notes in the given sync status
func CountNotesByStatus(db *DB, status string) (int, error) {
	var count int
	if err := db.QueryRow("SELECT count(*) FROM notes WHERE sync_status = ?", status).Scan(&count); err != nil {
		return 0, errors.Wrap(err, "counting notes")
	}

	return count, nil
}

// ReplaceTag returns a copy of the tag list with every occurrence of from
// replaced by to
func ReplaceTag(tags []string, from, to string) []string {
	var ret []string
	for _, t := range tags {
		if t == from {
			ret = append(ret, to)
		} else {
			ret = append(ret, t)
		}
	}

	return ret
}

// RemoveTag returns the tag list without the given name
func RemoveTag(tags []string, name string) []string {
	var ret []string
	for _, t := range tags {
		if t != name {
			ret = append(ret, t)
		}
	}

	return ret
}

// NormalizeTags trims blank names and drops exact duplicates while keeping order
func NormalizeTags(tags []string) []string {
	var ret []string
	seen := map[string]bool{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		ret = append(ret, t)
	}

	return ret
}

// NotePatch is a partial update of a note's editable content. Nil fields
// are left unchanged.
type NotePatch struct {
	Title    *string
	Content  *string
	NoteType *string
	NoteData json.RawMessage
}

// Empty returns true if the patch changes nothing
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Content == nil && p.NoteType == nil && p.NoteData == nil
}

// Apply applies the patch to the note and returns true if the title or
// content changed
func (p NotePatch) Apply(n *Note) bool {
	changed := false
	if p.Title != nil && *p.Title != n.Title {
		n.Title = *p.Title
		changed = true
	}
	if p.Content != nil && *p.Content != n.Content {
		n.Content = *p.Content
		changed = true
	}
	if p.NoteType != nil {
		n.NoteType = *p.NoteType
	}
	if p.NoteData != nil {
		n.NoteData = p.NoteData
	}

	return changed
}
