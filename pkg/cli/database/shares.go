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

	"github.com/pkg/errors"
)

const (
	// PermissionView grants read access to a shared note
	PermissionView = "view"
	// PermissionEdit grants read and write access to a shared note
	PermissionEdit = "edit"

	// ShareStatusPending is an invitation not yet answered
	ShareStatusPending = "pending"
	// ShareStatusAccepted is an accepted invitation
	ShareStatusAccepted = "accepted"
	// ShareStatusDeclined is a declined invitation
	ShareStatusDeclined = "declined"
)

// SharedNote is a note owned by another user and shared with the current one
type SharedNote struct {
	ShareID    string
	OwnerID    string
	Permission string
	Note       Note
}

// ShareInvite is a pending, accepted or declined share invitation
type ShareInvite struct {
	ID           string `json:"id"`
	NoteID       string `json:"noteId"`
	InviterID    string `json:"inviterId"`
	InviteeEmail string `json:"inviteeEmail"`
	Permission   string `json:"permission"`
	Status       string `json:"status"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// ReplaceSharedNotes replaces the cached shared notes with the given set
func ReplaceSharedNotes(db *DB, notes []SharedNote) error {
	return WithTx(db, func(tx *DB) error {
		if _, err := tx.Exec("DELETE FROM shared_notes"); err != nil {
			return errors.Wrap(err, "clearing shared notes")
		}

		for _, sn := range notes {
			if err := UpsertSharedNote(tx, sn); err != nil {
				return err
			}
		}

		return nil
	})
}

// UpsertSharedNote inserts or replaces one cached shared note
func UpsertSharedNote(db *DB, sn SharedNote) error {
	payload, err := json.Marshal(sn.Note)
	if err != nil {
		return errors.Wrapf(err, "encoding shared note %s", sn.Note.ID)
	}

	if _, err := db.Exec(`INSERT INTO shared_notes (id, share_id, owner_id, permission, payload) VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET share_id = excluded.share_id, owner_id = excluded.owner_id,
		permission = excluded.permission, payload = excluded.payload`,
		sn.Note.ID, sn.ShareID, sn.OwnerID, sn.Permission, string(payload)); err != nil {
		return errors.Wrapf(err, "saving shared note %s", sn.Note.ID)
	}

	return nil
}

func scanSharedNote(s scanner) (SharedNote, error) {
	var sn SharedNote
	var payload string

	if err := s.Scan(&sn.ShareID, &sn.OwnerID, &sn.Permission, &payload); err != nil {
		return sn, err
	}
	if err := json.Unmarshal([]byte(payload), &sn.Note); err != nil {
		return sn, errors.Wrap(err, "decoding shared note")
	}
	sn.Note.IsShared = true
	sn.Note.SharePermission = sn.Permission

	return sn, nil
}

// GetSharedNote returns the cached shared note with the given note id
func GetSharedNote(db *DB, noteID string) (SharedNote, error) {
	sn, err := scanSharedNote(db.QueryRow("SELECT share_id, owner_id, permission, payload FROM shared_notes WHERE id = ?", noteID))
	if err == sql.ErrNoRows {
		return sn, ErrNotFound
	} else if err != nil {
		return sn, errors.Wrapf(err, "finding shared note %s", noteID)
	}

	return sn, nil
}

// GetSharedNotes returns every cached shared note
func GetSharedNotes(db *DB) ([]SharedNote, error) {
	rows, err := db.Query("SELECT share_id, owner_id, permission, payload FROM shared_notes ORDER BY id")
	if err != nil {
		return nil, errors.Wrap(err, "querying shared notes")
	}
	defer rows.Close()

	var ret []SharedNote
	for rows.Next() {
		sn, err := scanSharedNote(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning shared note")
		}
		ret = append(ret, sn)
	}

	return ret, rows.Err()
}

// ReplaceShareInvites replaces the cached invitations with the given set
func ReplaceShareInvites(db *DB, invites []ShareInvite) error {
	return WithTx(db, func(tx *DB) error {
		if _, err := tx.Exec("DELETE FROM share_invites"); err != nil {
			return errors.Wrap(err, "clearing share invites")
		}

		for _, inv := range invites {
			if err := UpsertShareInvite(tx, inv); err != nil {
				return err
			}
		}

		return nil
	})
}

// UpsertShareInvite inserts or replaces one cached invitation
func UpsertShareInvite(db *DB, inv ShareInvite) error {
	if _, err := db.Exec(`INSERT INTO share_invites (id, note_id, inviter_id, invitee_email, permission, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET note_id = excluded.note_id, inviter_id = excluded.inviter_id,
		invitee_email = excluded.invitee_email, permission = excluded.permission, status = excluded.status,
		created_at = excluded.created_at, updated_at = excluded.updated_at`,
		inv.ID, inv.NoteID, inv.InviterID, inv.InviteeEmail, inv.Permission, inv.Status, inv.CreatedAt, inv.UpdatedAt); err != nil {
		return errors.Wrapf(err, "saving share invite %s", inv.ID)
	}

	return nil
}

// GetShareInvite returns the cached invitation with the given id
func GetShareInvite(db *DB, id string) (ShareInvite, error) {
	var inv ShareInvite
	err := db.QueryRow(`SELECT id, note_id, inviter_id, invitee_email, permission, status, created_at, updated_at
		FROM share_invites WHERE id = ?`, id).
		Scan(&inv.ID, &inv.NoteID, &inv.InviterID, &inv.InviteeEmail, &inv.Permission, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt)
	if err == sql.ErrNoRows {
		return inv, ErrNotFound
	} else if err != nil {
		return inv, errors.Wrapf(err, "finding share invite %s", id)
	}

	return inv, nil
}

// GetShareInvites returns the cached invitations in the given status
func GetShareInvites(db *DB, status string) ([]ShareInvite, error) {
	rows, err := db.Query(`SELECT id, note_id, inviter_id, invitee_email, permission, status, created_at, updated_at
		FROM share_invites WHERE status = ? ORDER BY created_at`, status)
	if err != nil {
		return nil, errors.Wrap(err, "querying share invites")
	}
	defer rows.Close()

	var ret []ShareInvite
	for rows.Next() {
		var inv ShareInvite
		if err := rows.Scan(&inv.ID, &inv.NoteID, &inv.InviterID, &inv.InviteeEmail, &inv.Permission, &inv.Status, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
			return nil, errors.Wrap(err, "scanning share invite")
		}
		ret = append(ret, inv)
	}

	return ret, rows.Err()
}
