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
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
)

func TestSharedNotes(t *testing.T) {
	db := InitTestMemoryDB(t)

	first := []SharedNote{
		{ShareID: "s1", OwnerID: "u2", Permission: PermissionView, Note: Note{ID: "n1", Title: "Plan", UpdatedAt: "t1"}},
		{ShareID: "s2", OwnerID: "u3", Permission: PermissionEdit, Note: Note{ID: "n2", Title: "Draft", UpdatedAt: "t1"}},
	}
	assert.Nil(t, ReplaceSharedNotes(db, first), "replacing shared notes")

	sn, err := GetSharedNote(db, "n1")
	assert.Nil(t, err, "getting shared note")
	assert.Equal(t, sn.Note.Title, "Plan", "title mismatch")
	assert.Equal(t, sn.Note.IsShared, true, "shared marker")
	assert.Equal(t, sn.Note.SharePermission, PermissionView, "permission marker")

	assert.Nil(t, ReplaceSharedNotes(db, first[1:]), "replacing again")
	_, err = GetSharedNote(db, "n1")
	assert.Equal(t, err, ErrNotFound, "revoked share should be gone")

	all, err := GetSharedNotes(db)
	assert.Nil(t, err, "listing shared notes")
	assert.Equal(t, len(all), 1, "count mismatch")
}

func TestShareInvites(t *testing.T) {
	db := InitTestMemoryDB(t)

	invites := []ShareInvite{
		{ID: "i1", NoteID: "n1", InviterID: "u2", InviteeEmail: "a@example.com", Permission: PermissionEdit, Status: ShareStatusPending, CreatedAt: "t1", UpdatedAt: "t1"},
		{ID: "i2", NoteID: "n2", InviterID: "u2", InviteeEmail: "a@example.com", Permission: PermissionView, Status: ShareStatusDeclined, CreatedAt: "t2", UpdatedAt: "t2"},
	}
	assert.Nil(t, ReplaceShareInvites(db, invites), "replacing invites")

	pending, err := GetShareInvites(db, ShareStatusPending)
	assert.Nil(t, err, "listing pending invites")
	assert.DeepEqual(t, pending, invites[:1], "pending mismatch")

	accepted := invites[0]
	accepted.Status = ShareStatusAccepted
	assert.Nil(t, UpsertShareInvite(db, accepted), "updating invite")

	got, err := GetShareInvite(db, "i1")
	assert.Nil(t, err, "getting invite")
	assert.Equal(t, got.Status, ShareStatusAccepted, "status mismatch")
}
