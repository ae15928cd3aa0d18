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

// Package permissions decides what a user may do with a note
package permissions

import (
	"github.com/driftnote/driftnote/pkg/server/database"
)

func shareGrants(user *database.User, note database.Note, share *database.AcceptedShare) bool {
	return share != nil && share.UserID == user.UUID && share.NoteID == note.ID
}

// ViewNote checks if the given user can view the given note, either as its
// owner or through the accepted share
func ViewNote(user *database.User, note database.Note, share *database.AcceptedShare) bool {
	if user == nil || note.UserID == "" {
		return false
	}
	if note.UserID == user.UUID {
		return true
	}

	return shareGrants(user, note, share)
}

// EditNote checks if the given user can write to the given note
func EditNote(user *database.User, note database.Note, share *database.AcceptedShare) bool {
	if user == nil || note.UserID == "" {
		return false
	}
	if note.UserID == user.UUID {
		return true
	}

	return shareGrants(user, note, share) && share.Permission == database.PermissionEdit
}
