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

const (
	// CollectionNotes is the remote collection of notes
	CollectionNotes = "notes"
	// CollectionFolders is the remote collection of folders
	CollectionFolders = "folders"
	// CollectionTags is the remote collection of tags
	CollectionTags = "tags"
	// CollectionNoteShares is the remote collection of share invitations
	CollectionNoteShares = "note_shares"
	// CollectionAcceptedShares is the remote collection of accepted shares
	CollectionAcceptedShares = "accepted_shares"
)

const (
	// ShareStatusPending is the status of an unanswered invitation
	ShareStatusPending = "pending"
	// ShareStatusAccepted is the status of an accepted invitation
	ShareStatusAccepted = "accepted"
	// ShareStatusDeclined is the status of a declined invitation
	ShareStatusDeclined = "declined"
)

const (
	// PermissionView grants read access to a shared note
	PermissionView = "view"
	// PermissionEdit grants read and write access to a shared note
	PermissionEdit = "edit"
)
