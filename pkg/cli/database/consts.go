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
	// StatusSynced means the local copy equals the last known remote copy
	StatusSynced = "synced"
	// StatusPending means the local copy was mutated and awaits upload
	StatusPending = "pending"
	// StatusConflict is reserved and never produced by the merge
	StatusConflict = "conflict"
	// StatusError is reserved for entities whose upload is known to be unrecoverable
	StatusError = "error"
)

const (
	// CollectionNotes is the collection of notes
	CollectionNotes = "notes"
	// CollectionFolders is the collection of folders
	CollectionFolders = "folders"
	// CollectionTags is the collection of tags
	CollectionTags = "tags"
	// CollectionNoteShares is the relation of pending share invitations
	CollectionNoteShares = "note_shares"
	// CollectionAcceptedShares is the relation of accepted shares
	CollectionAcceptedShares = "accepted_shares"
)

const (
	// DefaultNoteType is the note type of plain notes
	DefaultNoteType = "note"
)
