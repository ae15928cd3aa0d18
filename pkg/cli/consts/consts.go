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

// Package consts provides definitions of constants
package consts

var (
	// DBFileName is a filename for the local SQLite store
	DBFileName = "driftnote.db"
	// ConfigFilename is the name of the config file
	ConfigFilename = "driftnoterc"
	// EnvFilename is the name of the optional file holding remote credentials
	EnvFilename = ".env"
	// WakeFilename is touched by interactive commands so that a running daemon
	// can react to the user coming back to the app
	WakeFilename = "wake"
	// TmpContentFileBase is the base for the filename for a temporary content
	TmpContentFileBase = "DRIFTNOTE_TMPCONTENT"
	// TmpContentFileExt is the extension for the temporary content file
	TmpContentFileExt = "md"

	// SystemLastSyncAt is the timestamp at which the last reconciliation cycle completed
	SystemLastSyncAt = "last_sync_at"
	// SystemLastSyncStatus is the outcome of the last reconciliation cycle
	SystemLastSyncStatus = "last_sync_status"
	// SystemSessionKey is the remote access token
	SystemSessionKey = "session_token"
	// SystemSessionKeyExpiry is the unix timestamp at which the access token expires
	SystemSessionKeyExpiry = "session_token_expiry"
	// SystemSessionUserID is the remote user id of the session
	SystemSessionUserID = "session_user_id"
	// SystemSessionEmail is the email address of the signed in user
	SystemSessionEmail = "session_email"
	// SystemStarterSeeded marks that the starter content was created on this device
	SystemStarterSeeded = "starter_seeded"
	// SystemLastPurgeAt is the timestamp of the last tombstone purge
	SystemLastPurgeAt = "last_purge_at"
)
