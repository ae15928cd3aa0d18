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

package sync

import (
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/utils"
)

type noteAction int

const (
	actionSkip noteAction = iota
	actionInsert
	actionOverwrite
)

type noteDecision struct {
	action noteAction
	note   database.Note
}

// decideNote decides what to do with a remote note given the local copy,
// if any. Local edits pending upload always win. Otherwise the remote copy
// wins only if it is newer by more than SkewBuffer.
func decideNote(local *database.Note, remote database.Note, deletedThisCycle bool) noteDecision {
	if local == nil {
		if deletedThisCycle {
			return noteDecision{action: actionSkip}
		}

		return noteDecision{action: actionInsert, note: remote}
	}

	if local.SyncStatus == database.StatusPending {
		return noteDecision{action: actionSkip}
	}
	// a trashed note is not revived by a remote copy that missed the deletion
	if local.Deleted && !remote.Deleted {
		return noteDecision{action: actionSkip}
	}

	remoteMs := utils.EpochMillis(remote.UpdatedAt)
	localMs := utils.EpochMillis(local.UpdatedAt)
	if remoteMs <= localMs+SkewBuffer.Milliseconds() {
		return noteDecision{action: actionSkip}
	}

	n := remote
	if n.Order == nil {
		n.Order = local.Order
	}

	return noteDecision{action: actionOverwrite, note: n}
}
