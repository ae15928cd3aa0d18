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
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/state"
	"github.com/pkg/errors"
)

// uploadNotes upserts every pending note. A failed note stays pending and
// the loop moves on.
func (c *cycle) uploadNotes() error {
	notes, err := database.GetNotesByStatus(c.db, database.StatusPending)
	if err != nil {
		return err
	}

	for _, n := range notes {
		if n.ID == state.WelcomeNoteID {
			continue
		}

		if _, err := c.remote.Upsert(c.ctx, database.CollectionNotes, remote.NoteToRow(n, c.userID)); err != nil {
			c.fail("uploading note %s: %v\n", n.ID, err)
			continue
		}

		if _, err := database.MarkNoteSynced(c.db, n.ID, n.UpdatedAt); err != nil {
			return err
		}
		c.result.Uploaded++
	}

	return nil
}

// applyNote writes the remote note locally if decideNote says so. It
// returns true if the local store changed.
func applyNote(db *database.DB, rn database.Note, deletedThisCycle bool) (bool, error) {
	var local *database.Note

	n, err := database.GetNote(db, rn.ID)
	if err == nil {
		local = &n
	} else if errors.Cause(err) != database.ErrNotFound {
		return false, err
	}

	d := decideNote(local, rn, deletedThisCycle)
	switch d.action {
	case actionInsert:
		if err := d.note.Insert(db); err != nil {
			return false, err
		}
		return true, nil
	case actionOverwrite:
		return database.OverwriteNote(db, d.note, local.UpdatedAt)
	}

	return false, nil
}

// downloadNotes merges the remote notes into the local store. Failing to
// list them aborts the cycle.
func (c *cycle) downloadNotes() error {
	rows, err := c.remote.Select(c.ctx, database.CollectionNotes, c.filter())
	if err != nil {
		return errors.Wrap(err, "selecting notes")
	}

	for _, r := range rows {
		rn := remote.NoteFromRow(r)
		if rn.ID == state.WelcomeNoteID {
			continue
		}

		changed, err := applyNote(c.db, rn, c.deleted[database.CollectionNotes][rn.ID])
		if err != nil {
			return errors.Wrapf(err, "merging note %s", rn.ID)
		}
		if changed {
			c.result.Downloaded++
		}
	}

	return nil
}
