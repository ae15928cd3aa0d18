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
	"context"

	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/pkg/errors"
)

// Watch subscribes to remote changes of a note and merges every change
// into the local store the same way a cycle would. fn is called with each
// change, marked as an external update, whether or not the local copy was
// overwritten. Watch returns when ctx is done or the subscription ends.
func (e *Engine) Watch(ctx context.Context, noteID string, fn func(n database.Note, applied bool)) error {
	if !e.remote.Configured() {
		return remote.ErrNotConfigured
	}

	sess, err := e.session()
	if err != nil {
		return errors.Wrap(err, "loading the session")
	}
	if !sess.Valid(e.clock.Now()) {
		return remote.ErrUnauthenticated
	}

	changes, err := e.remote.Subscribe(ctx, database.CollectionNotes, noteID)
	if err != nil {
		return errors.Wrapf(err, "subscribing to note %s", noteID)
	}

	for change := range changes {
		if change.EventType == remote.EventDelete || change.New == nil {
			continue
		}

		n := remote.NoteFromRow(change.New)
		applied, err := applyNote(e.db, n, false)
		if err != nil {
			return errors.Wrapf(err, "merging note %s", n.ID)
		}
		log.Debug("received change of note %s (applied: %t)\n", n.ID, applied)

		n.IsExternalUpdate = true
		fn(n, applied)
	}

	return nil
}
