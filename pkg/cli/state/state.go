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

// Package state is the entity state machine. Every mutation of notes,
// folders and tags goes through a State, which persists the change and marks
// the entity pending before returning.
package state

import (
	"context"
	"time"

	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/queue"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/driftnote/driftnote/pkg/clock"
	"github.com/pkg/errors"
)

// TombstoneExpiry is how long a trashed note is kept before it is purged
const TombstoneExpiry = 30 * 24 * time.Hour

var (
	// ErrTagExists is returned when creating a tag whose name is taken
	ErrTagExists = errors.New("a tag with the name already exists")
	// ErrFolderCycle is returned when a folder would become its own ancestor
	ErrFolderCycle = errors.New("a folder cannot be nested inside itself")
	// ErrSharedNote is returned by mutations that are not available on notes
	// shared with the user
	ErrSharedNote = errors.New("only the content of a shared note can be edited")
)

// SharedEditor edits notes owned by other users
type SharedEditor interface {
	UpdateSharedNote(ctx context.Context, id string, patch database.NotePatch) (database.Note, error)
}

// State owns the local entities
type State struct {
	db     *database.DB
	clock  clock.Clock
	queue  *queue.Queue
	shared SharedEditor
}

// New returns a new state. shared may be nil, in which case notes shared with
// the user cannot be edited.
func New(db *database.DB, c clock.Clock, shared SharedEditor) *State {
	return &State{
		db:     db,
		clock:  c,
		queue:  queue.New(c),
		shared: shared,
	}
}

// DB returns the local store
func (s *State) DB() *database.DB {
	return s.db
}

func (s *State) now() string {
	return utils.FormatTime(s.clock.Now())
}

// nextTimestamp returns the current time, or a millisecond after prev if
// the clock has not moved past it
func (s *State) nextTimestamp(prev string) string {
	return utils.NextTimestamp(s.clock.Now(), prev)
}

func newID() (string, error) {
	id, err := utils.GenerateUUID()
	if err != nil {
		return "", errors.Wrap(err, "generating an id")
	}

	return id, nil
}

// Snapshot is a point-in-time copy of the local entities
type Snapshot struct {
	Notes   []database.Note
	Folders []database.Folder
	Tags    []database.Tag
	Shared  []database.SharedNote
}

// ActiveNotes returns the notes that are not in the trash
func (s Snapshot) ActiveNotes() []database.Note {
	var ret []database.Note
	for _, n := range s.Notes {
		if !n.Deleted {
			ret = append(ret, n)
		}
	}

	return ret
}

// TrashedNotes returns the tombstoned notes
func (s Snapshot) TrashedNotes() []database.Note {
	var ret []database.Note
	for _, n := range s.Notes {
		if n.Deleted {
			ret = append(ret, n)
		}
	}

	return ret
}

// Snapshot reads every entity
func (s *State) Snapshot() (Snapshot, error) {
	var ret Snapshot
	var err error

	if ret.Notes, err = database.GetNotes(s.db); err != nil {
		return ret, errors.Wrap(err, "reading notes")
	}
	if ret.Folders, err = database.GetFolders(s.db); err != nil {
		return ret, errors.Wrap(err, "reading folders")
	}
	if ret.Tags, err = database.GetTags(s.db); err != nil {
		return ret, errors.Wrap(err, "reading tags")
	}
	if ret.Shared, err = database.GetSharedNotes(s.db); err != nil {
		return ret, errors.Wrap(err, "reading shared notes")
	}

	return ret, nil
}
