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

package state

import (
	"context"
	"encoding/json"

	"github.com/driftnote/driftnote/pkg/cli/consts"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/queue"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/driftnote/driftnote/pkg/cli/validate"
	"github.com/pkg/errors"
)

// NoteParams are the fields of a new note
type NoteParams struct {
	Title    string
	Content  string
	FolderID *string
	Tags     []string
	NoteType string
	NoteData json.RawMessage
}

func noteNotFound(id string) error {
	return errors.Wrapf(database.ErrNotFound, "note %s", id)
}

// CreateNote creates a pending note
func (s *State) CreateNote(p NoteParams) (database.Note, error) {
	id, err := newID()
	if err != nil {
		return database.Note{}, err
	}

	noteType := p.NoteType
	if noteType == "" {
		noteType = database.DefaultNoteType
	}

	now := s.now()
	n := database.Note{
		ID:         id,
		Title:      p.Title,
		Content:    p.Content,
		FolderID:   p.FolderID,
		Tags:       database.NormalizeTags(p.Tags),
		NoteType:   noteType,
		NoteData:   p.NoteData,
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncStatus: database.StatusPending,
	}

	err = database.WithTx(s.db, func(tx *database.DB) error {
		if n.FolderID != nil {
			if _, err := database.GetFolder(tx, *n.FolderID); err != nil {
				return errors.Wrapf(err, "finding folder %s", *n.FolderID)
			}
		}
		if err := s.ensureTags(tx, n.Tags); err != nil {
			return err
		}
		if err := n.Insert(tx); err != nil {
			return err
		}

		_, err := s.queue.Enqueue(tx, database.CollectionNotes, queue.OpInsert, n)
		return err
	})
	if err != nil {
		return database.Note{}, errors.Wrap(err, "creating a note")
	}

	return n, nil
}

// mutateNote applies fn to the note and persists it as pending
func (s *State) mutateNote(id string, fn func(tx *database.DB, n *database.Note) error) (database.Note, error) {
	var ret database.Note

	err := database.WithTx(s.db, func(tx *database.DB) error {
		n, err := database.GetNote(tx, id)
		if errors.Cause(err) == database.ErrNotFound {
			if _, serr := database.GetSharedNote(tx, id); serr == nil {
				return ErrSharedNote
			}
			return noteNotFound(id)
		} else if err != nil {
			return err
		}

		if err := fn(tx, &n); err != nil {
			return err
		}

		n.UpdatedAt = s.nextTimestamp(n.UpdatedAt)
		n.SyncStatus = database.StatusPending
		if err := n.Update(tx); err != nil {
			return err
		}
		if _, err := s.queue.Enqueue(tx, database.CollectionNotes, queue.OpUpdate, n); err != nil {
			return err
		}

		ret = n
		return nil
	})

	return ret, err
}

// UpdateNote applies the patch to the note. When the title or content
// change, the previous version is recorded in the note history. Notes that
// only exist in the shared set are written straight to the remote.
func (s *State) UpdateNote(ctx context.Context, id string, patch database.NotePatch) (database.Note, error) {
	_, err := database.GetNote(s.db, id)
	if errors.Cause(err) == database.ErrNotFound {
		if _, serr := database.GetSharedNote(s.db, id); serr == nil && s.shared != nil {
			return s.shared.UpdateSharedNote(ctx, id, patch)
		}
		return database.Note{}, noteNotFound(id)
	} else if err != nil {
		return database.Note{}, errors.Wrapf(err, "finding note %s", id)
	}

	return s.mutateNote(id, func(tx *database.DB, n *database.Note) error {
		prev := database.NoteVersion{
			NoteID:  n.ID,
			Title:   n.Title,
			Content: n.Content,
		}

		if !patch.Apply(n) {
			return nil
		}

		vid, err := newID()
		if err != nil {
			return err
		}
		prev.ID = vid
		prev.CreatedAt = s.now()

		return prev.Insert(tx)
	})
}

// ToggleStar flips the starred flag of the note
func (s *State) ToggleStar(id string) (database.Note, error) {
	return s.mutateNote(id, func(tx *database.DB, n *database.Note) error {
		n.Starred = !n.Starred
		return nil
	})
}

// TogglePin flips the pinned flag of the note
func (s *State) TogglePin(id string) (database.Note, error) {
	return s.mutateNote(id, func(tx *database.DB, n *database.Note) error {
		n.Pinned = !n.Pinned
		return nil
	})
}

// SetArchived archives or unarchives the note
func (s *State) SetArchived(id string, archived bool) (database.Note, error) {
	return s.mutateNote(id, func(tx *database.DB, n *database.Note) error {
		n.Archived = archived
		if archived {
			now := s.now()
			n.ArchivedAt = &now
		} else {
			n.ArchivedAt = nil
		}

		return nil
	})
}

// MoveNote moves the note into the folder, or out of any folder if folderID is nil
func (s *State) MoveNote(id string, folderID *string) (database.Note, error) {
	return s.mutateNote(id, func(tx *database.DB, n *database.Note) error {
		if folderID != nil {
			if _, err := database.GetFolder(tx, *folderID); err != nil {
				return errors.Wrapf(err, "finding folder %s", *folderID)
			}
		}

		n.FolderID = folderID
		return nil
	})
}

// SetNoteOrder sets the manual sort position of the note
func (s *State) SetNoteOrder(id string, order *int64) (database.Note, error) {
	return s.mutateNote(id, func(tx *database.DB, n *database.Note) error {
		n.Order = order
		return nil
	})
}

// SetNoteTags replaces the tags of the note. Tags that do not exist yet are created.
func (s *State) SetNoteTags(id string, tags []string) (database.Note, error) {
	tags = database.NormalizeTags(tags)

	return s.mutateNote(id, func(tx *database.DB, n *database.Note) error {
		if err := s.ensureTags(tx, tags); err != nil {
			return err
		}

		n.Tags = tags
		return nil
	})
}

// AddReminder attaches a reminder at the given ISO-8601 datetime to the note
func (s *State) AddReminder(id, datetime string) (database.Note, error) {
	t, err := utils.ParseTime(datetime)
	if err != nil {
		return database.Note{}, errors.Wrap(err, "reading the reminder time")
	}

	rid, err := newID()
	if err != nil {
		return database.Note{}, err
	}

	return s.mutateNote(id, func(tx *database.DB, n *database.Note) error {
		n.Reminders = append(n.Reminders, database.Reminder{
			ID:       rid,
			Datetime: utils.FormatTime(t),
		})
		return nil
	})
}

// TrashNote moves the note to the trash. The tombstone is synced like any
// other edit and is purged after TombstoneExpiry.
func (s *State) TrashNote(id string) (database.Note, error) {
	return s.mutateNote(id, func(tx *database.DB, n *database.Note) error {
		if n.Deleted {
			return nil
		}

		now := s.now()
		n.Deleted = true
		n.DeletedAt = &now
		return nil
	})
}

// RestoreNote takes the note out of the trash
func (s *State) RestoreNote(id string) (database.Note, error) {
	return s.mutateNote(id, func(tx *database.DB, n *database.Note) error {
		n.Deleted = false
		n.DeletedAt = nil
		return nil
	})
}

func (s *State) expungeNote(tx *database.DB, n database.Note) error {
	if err := n.Expunge(tx); err != nil {
		return err
	}

	if n.ID == WelcomeNoteID {
		return nil
	}

	_, err := s.queue.EnqueueDelete(tx, database.CollectionNotes, n.ID)
	return err
}

// DeleteNotePermanently removes the note locally and queues its remote deletion
func (s *State) DeleteNotePermanently(id string) error {
	return database.WithTx(s.db, func(tx *database.DB) error {
		n, err := database.GetNote(tx, id)
		if errors.Cause(err) == database.ErrNotFound {
			return noteNotFound(id)
		} else if err != nil {
			return err
		}

		return s.expungeNote(tx, n)
	})
}

// PurgeExpired permanently deletes the notes that have been in the trash
// for longer than TombstoneExpiry and returns how many were deleted
func (s *State) PurgeExpired() (int, error) {
	now := s.clock.Now()
	cutoff := utils.FormatTime(now.Add(-TombstoneExpiry))

	var count int
	err := database.WithTx(s.db, func(tx *database.DB) error {
		notes, err := database.GetTombstonesBefore(tx, cutoff)
		if err != nil {
			return err
		}

		for _, n := range notes {
			if err := s.expungeNote(tx, n); err != nil {
				return err
			}
		}
		count = len(notes)

		return database.UpsertSystem(tx, consts.SystemLastPurgeAt, utils.FormatTime(now))
	})
	if err != nil {
		return 0, errors.Wrap(err, "purging expired notes")
	}

	return count, nil
}

// GetNote returns the note with the given id, looking in the shared set if
// the user does not own it
func (s *State) GetNote(id string) (database.Note, error) {
	n, err := database.GetNote(s.db, id)
	if err == nil {
		return n, nil
	}
	if errors.Cause(err) != database.ErrNotFound {
		return n, err
	}

	sn, err := database.GetSharedNote(s.db, id)
	if errors.Cause(err) == database.ErrNotFound {
		return database.Note{}, noteNotFound(id)
	} else if err != nil {
		return database.Note{}, err
	}

	return sn.Note, nil
}

// History returns the previous versions of the note, newest first
func (s *State) History(noteID string) ([]database.NoteVersion, error) {
	return database.GetNoteVersions(s.db, noteID)
}

func (s *State) ensureTags(tx *database.DB, names []string) error {
	for _, name := range names {
		_, err := database.GetTagByName(tx, name)
		if err == nil {
			continue
		}
		if errors.Cause(err) != database.ErrNotFound {
			return err
		}

		if err := validate.TagName(name); err != nil {
			return errors.Wrapf(err, "tag %q", name)
		}
		if _, err := s.insertTag(tx, name, ""); err != nil {
			return err
		}
	}

	return nil
}
