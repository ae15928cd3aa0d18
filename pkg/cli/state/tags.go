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
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/queue"
	"github.com/driftnote/driftnote/pkg/cli/validate"
	"github.com/pkg/errors"
)

func tagNotFound(id string) error {
	return errors.Wrapf(database.ErrNotFound, "tag %s", id)
}

func (s *State) insertTag(tx *database.DB, name, color string) (database.Tag, error) {
	id, err := newID()
	if err != nil {
		return database.Tag{}, err
	}

	t := database.Tag{
		ID:         id,
		Name:       name,
		Color:      color,
		CreatedAt:  s.now(),
		SyncStatus: database.StatusPending,
	}
	if err := t.Insert(tx); err != nil {
		return database.Tag{}, err
	}
	if _, err := s.queue.Enqueue(tx, database.CollectionTags, queue.OpInsert, t); err != nil {
		return database.Tag{}, err
	}

	return t, nil
}

// CreateTag creates a pending tag. Tag names are unique and case-sensitive.
func (s *State) CreateTag(name, color string) (database.Tag, error) {
	if err := validate.TagName(name); err != nil {
		return database.Tag{}, err
	}

	var ret database.Tag
	err := database.WithTx(s.db, func(tx *database.DB) error {
		_, err := database.GetTagByName(tx, name)
		if err == nil {
			return ErrTagExists
		} else if errors.Cause(err) != database.ErrNotFound {
			return err
		}

		ret, err = s.insertTag(tx, name, color)
		return err
	})

	return ret, err
}

// retagNotes rewrites the tag list of every note carrying the tag and marks
// those notes pending
func (s *State) retagNotes(tx *database.DB, name string, rewrite func([]string) []string) error {
	notes, err := database.GetNotesByTag(tx, name)
	if err != nil {
		return err
	}

	for _, n := range notes {
		n.Tags = rewrite(n.Tags)
		n.UpdatedAt = s.nextTimestamp(n.UpdatedAt)
		n.SyncStatus = database.StatusPending
		if err := n.Update(tx); err != nil {
			return err
		}
	}

	return nil
}

// RenameTag renames the tag and rewrites it in every note that carries it.
// Renaming onto a name another tag already uses is allowed; both tags then
// label the same notes.
func (s *State) RenameTag(id, name string) (database.Tag, error) {
	if err := validate.TagName(name); err != nil {
		return database.Tag{}, err
	}

	var ret database.Tag
	err := database.WithTx(s.db, func(tx *database.DB) error {
		t, err := database.GetTag(tx, id)
		if errors.Cause(err) == database.ErrNotFound {
			return tagNotFound(id)
		} else if err != nil {
			return err
		}
		if t.Name == name {
			ret = t
			return nil
		}

		from := t.Name
		if err := s.retagNotes(tx, from, func(tags []string) []string {
			return database.ReplaceTag(tags, from, name)
		}); err != nil {
			return err
		}

		t.Name = name
		t.SyncStatus = database.StatusPending
		if err := t.Update(tx); err != nil {
			return err
		}
		if _, err := s.queue.Enqueue(tx, database.CollectionTags, queue.OpUpdate, t); err != nil {
			return err
		}

		ret = t
		return nil
	})

	return ret, err
}

// UpdateTagColor sets the color of the tag
func (s *State) UpdateTagColor(id, color string) (database.Tag, error) {
	var ret database.Tag
	err := database.WithTx(s.db, func(tx *database.DB) error {
		t, err := database.GetTag(tx, id)
		if errors.Cause(err) == database.ErrNotFound {
			return tagNotFound(id)
		} else if err != nil {
			return err
		}

		t.Color = color
		t.SyncStatus = database.StatusPending
		if err := t.Update(tx); err != nil {
			return err
		}
		if _, err := s.queue.Enqueue(tx, database.CollectionTags, queue.OpUpdate, t); err != nil {
			return err
		}

		ret = t
		return nil
	})

	return ret, err
}

// DeleteTag removes the tag from every note, deletes it and queues its
// remote deletion
func (s *State) DeleteTag(id string) error {
	return database.WithTx(s.db, func(tx *database.DB) error {
		t, err := database.GetTag(tx, id)
		if errors.Cause(err) == database.ErrNotFound {
			return tagNotFound(id)
		} else if err != nil {
			return err
		}

		if err := s.retagNotes(tx, t.Name, func(tags []string) []string {
			return database.RemoveTag(tags, t.Name)
		}); err != nil {
			return err
		}

		if err := t.Expunge(tx); err != nil {
			return err
		}

		_, err = s.queue.EnqueueDelete(tx, database.CollectionTags, id)
		return err
	})
}
