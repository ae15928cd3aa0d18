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

package app

import (
	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/log"
	"github.com/driftnote/driftnote/pkg/server/operations"
	"github.com/driftnote/driftnote/pkg/server/permissions"
	"github.com/driftnote/driftnote/pkg/server/realtime"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoteFilter restricts a note select
type NoteFilter struct {
	UserID   string  `schema:"user_id"`
	FolderID *string `schema:"folder_id"`
	Deleted  *bool   `schema:"deleted"`
}

// SelectNotes returns the notes of the user that match the filter
func (a *App) SelectNotes(user database.User, f NoteFilter) ([]database.Note, error) {
	owner, err := ownerFilter(user.UUID, f.UserID)
	if err != nil {
		return nil, err
	}

	q := a.DB.Where("user_id = ?", owner)
	if f.FolderID != nil {
		q = q.Where("folder_id = ?", *f.FolderID)
	}
	if f.Deleted != nil {
		q = q.Where("deleted = ?", *f.Deleted)
	}

	ret := []database.Note{}
	if err := q.Order("updated_at DESC").Find(&ret).Error; err != nil {
		return nil, errors.Wrap(err, "finding notes")
	}

	return ret, nil
}

// UpsertNote inserts or replaces the note. Owners write their own notes.
// Other users may only replace an existing note shared with them for
// editing, and the note keeps its owner.
func (a *App) UpsertNote(user database.User, n database.Note) (database.Note, error) {
	if n.ID == "" {
		return database.Note{}, ErrMissingID
	}
	if n.UserID == "" {
		n.UserID = user.UUID
	}
	now := a.now()
	if n.CreatedAt == "" {
		n.CreatedAt = now
	}
	if n.UpdatedAt == "" {
		n.UpdatedAt = now
	}

	var existed bool
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		var existing database.Note
		err := tx.Where("id = ?", n.ID).First(&existing).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "finding note")
		}
		existed = err == nil

		if existed && existing.UserID != n.UserID {
			return ErrForbidden
		}
		if n.UserID != user.UUID {
			if !existed {
				return ErrForbidden
			}

			share, err := operations.FindAcceptedShare(tx, user.UUID, n.ID)
			if err != nil {
				return err
			}
			if !permissions.EditNote(&user, existing, share) {
				return ErrForbidden
			}
		}

		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&n).Error; err != nil {
			return errors.Wrap(err, "saving note")
		}

		return nil
	})
	if err != nil {
		return database.Note{}, err
	}

	event := realtime.EventInsert
	if existed {
		event = realtime.EventUpdate
	}
	a.publish(database.CollectionNotes, n.ID, event, n)

	if n.UserID != user.UUID {
		log.WithFields(log.Fields{
			"note":   n.ID,
			"editor": user.UUID,
		}).Debug("Shared note edited")
	}

	return n, nil
}

// DeleteNote deletes the note owned by the user along with its shares.
// Deleting a missing note is not an error.
func (a *App) DeleteNote(user database.User, id, userID string) error {
	owner, err := ownerFilter(user.UUID, userID)
	if err != nil {
		return err
	}

	var deleted int64
	err = a.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, owner).Delete(&database.Note{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "deleting note")
		}
		deleted = res.RowsAffected
		if deleted == 0 {
			return nil
		}

		if err := tx.Where("note_id = ?", id).Delete(&database.AcceptedShare{}).Error; err != nil {
			return errors.Wrap(err, "deleting accepted shares")
		}
		if err := tx.Where("note_id = ?", id).Delete(&database.NoteShare{}).Error; err != nil {
			return errors.Wrap(err, "deleting share invitations")
		}

		return nil
	})
	if err != nil {
		return err
	}

	if deleted > 0 {
		a.publish(database.CollectionNotes, id, realtime.EventDelete, map[string]string{"id": id})
	}

	return nil
}
