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

// Package operations provides queries shared by the app and the realtime
// endpoints
package operations

import (
	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/permissions"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// FindAcceptedShare returns the share through which the user reaches the
// note, or nil if there is none
func FindAcceptedShare(db *gorm.DB, userID, noteID string) (*database.AcceptedShare, error) {
	var share database.AcceptedShare
	err := db.Where("user_id = ? AND note_id = ?", userID, noteID).First(&share).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if err != nil {
		return nil, errors.Wrap(err, "finding accepted share")
	}

	return &share, nil
}

// GetNote retrieves a note the user can view, along with the share that
// grants access when the user is not the owner. ok is false if the note
// does not exist or the user cannot view it.
func GetNote(db *gorm.DB, id string, user *database.User) (note database.Note, share *database.AcceptedShare, ok bool, err error) {
	err = db.Where("id = ?", id).First(&note).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return database.Note{}, nil, false, nil
	} else if err != nil {
		return database.Note{}, nil, false, errors.Wrap(err, "finding note")
	}

	if user != nil && note.UserID != user.UUID {
		share, err = FindAcceptedShare(db, user.UUID, id)
		if err != nil {
			return database.Note{}, nil, false, err
		}
	}

	if !permissions.ViewNote(user, note, share) {
		return database.Note{}, nil, false, nil
	}

	return note, share, true, nil
}
