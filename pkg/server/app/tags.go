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
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SelectTags returns the tags of the user
func (a *App) SelectTags(user database.User, f OwnerFilter) ([]database.Tag, error) {
	owner, err := ownerFilter(user.UUID, f.UserID)
	if err != nil {
		return nil, err
	}

	ret := []database.Tag{}
	if err := a.DB.Where("user_id = ?", owner).Order("name").Find(&ret).Error; err != nil {
		return nil, errors.Wrap(err, "finding tags")
	}

	return ret, nil
}

// UpsertTag inserts or replaces a tag owned by the user
func (a *App) UpsertTag(user database.User, t database.Tag) (database.Tag, error) {
	if t.ID == "" {
		return database.Tag{}, ErrMissingID
	}
	if t.UserID != "" && t.UserID != user.UUID {
		return database.Tag{}, ErrForbidden
	}
	t.UserID = user.UUID
	if t.CreatedAt == "" {
		t.CreatedAt = a.now()
	}

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkOwnership(tx, &database.Tag{}, t.ID, user.UUID); err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&t).Error; err != nil {
			return errors.Wrap(err, "saving tag")
		}

		return nil
	})
	if err != nil {
		return database.Tag{}, err
	}

	return t, nil
}

// DeleteTag deletes a tag owned by the user. Deleting a missing tag is not
// an error.
func (a *App) DeleteTag(user database.User, id, userID string) error {
	owner, err := ownerFilter(user.UUID, userID)
	if err != nil {
		return err
	}

	if err := a.DB.Where("id = ? AND user_id = ?", id, owner).Delete(&database.Tag{}).Error; err != nil {
		return errors.Wrap(err, "deleting tag")
	}

	return nil
}
