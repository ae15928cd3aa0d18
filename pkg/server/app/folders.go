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

// OwnerFilter restricts a select to the rows of a user
type OwnerFilter struct {
	UserID string `schema:"user_id"`
}

// checkOwnership fails with ErrForbidden if a row with the id exists and
// belongs to another user
func checkOwnership(tx *gorm.DB, model interface{}, id, userID string) error {
	var count int64
	if err := tx.Model(model).Where("id = ? AND user_id <> ?", id, userID).Count(&count).Error; err != nil {
		return errors.Wrap(err, "checking ownership")
	}
	if count > 0 {
		return ErrForbidden
	}

	return nil
}

// SelectFolders returns the folders of the user
func (a *App) SelectFolders(user database.User, f OwnerFilter) ([]database.Folder, error) {
	owner, err := ownerFilter(user.UUID, f.UserID)
	if err != nil {
		return nil, err
	}

	ret := []database.Folder{}
	if err := a.DB.Where("user_id = ?", owner).Order("created_at").Find(&ret).Error; err != nil {
		return nil, errors.Wrap(err, "finding folders")
	}

	return ret, nil
}

// UpsertFolder inserts or replaces a folder owned by the user
func (a *App) UpsertFolder(user database.User, f database.Folder) (database.Folder, error) {
	if f.ID == "" {
		return database.Folder{}, ErrMissingID
	}
	if f.UserID != "" && f.UserID != user.UUID {
		return database.Folder{}, ErrForbidden
	}
	f.UserID = user.UUID
	if f.CreatedAt == "" {
		f.CreatedAt = a.now()
	}
	if f.UpdatedAt == "" {
		f.UpdatedAt = f.CreatedAt
	}

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		if err := checkOwnership(tx, &database.Folder{}, f.ID, user.UUID); err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&f).Error; err != nil {
			return errors.Wrap(err, "saving folder")
		}

		return nil
	})
	if err != nil {
		return database.Folder{}, err
	}

	return f, nil
}

// DeleteFolder deletes a folder owned by the user. Notes in the folder are
// moved to the root.
func (a *App) DeleteFolder(user database.User, id, userID string) error {
	owner, err := ownerFilter(user.UUID, userID)
	if err != nil {
		return err
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND user_id = ?", id, owner).Delete(&database.Folder{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "deleting folder")
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Model(&database.Note{}).Where("folder_id = ? AND user_id = ?", id, owner).Update("folder_id", nil).Error; err != nil {
			return errors.Wrap(err, "detaching notes")
		}
		if err := tx.Model(&database.Folder{}).Where("parent_id = ? AND user_id = ?", id, owner).Update("parent_id", nil).Error; err != nil {
			return errors.Wrap(err, "detaching subfolders")
		}

		return nil
	})
}
