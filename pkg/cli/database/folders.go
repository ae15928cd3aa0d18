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

package database

import (
	"database/sql"

	"github.com/pkg/errors"
)

// Folder represents a folder
type Folder struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Icon       string  `json:"icon"`
	Color      string  `json:"color"`
	ParentID   *string `json:"parentId"`
	CreatedAt  string  `json:"createdAt"`
	UpdatedAt  string  `json:"updatedAt"`
	SyncStatus string  `json:"syncStatus"`
}

const folderColumns = "id, name, icon, color, parent_id, created_at, updated_at, sync_status"

func scanFolder(s scanner) (Folder, error) {
	var f Folder
	var parentID sql.NullString

	if err := s.Scan(&f.ID, &f.Name, &f.Icon, &f.Color, &parentID, &f.CreatedAt, &f.UpdatedAt, &f.SyncStatus); err != nil {
		return f, err
	}
	f.ParentID = nullStringPtr(parentID)

	return f, nil
}

// Insert inserts a new folder
func (f Folder) Insert(db *DB) error {
	_, err := db.Exec("INSERT INTO folders ("+folderColumns+") VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		f.ID, f.Name, f.Icon, f.Color, f.ParentID, f.CreatedAt, f.UpdatedAt, f.SyncStatus)
	if err != nil {
		return errors.Wrapf(err, "inserting folder with id %s", f.ID)
	}

	return nil
}

// Update updates the folder with the given data
func (f Folder) Update(db *DB) error {
	_, err := db.Exec("UPDATE folders SET name = ?, icon = ?, color = ?, parent_id = ?, created_at = ?, updated_at = ?, sync_status = ? WHERE id = ?",
		f.Name, f.Icon, f.Color, f.ParentID, f.CreatedAt, f.UpdatedAt, f.SyncStatus, f.ID)
	if err != nil {
		return errors.Wrapf(err, "updating the folder with id %s", f.ID)
	}

	return nil
}

// Expunge hard-deletes the folder
func (f Folder) Expunge(db *DB) error {
	if _, err := db.Exec("DELETE FROM folders WHERE id = ?", f.ID); err != nil {
		return errors.Wrapf(err, "expunging folder %s", f.ID)
	}

	return nil
}

// GetFolder returns the folder with the given id
// MarkFolderSynced marks the folder synced unless it was modified after the
// given updatedAt was read
func MarkFolderSynced(db *DB, id, updatedAt string) (bool, error) {
	res, err := db.Exec("UPDATE folders SET sync_status = ? WHERE id = ? AND updated_at = ?", StatusSynced, id, updatedAt)
	if err != nil {
		return false, errors.Wrapf(err, "marking folder %s synced", id)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "counting affected rows")
	}

	return n > 0, nil
}

func GetFolder(db *DB, id string) (Folder, error) {
	f, err := scanFolder(db.QueryRow("SELECT "+folderColumns+" FROM folders WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return f, ErrNotFound
	} else if err != nil {
		return f, errors.Wrapf(err, "finding folder %s", id)
	}

	return f, nil
}

// GetFolders returns every folder ordered by creation
func GetFolders(db *DB) ([]Folder, error) {
	rows, err := db.Query("SELECT " + folderColumns + " FROM folders ORDER BY created_at, name")
	if err != nil {
		return nil, errors.Wrap(err, "querying folders")
	}
	defer rows.Close()

	ret := []Folder{}
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning folder")
		}
		ret = append(ret, f)
	}

	return ret, rows.Err()
}

// GetChildFolders returns the folders whose parent is the given folder
func GetChildFolders(db *DB, parentID string) ([]Folder, error) {
	rows, err := db.Query("SELECT "+folderColumns+" FROM folders WHERE parent_id = ?", parentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying child folders")
	}
	defer rows.Close()

	var ret []Folder
	for rows.Next() {
		f, err := scanFolder(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scanning folder")
		}
		ret = append(ret, f)
	}

	return ret, rows.Err()
}
