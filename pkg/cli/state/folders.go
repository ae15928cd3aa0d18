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
	"strings"

	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/queue"
	"github.com/driftnote/driftnote/pkg/cli/validate"
	"github.com/pkg/errors"
)

// FolderParams are the fields of a new folder
type FolderParams struct {
	Name     string
	Icon     string
	Color    string
	ParentID *string
}

// FolderPatch is a partial update of a folder. Nil fields are left unchanged.
type FolderPatch struct {
	Name     *string
	Icon     *string
	Color    *string
	ParentID *string
	// ClearParent moves the folder to the top level
	ClearParent bool
}

func folderNotFound(id string) error {
	return errors.Wrapf(database.ErrNotFound, "folder %s", id)
}

// CreateFolder creates a pending folder
func (s *State) CreateFolder(p FolderParams) (database.Folder, error) {
	name := strings.TrimSpace(p.Name)
	if err := validate.FolderName(name); err != nil {
		return database.Folder{}, err
	}

	id, err := newID()
	if err != nil {
		return database.Folder{}, err
	}

	now := s.now()
	f := database.Folder{
		ID:         id,
		Name:       name,
		Icon:       p.Icon,
		Color:      p.Color,
		ParentID:   p.ParentID,
		CreatedAt:  now,
		UpdatedAt:  now,
		SyncStatus: database.StatusPending,
	}

	err = database.WithTx(s.db, func(tx *database.DB) error {
		if f.ParentID != nil {
			if _, err := database.GetFolder(tx, *f.ParentID); err != nil {
				return errors.Wrapf(err, "finding parent folder %s", *f.ParentID)
			}
		}
		if err := f.Insert(tx); err != nil {
			return err
		}

		_, err := s.queue.Enqueue(tx, database.CollectionFolders, queue.OpInsert, f)
		return err
	})
	if err != nil {
		return database.Folder{}, errors.Wrap(err, "creating a folder")
	}

	return f, nil
}

// isDescendant returns true if candidate is id or nested anywhere under it
func isDescendant(tx *database.DB, id, candidate string) (bool, error) {
	seen := map[string]bool{}
	cur := candidate
	for cur != "" && !seen[cur] {
		if cur == id {
			return true, nil
		}
		seen[cur] = true

		f, err := database.GetFolder(tx, cur)
		if errors.Cause(err) == database.ErrNotFound {
			return false, nil
		} else if err != nil {
			return false, err
		}
		if f.ParentID == nil {
			return false, nil
		}
		cur = *f.ParentID
	}

	return false, nil
}

// UpdateFolder applies the patch to the folder
func (s *State) UpdateFolder(id string, patch FolderPatch) (database.Folder, error) {
	var ret database.Folder

	err := database.WithTx(s.db, func(tx *database.DB) error {
		f, err := database.GetFolder(tx, id)
		if errors.Cause(err) == database.ErrNotFound {
			return folderNotFound(id)
		} else if err != nil {
			return err
		}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			if err := validate.FolderName(name); err != nil {
				return err
			}
			f.Name = name
		}
		if patch.Icon != nil {
			f.Icon = *patch.Icon
		}
		if patch.Color != nil {
			f.Color = *patch.Color
		}
		if patch.ClearParent {
			f.ParentID = nil
		} else if patch.ParentID != nil {
			cycle, err := isDescendant(tx, id, *patch.ParentID)
			if err != nil {
				return err
			}
			if cycle {
				return ErrFolderCycle
			}
			if _, err := database.GetFolder(tx, *patch.ParentID); err != nil {
				return errors.Wrapf(err, "finding parent folder %s", *patch.ParentID)
			}
			parentID := *patch.ParentID
			f.ParentID = &parentID
		}

		f.UpdatedAt = s.nextTimestamp(f.UpdatedAt)
		f.SyncStatus = database.StatusPending
		if err := f.Update(tx); err != nil {
			return err
		}
		if _, err := s.queue.Enqueue(tx, database.CollectionFolders, queue.OpUpdate, f); err != nil {
			return err
		}

		ret = f
		return nil
	})

	return ret, err
}

// DeleteFolder deletes the folder and queues its remote deletion. Notes in
// the folder move out of it and child folders move to the top level; no
// note is deleted.
func (s *State) DeleteFolder(id string) error {
	return database.WithTx(s.db, func(tx *database.DB) error {
		f, err := database.GetFolder(tx, id)
		if errors.Cause(err) == database.ErrNotFound {
			return folderNotFound(id)
		} else if err != nil {
			return err
		}

		notes, err := database.GetNotesByFolder(tx, id)
		if err != nil {
			return err
		}
		for _, n := range notes {
			n.FolderID = nil
			n.UpdatedAt = s.nextTimestamp(n.UpdatedAt)
			n.SyncStatus = database.StatusPending
			if err := n.Update(tx); err != nil {
				return err
			}
		}

		children, err := database.GetChildFolders(tx, id)
		if err != nil {
			return err
		}
		for _, c := range children {
			c.ParentID = nil
			c.UpdatedAt = s.nextTimestamp(c.UpdatedAt)
			c.SyncStatus = database.StatusPending
			if err := c.Update(tx); err != nil {
				return err
			}
		}

		if err := f.Expunge(tx); err != nil {
			return err
		}

		_, err = s.queue.EnqueueDelete(tx, database.CollectionFolders, id)
		return err
	})
}
