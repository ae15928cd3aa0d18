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
	"strings"

	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/state"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/pkg/errors"
)

func findFolderByName(folders []database.Folder, name string) (database.Folder, bool) {
	for _, f := range folders {
		if strings.EqualFold(f.Name, name) {
			return f, true
		}
	}

	return database.Folder{}, false
}

func sameFolder(a, b database.Folder) bool {
	if (a.ParentID == nil) != (b.ParentID == nil) {
		return false
	}
	if a.ParentID != nil && *a.ParentID != *b.ParentID {
		return false
	}

	return a.Name == b.Name && a.Icon == b.Icon && a.Color == b.Color &&
		a.CreatedAt == b.CreatedAt && a.UpdatedAt == b.UpdatedAt && a.SyncStatus == b.SyncStatus
}

// syncFolders uploads pending folders and merges the remote ones. A failure
// to list the remote folders skips both steps.
func (c *cycle) syncFolders() error {
	rows, err := c.remote.Select(c.ctx, database.CollectionFolders, c.filter())
	if err != nil {
		c.fail("selecting folders: %v\n", err)
		return nil
	}

	var remoteFolders []database.Folder
	known := map[string]bool{}
	for _, r := range rows {
		f := remote.FolderFromRow(r)
		remoteFolders = append(remoteFolders, f)
		known[f.ID] = true
	}

	locals, err := database.GetFolders(c.db)
	if err != nil {
		return err
	}

	skip := map[string]bool{}
	for _, f := range locals {
		if !known[f.ID] && state.IsStarterFolder(f.Name) {
			if match, ok := findFolderByName(remoteFolders, f.Name); ok {
				if err := c.foldFolder(f, match); err != nil {
					return err
				}
				continue
			}
		}

		if f.SyncStatus != database.StatusPending {
			continue
		}

		if _, err := c.remote.Upsert(c.ctx, database.CollectionFolders, remote.FolderToRow(f, c.userID)); err != nil {
			c.fail("uploading folder %s: %v\n", f.ID, err)
			skip[f.ID] = true
			continue
		}
		if _, err := database.MarkFolderSynced(c.db, f.ID, f.UpdatedAt); err != nil {
			return err
		}
		skip[f.ID] = true
		c.result.Uploaded++
	}

	for _, rf := range remoteFolders {
		if skip[rf.ID] || c.deleted[database.CollectionFolders][rf.ID] {
			continue
		}

		local, err := database.GetFolder(c.db, rf.ID)
		if errors.Cause(err) == database.ErrNotFound {
			if err := rf.Insert(c.db); err != nil {
				return err
			}
			c.result.Downloaded++
			continue
		} else if err != nil {
			return err
		}

		if local.SyncStatus == database.StatusPending || sameFolder(local, rf) {
			continue
		}
		if err := rf.Update(c.db); err != nil {
			return err
		}
		c.result.Downloaded++
	}

	return nil
}

// foldFolder merges a starter folder created on this device into the remote
// folder of the same name. The notes and subfolders of the local folder move
// to the remote one and are re-uploaded.
func (c *cycle) foldFolder(local, target database.Folder) error {
	now := c.clock.Now()

	return database.WithTx(c.db, func(tx *database.DB) error {
		notes, err := database.GetNotesByFolder(tx, local.ID)
		if err != nil {
			return err
		}
		for _, n := range notes {
			n.FolderID = &target.ID
			n.UpdatedAt = utils.NextTimestamp(now, n.UpdatedAt)
			n.SyncStatus = database.StatusPending
			if err := n.Update(tx); err != nil {
				return err
			}
		}

		children, err := database.GetChildFolders(tx, local.ID)
		if err != nil {
			return err
		}
		for _, child := range children {
			child.ParentID = &target.ID
			child.UpdatedAt = utils.NextTimestamp(now, child.UpdatedAt)
			child.SyncStatus = database.StatusPending
			if err := child.Update(tx); err != nil {
				return err
			}
		}

		return local.Expunge(tx)
	})
}

func findTagByName(tags []database.Tag, name string) (database.Tag, bool) {
	for _, t := range tags {
		if strings.EqualFold(t.Name, name) {
			return t, true
		}
	}

	return database.Tag{}, false
}

// syncTags uploads pending tags and merges the remote ones, the same way
// folders are reconciled
func (c *cycle) syncTags() error {
	rows, err := c.remote.Select(c.ctx, database.CollectionTags, c.filter())
	if err != nil {
		c.fail("selecting tags: %v\n", err)
		return nil
	}

	var remoteTags []database.Tag
	known := map[string]bool{}
	for _, r := range rows {
		t := remote.TagFromRow(r)
		remoteTags = append(remoteTags, t)
		known[t.ID] = true
	}

	locals, err := database.GetTags(c.db)
	if err != nil {
		return err
	}

	skip := map[string]bool{}
	for _, t := range locals {
		if !known[t.ID] && state.IsStarterTag(t.Name) {
			if match, ok := findTagByName(remoteTags, t.Name); ok {
				if err := c.foldTag(t, match); err != nil {
					return err
				}
				continue
			}
		}

		if t.SyncStatus != database.StatusPending {
			continue
		}

		if _, err := c.remote.Upsert(c.ctx, database.CollectionTags, remote.TagToRow(t, c.userID)); err != nil {
			c.fail("uploading tag %s: %v\n", t.ID, err)
			skip[t.ID] = true
			continue
		}
		if _, err := database.MarkTagSynced(c.db, t); err != nil {
			return err
		}
		skip[t.ID] = true
		c.result.Uploaded++
	}

	for _, rt := range remoteTags {
		if skip[rt.ID] || c.deleted[database.CollectionTags][rt.ID] {
			continue
		}

		local, err := database.GetTag(c.db, rt.ID)
		if errors.Cause(err) == database.ErrNotFound {
			if err := rt.Insert(c.db); err != nil {
				return err
			}
			c.result.Downloaded++
			continue
		} else if err != nil {
			return err
		}

		if local.SyncStatus == database.StatusPending || local == rt {
			continue
		}
		if err := rt.Update(c.db); err != nil {
			return err
		}
		c.result.Downloaded++
	}

	return nil
}

// foldTag merges a starter tag created on this device into the remote tag
// of the same name. Notes are linked to tags by name, so they are only
// rewritten when the two names differ in case.
func (c *cycle) foldTag(local, target database.Tag) error {
	now := c.clock.Now()

	return database.WithTx(c.db, func(tx *database.DB) error {
		if local.Name != target.Name {
			notes, err := database.GetNotesByTag(tx, local.Name)
			if err != nil {
				return err
			}
			for _, n := range notes {
				n.Tags = database.NormalizeTags(database.ReplaceTag(n.Tags, local.Name, target.Name))
				n.UpdatedAt = utils.NextTimestamp(now, n.UpdatedAt)
				n.SyncStatus = database.StatusPending
				if err := n.Update(tx); err != nil {
					return err
				}
			}
		}

		return local.Expunge(tx)
	})
}
