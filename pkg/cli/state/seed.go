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

	"github.com/driftnote/driftnote/pkg/cli/consts"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/pkg/errors"
)

// WelcomeNoteID is the id of the onboarding note. It is local-only and never uploaded.
const WelcomeNoteID = "welcome-note"

// StarterFolders are the folders created on a new device
var StarterFolders = []string{"Work", "Personal", "Ideas"}

// StarterTags are the tags created on a new device
var StarterTags = []string{"important", "todo", "later"}

const welcomeContent = `<h1>Welcome to Driftnote</h1>
<p>Notes are saved on this device first and synced whenever you are online.</p>
<p>Run <code>driftnote login</code> to sync across devices.</p>`

func containsFold(names []string, name string) bool {
	for _, n := range names {
		if strings.EqualFold(n, name) {
			return true
		}
	}

	return false
}

// IsStarterFolder returns true if the name is a starter folder name, ignoring case
func IsStarterFolder(name string) bool {
	return containsFold(StarterFolders, name)
}

// IsStarterTag returns true if the name is a starter tag name, ignoring case
func IsStarterTag(name string) bool {
	return containsFold(StarterTags, name)
}

// SeedStarterContent creates the starter folders, tags and the welcome note
// the first time it runs against a local store. It returns false if the
// content was already created.
func (s *State) SeedStarterContent() (bool, error) {
	var seeded string
	err := database.GetSystem(s.db, consts.SystemStarterSeeded, &seeded)
	if err == nil {
		return false, nil
	} else if errors.Cause(err) != database.ErrNotFound {
		return false, err
	}

	err = database.WithTx(s.db, func(tx *database.DB) error {
		now := s.now()

		for _, name := range StarterFolders {
			id, err := newID()
			if err != nil {
				return err
			}

			f := database.Folder{
				ID:         id,
				Name:       name,
				CreatedAt:  now,
				UpdatedAt:  now,
				SyncStatus: database.StatusPending,
			}
			if err := f.Insert(tx); err != nil {
				return err
			}
		}

		for _, name := range StarterTags {
			if _, err := s.insertTag(tx, name, ""); err != nil {
				return err
			}
		}

		welcome := database.Note{
			ID:         WelcomeNoteID,
			Title:      "Welcome",
			Content:    welcomeContent,
			NoteType:   database.DefaultNoteType,
			Pinned:     true,
			CreatedAt:  now,
			UpdatedAt:  now,
			SyncStatus: database.StatusSynced,
		}
		if err := welcome.Insert(tx); err != nil {
			return err
		}

		return database.UpsertSystem(tx, consts.SystemStarterSeeded, now)
	})
	if err != nil {
		return false, errors.Wrap(err, "seeding starter content")
	}

	return true, nil
}
