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
	"fmt"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
)

func TestNoteVersionCap(t *testing.T) {
	db := InitTestMemoryDB(t)

	for i := 0; i < MaxNoteVersions+5; i++ {
		v := NoteVersion{
			ID:        fmt.Sprintf("v%02d", i),
			NoteID:    "n1",
			Title:     fmt.Sprintf("title %d", i),
			CreatedAt: fmt.Sprintf("2024-01-01T00:00:%02d.000Z", i),
		}
		assert.Nil(t, v.Insert(db), fmt.Sprintf("inserting version %d", i))
	}
	assert.Nil(t, NoteVersion{ID: "other", NoteID: "n2", CreatedAt: "2024-01-01T00:00:00.000Z"}.Insert(db), "inserting other note version")

	versions, err := GetNoteVersions(db, "n1")
	assert.Nil(t, err, "getting versions")
	assert.Equal(t, len(versions), MaxNoteVersions, "version count")
	assert.Equal(t, versions[0].ID, "v34", "newest first")
	assert.Equal(t, versions[len(versions)-1].ID, "v05", "oldest evicted first")

	others, err := GetNoteVersions(db, "n2")
	assert.Nil(t, err, "getting other versions")
	assert.Equal(t, len(others), 1, "eviction is per note")
}
