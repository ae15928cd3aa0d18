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

package note

import (
	"fmt"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/cli/database"
)

func ids(notes []database.Note) []string {
	ret := []string{}
	for _, n := range notes {
		ret = append(ret, n.ID)
	}

	return ret
}

func TestFilterNotes(t *testing.T) {
	recipes := "recipes"
	one, two := int64(1), int64(2)

	notes := []database.Note{
		{ID: "a", UpdatedAt: "2024-01-01T00:00:01.000Z"},
		{ID: "b", UpdatedAt: "2024-01-01T00:00:05.000Z", Starred: true, Tags: []string{"work"}},
		{ID: "c", UpdatedAt: "2024-01-01T00:00:02.000Z", Pinned: true, FolderID: &recipes},
		{ID: "d", UpdatedAt: "2024-01-01T00:00:03.000Z", Archived: true},
		{ID: "e", UpdatedAt: "2024-01-01T00:00:04.000Z", Deleted: true, FolderID: &recipes},
		{ID: "f", UpdatedAt: "2024-01-01T00:00:00.000Z", Order: &two},
		{ID: "g", UpdatedAt: "2024-01-01T00:00:00.000Z", Order: &one},
	}

	testCases := []struct {
		filter   listFilter
		expected []string
	}{
		{
			filter:   listFilter{},
			expected: []string{"c", "g", "f", "b", "a"},
		},
		{
			filter:   listFilter{Starred: true},
			expected: []string{"b"},
		},
		{
			filter:   listFilter{Tag: "work"},
			expected: []string{"b"},
		},
		{
			filter:   listFilter{FolderID: recipes},
			expected: []string{"c"},
		},
		{
			filter:   listFilter{Archived: true},
			expected: []string{"d"},
		},
		{
			filter:   listFilter{Trash: true},
			expected: []string{"e"},
		},
		{
			filter:   listFilter{Tag: "missing"},
			expected: []string{},
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			got := filterNotes(notes, tc.filter)
			assert.DeepEqual(t, ids(got), tc.expected, "result mismatch")
		})
	}
}

func TestTimeline(t *testing.T) {
	versions := []database.NoteVersion{
		{ID: "v2", Content: "second", CreatedAt: "2024-01-01T00:00:02.000Z"},
		{ID: "v1", Content: "first", CreatedAt: "2024-01-01T00:00:01.000Z"},
	}
	current := database.Note{ID: "n1", Content: "third", UpdatedAt: "2024-01-01T00:00:03.000Z"}

	got := timeline(versions, current)

	var contents []string
	for _, v := range got {
		contents = append(contents, v.Content)
	}
	assert.DeepEqual(t, contents, []string{"first", "second", "third"}, "content order mismatch")
	assert.Equal(t, got[2].CreatedAt, current.UpdatedAt, "current version time mismatch")
}
