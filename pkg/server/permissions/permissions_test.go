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

package permissions

import (
	"fmt"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/server/database"
)

func TestNoteAccess(t *testing.T) {
	owner := database.User{UUID: "owner"}
	friend := database.User{UUID: "friend"}
	note := database.Note{ID: "n1", UserID: owner.UUID}

	viewShare := &database.AcceptedShare{UserID: friend.UUID, NoteID: note.ID, Permission: database.PermissionView}
	editShare := &database.AcceptedShare{UserID: friend.UUID, NoteID: note.ID, Permission: database.PermissionEdit}
	otherNoteShare := &database.AcceptedShare{UserID: friend.UUID, NoteID: "n2", Permission: database.PermissionEdit}

	testCases := []struct {
		user         *database.User
		note         database.Note
		share        *database.AcceptedShare
		expectedView bool
		expectedEdit bool
	}{
		{user: &owner, note: note, share: nil, expectedView: true, expectedEdit: true},
		{user: &friend, note: note, share: nil, expectedView: false, expectedEdit: false},
		{user: &friend, note: note, share: viewShare, expectedView: true, expectedEdit: false},
		{user: &friend, note: note, share: editShare, expectedView: true, expectedEdit: true},
		{user: &friend, note: note, share: otherNoteShare, expectedView: false, expectedEdit: false},
		{user: &owner, note: note, share: editShare, expectedView: true, expectedEdit: true},
		{user: nil, note: note, share: nil, expectedView: false, expectedEdit: false},
		{user: &owner, note: database.Note{ID: "n3"}, share: nil, expectedView: false, expectedEdit: false},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			assert.Equal(t, ViewNote(tc.user, tc.note, tc.share), tc.expectedView, "view mismatch")
			assert.Equal(t, EditNote(tc.user, tc.note, tc.share), tc.expectedEdit, "edit mismatch")
		})
	}
}
