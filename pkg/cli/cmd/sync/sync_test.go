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
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/state"
	"github.com/driftnote/driftnote/pkg/cli/sync"
	"github.com/driftnote/driftnote/pkg/cli/testutils"
)

func TestDo(t *testing.T) {
	rem := testutils.NewMemoryRemote()
	ctx := context.InitTestCtx(t, rem)
	testutils.Login(t, ctx.DB, "user-1", "alice@example.com")

	n, err := ctx.State.CreateNote(state.NoteParams{Title: "groceries", Content: "milk"})
	assert.Nil(t, err, "creating note")

	res, err := Do(ctx)
	assert.Nil(t, err, "syncing")
	assert.Equal(t, res.Status, sync.StatusSuccess, "status mismatch")
	assert.Equal(t, res.Uploaded, 1, "uploaded mismatch")

	_, ok := rem.Get(database.CollectionNotes, n.ID)
	assert.Equal(t, ok, true, "note should be on the remote")
}

func TestDoLoggedOut(t *testing.T) {
	ctx := context.InitTestCtx(t, testutils.NewMemoryRemote())

	res, err := Do(ctx)
	assert.Nil(t, err, "syncing")
	assert.Equal(t, res.Status, sync.StatusSkipped, "status mismatch")
}

func TestDoNotConfigured(t *testing.T) {
	ctx := context.InitTestCtx(t, remote.Null{})

	res, err := Do(ctx)
	assert.Nil(t, err, "syncing")
	assert.Equal(t, res.Status, sync.StatusSkipped, "status mismatch")
}
