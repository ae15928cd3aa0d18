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

package tag

import (
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/pkg/errors"
)

func TestLookup(t *testing.T) {
	ctx := context.InitTestCtx(t, remote.Null{})

	urgent, err := ctx.State.CreateTag("urgent", "")
	assert.Nil(t, err, "creating tag")

	byID, err := Lookup(ctx, urgent.ID)
	assert.Nil(t, err, "looking up by id")
	assert.Equal(t, byID.Name, "urgent", "name mismatch")

	byName, err := Lookup(ctx, "urgent")
	assert.Nil(t, err, "looking up by name")
	assert.Equal(t, byName.ID, urgent.ID, "id mismatch")

	_, err = Lookup(ctx, "missing")
	assert.Equal(t, errors.Cause(err), database.ErrNotFound, "error mismatch")
}
