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

package logout

import (
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/testutils"
	"github.com/pkg/errors"
)

func TestDo(t *testing.T) {
	ctx := context.InitTestCtx(t, testutils.NewMemoryRemote())
	testutils.Login(t, ctx.DB, "user-1", "alice@example.com")

	assert.Nil(t, Do(ctx), "logging out")

	_, err := remote.LoadSession(ctx.DB)
	assert.Equal(t, errors.Cause(err), remote.ErrUnauthenticated, "session should be cleared")

	assert.Equal(t, Do(ctx), ErrNotLoggedIn, "second logout error mismatch")
}
