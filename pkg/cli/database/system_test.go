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
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
)

func TestSystem(t *testing.T) {
	db := InitTestMemoryDB(t)

	var val string
	assert.Equal(t, GetSystem(db, "k", &val), ErrNotFound, "missing key")

	assert.Nil(t, UpsertSystem(db, "k", "v1"), "inserting")
	assert.Nil(t, UpsertSystem(db, "k", "v2"), "updating")
	assert.Nil(t, GetSystem(db, "k", &val), "getting")
	assert.Equal(t, val, "v2", "value mismatch")

	assert.Nil(t, UpsertSystem(db, "n", 42), "inserting int")
	var n int64
	assert.Nil(t, GetSystem(db, "n", &n), "getting int")
	assert.Equal(t, n, int64(42), "int mismatch")

	assert.Nil(t, DeleteSystem(db, "k"), "deleting")
	assert.Equal(t, GetSystem(db, "k", &val), ErrNotFound, "deleted key")
}
