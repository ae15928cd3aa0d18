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

package clock

import (
	"testing"
	"time"

	"github.com/driftnote/driftnote/pkg/assert"
)

func TestMockAdvance(t *testing.T) {
	c := NewMock()
	start := c.Now()

	c.Advance(2500 * time.Millisecond)

	assert.Equal(t, c.Now().Sub(start), 2500*time.Millisecond, "elapsed mismatch")
}

func TestMockSetNowNormalizesToUTC(t *testing.T) {
	c := NewMock()
	loc := time.FixedZone("KST", 9*60*60)

	c.SetNow(time.Date(2024, time.March, 1, 9, 0, 0, 0, loc))

	assert.Equal(t, c.Now().Location(), time.UTC, "location mismatch")
	assert.Equal(t, c.Now().Hour(), 0, "hour mismatch")
}
