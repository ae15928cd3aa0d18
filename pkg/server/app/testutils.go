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

package app

import (
	"testing"
	"time"

	"github.com/driftnote/driftnote/pkg/clock"
	"github.com/driftnote/driftnote/pkg/server/realtime"
	"github.com/driftnote/driftnote/pkg/server/testutils"
)

// NewTest returns an app for a testing environment backed by an in-memory
// database
func NewTest(t *testing.T) App {
	c := clock.NewMock()
	c.SetNow(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))

	return App{
		DB:           testutils.InitMemoryDB(t),
		Clock:        c,
		EmailBackend: &testutils.MockEmailbackendImplementation{},
		Realtime:     realtime.NewHub(),
		WebURL:       "http://127.0.0.1",
		APIKey:       testutils.APIKey,
		JWTSecret:    []byte(testutils.JWTSecret),
		SessionTTL:   24 * time.Hour,
	}
}
