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
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// timeLayout is the ISO-8601 layout of the timestamps clients send
const timeLayout = "2006-01-02T15:04:05.000Z"

func genUUID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "generating uuid")
	}

	return id.String(), nil
}

func (a *App) now() string {
	return a.Clock.Now().UTC().Format(timeLayout)
}

// ownerFilter resolves the user_id a select or delete applies to. Users may
// only address their own rows.
func ownerFilter(userID, requested string) (string, error) {
	if requested == "" || requested == userID {
		return userID, nil
	}

	return "", ErrForbidden
}
