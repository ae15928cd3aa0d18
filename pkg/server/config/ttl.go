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

package config

import (
	"strconv"
	"time"

	"github.com/pkg/errors"
)

func parseHours(s string) (time.Duration, error) {
	h, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if h <= 0 {
		return 0, errors.New("must be positive")
	}

	return time.Duration(h) * time.Hour, nil
}

// SessionDuration returns the lifetime of the access tokens the server issues
func (c Config) SessionDuration() time.Duration {
	d, err := parseHours(c.SessionTTL)
	if err != nil {
		return 30 * 24 * time.Hour
	}

	return d
}
