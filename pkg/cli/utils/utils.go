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

// Package utils provides identity and timestamp helpers shared by the client
package utils

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// TimeLayout is the ISO-8601 UTC layout with millisecond precision used for
// every persisted timestamp
const TimeLayout = "2006-01-02T15:04:05.000Z"

// GenerateUUID returns a uuid v4 in string
func GenerateUUID() (string, error) {
	u, err := uuid.NewRandom()
	if err != nil {
		return "", errors.Wrap(err, "generating uuid")
	}

	return u.String(), nil
}

// FormatTime formats the given time as an ISO-8601 UTC timestamp
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime parses an ISO-8601 timestamp. Fractional seconds and offsets are
// optional.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "parsing timestamp %q", s)
	}

	return t.UTC(), nil
}

// EpochMillis returns the unix milliseconds of the given ISO-8601 timestamp.
// An unparsable timestamp sorts before every valid one.
func EpochMillis(s string) int64 {
	t, err := ParseTime(s)
	if err != nil {
		return 0
	}

	return t.UnixMilli()
}

// NextTimestamp formats now, or a millisecond after prev if now has not
// moved past it, so that every edit of an entity yields a newer updatedAt
func NextTimestamp(now time.Time, prev string) string {
	p, err := ParseTime(prev)
	if err == nil && !now.After(p) {
		now = p.Add(time.Millisecond)
	}

	return FormatTime(now)
}

// regexNumber is a regex that matches a string that looks like an integer
var regexNumber = regexp.MustCompile(`^\d+$`)

// IsNumber checks if the given string is in the form of a number
func IsNumber(s string) bool {
	if s == "" {
		return false
	}

	return regexNumber.MatchString(s)
}
