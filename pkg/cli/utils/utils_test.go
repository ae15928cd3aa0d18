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

package utils

import (
	"fmt"
	"testing"
	"time"

	"github.com/driftnote/driftnote/pkg/assert"
)

func TestFormatTime(t *testing.T) {
	loc := time.FixedZone("PST", -8*60*60)
	got := FormatTime(time.Date(2024, time.January, 1, 4, 0, 1, 500*int(time.Millisecond), loc))

	assert.Equal(t, got, "2024-01-01T12:00:01.500Z", "result mismatch")
}

func TestEpochMillis(t *testing.T) {
	testCases := []struct {
		input    string
		expected int64
	}{
		{"2024-01-01T00:00:00Z", 1704067200000},
		{"2024-01-01T00:00:01.5Z", 1704067201500},
		{"2024-01-01T00:00:03.000Z", 1704067203000},
		{"2024-01-01T09:00:00+09:00", 1704067200000},
		{"not a time", 0},
		{"", 0},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			assert.Equal(t, EpochMillis(tc.input), tc.expected, "result mismatch")
		})
	}
}

func TestNextTimestamp(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		prev     string
		expected string
	}{
		{
			prev:     "2023-12-31T00:00:00.000Z",
			expected: "2024-01-01T00:00:00.000Z",
		},
		{
			prev:     "2024-01-01T00:00:00.000Z",
			expected: "2024-01-01T00:00:00.001Z",
		},
		{
			prev:     "2024-01-01T00:00:05.000Z",
			expected: "2024-01-01T00:00:05.001Z",
		},
		{
			prev:     "",
			expected: "2024-01-01T00:00:00.000Z",
		},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			assert.Equal(t, NextTimestamp(now, tc.prev), tc.expected, "result mismatch")
		})
	}
}

func TestGenerateUUID(t *testing.T) {
	a, err := GenerateUUID()
	assert.Nil(t, err, "generating a")
	b, err := GenerateUUID()
	assert.Nil(t, err, "generating b")

	assert.NotEqual(t, a, b, "uuids collide")
	assert.Equal(t, len(a), 36, "length mismatch")
}

func TestIsNumber(t *testing.T) {
	assert.Equal(t, IsNumber("42"), true, "42")
	assert.Equal(t, IsNumber("4a"), false, "4a")
	assert.Equal(t, IsNumber(""), false, "empty")
}
