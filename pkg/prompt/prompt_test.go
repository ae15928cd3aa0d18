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

package prompt

import (
	"fmt"
	"strings"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
)

func TestFormatQuestion(t *testing.T) {
	assert.Equal(t, FormatQuestion("delete folder Recipes?", false), "delete folder Recipes? (y/N)", "pessimistic mismatch")
	assert.Equal(t, FormatQuestion("continue?", true), "continue? (Y/n)", "optimistic mismatch")
}

func TestReadYesNo(t *testing.T) {
	testCases := []struct {
		input      string
		optimistic bool
		expected   bool
	}{
		{input: "y\n", optimistic: false, expected: true},
		{input: "YES\n", optimistic: false, expected: true},
		{input: "n\n", optimistic: false, expected: false},
		{input: "\n", optimistic: false, expected: false},
		{input: "  \n", optimistic: true, expected: true},
		{input: "no\n", optimistic: true, expected: false},
		{input: "maybe\n", optimistic: true, expected: false},
		{input: "yes", optimistic: false, expected: true},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			result, err := ReadYesNo(strings.NewReader(tc.input), tc.optimistic)
			assert.Nil(t, err, "reading answer")
			assert.Equal(t, result, tc.expected, "result mismatch")
		})
	}
}

func TestReadYesNoEmptyReader(t *testing.T) {
	if _, err := ReadYesNo(strings.NewReader(""), false); err == nil {
		t.Fatal("expected error when reading from empty reader")
	}
}
