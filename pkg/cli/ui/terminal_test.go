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

package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
)

func withStdin(t *testing.T, input string) {
	prev := Stdin
	Stdin = strings.NewReader(input)
	t.Cleanup(func() { Stdin = prev })
}

func TestPromptInput(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "alice@example.com\n", expected: "alice@example.com"},
		{input: "  alice@example.com \r\n", expected: "alice@example.com"},
		{input: "no newline", expected: "no newline"},
		{input: "\n", expected: ""},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			withStdin(t, tc.input)

			var got string
			err := PromptInput("email", &got)
			assert.Nil(t, err, "prompting")
			assert.Equal(t, got, tc.expected, "input mismatch")
		})
	}
}

func TestPromptInputEmpty(t *testing.T) {
	withStdin(t, "")

	var got string
	err := PromptInput("email", &got)
	assert.NotEqual(t, err, nil, "an empty stdin is an error")
}

func TestPromptPasswordPiped(t *testing.T) {
	withStdin(t, " secret with spaces \n")

	var got string
	err := PromptPassword("password", &got)
	assert.Nil(t, err, "prompting")
	assert.Equal(t, got, " secret with spaces ", "piped passwords are kept as typed")
}

func TestConfirm(t *testing.T) {
	withStdin(t, "yes\n")

	ok, err := Confirm("delete?", false)
	assert.Nil(t, err, "confirming")
	assert.Equal(t, ok, true, "answer")
}

func TestReadStdInput(t *testing.T) {
	withStdin(t, "line one\nline two\n\n")

	got, err := ReadStdInput()
	assert.Nil(t, err, "reading")
	assert.Equal(t, got, "line one\nline two", "content mismatch")
}
