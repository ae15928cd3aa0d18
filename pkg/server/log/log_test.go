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

package log

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/pkg/errors"
)

func TestSetLevel(t *testing.T) {
	defer SetLevel(LevelInfo)

	SetLevel(LevelDebug)
	assert.Equal(t, std.level, LevelDebug, "level mismatch")

	SetLevel(LevelError)
	assert.Equal(t, std.level, LevelError, "level mismatch")

	SetLevel("WARN")
	assert.Equal(t, std.level, LevelWarn, "level mismatch")
}

func TestValidLevel(t *testing.T) {
	assert.Equal(t, ValidLevel("debug"), true, "debug mismatch")
	assert.Equal(t, ValidLevel("Error"), true, "error mismatch")
	assert.Equal(t, ValidLevel("verbose"), false, "verbose mismatch")
	assert.Equal(t, ValidLevel(""), false, "empty mismatch")
}

func TestShouldLog(t *testing.T) {
	defer SetLevel(LevelInfo)

	testCases := []struct {
		currentLevel string
		logLevel     string
		expected     bool
		description  string
	}{
		{LevelDebug, LevelDebug, true, "debug level should show debug"},
		{LevelDebug, LevelError, true, "debug level should show error"},
		{LevelInfo, LevelDebug, false, "info level should not show debug"},
		{LevelInfo, LevelInfo, true, "info level should show info"},
		{LevelInfo, LevelWarn, true, "info level should show warn"},
		{LevelWarn, LevelInfo, false, "warn level should not show info"},
		{LevelWarn, LevelWarn, true, "warn level should show warn"},
		{LevelError, LevelWarn, false, "error level should not show warn"},
		{LevelError, LevelError, true, "error level should show error"},
		{"bogus", LevelInfo, true, "unknown level falls back to info"},
	}

	for _, tc := range testCases {
		SetLevel(tc.currentLevel)
		assert.Equal(t, shouldLog(tc.logLevel), tc.expected, tc.description)
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	WithFields(Fields{
		"user": "u1",
		"err":  errors.New("boom"),
	}).Warn("upsert rejected")

	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(errors.Wrap(err, "decoding log line"))
	}

	assert.Equal(t, got["level"], LevelWarn, "level mismatch")
	assert.Equal(t, got["msg"], "upsert rejected", "message mismatch")
	assert.Equal(t, got["user"], "u1", "field mismatch")
	assert.Equal(t, got["err"], "boom", "error field mismatch")
}

func TestWriteBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)
	defer SetLevel(LevelInfo)

	SetLevel(LevelError)
	Info("hidden")

	assert.Equal(t, buf.Len(), 0, "output mismatch")
}

func readLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	var got map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatal(errors.Wrap(err, "decoding log line"))
	}

	return got
}

func TestErrorWrap(t *testing.T) {
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	now := std.now
	std.now = func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) }
	defer func() { std.now = now }()

	WithFields(Fields{"collection": "notes"}).ErrorWrap(errors.New("disk full"), "upserting row")

	got := readLine(t, &buf)
	assert.Equal(t, got["level"], LevelError, "level mismatch")
	assert.Equal(t, got["msg"], "upserting row", "message mismatch")
	assert.Equal(t, got["error"], "disk full", "error mismatch")
	assert.Equal(t, got["collection"], "notes", "field mismatch")
	assert.Equal(t, got["ts_unix"], float64(1772359200), "timestamp mismatch")
}

func TestWithCopiesFields(t *testing.T) {
	base := WithFields(Fields{"user": "u1"})
	child := base.With("row", "n1")

	assert.Equal(t, len(base.fields), 1, "base fields mismatch")
	assert.Equal(t, len(child.fields), 2, "child fields mismatch")
	assert.Equal(t, child.fields["row"], "n1", "row mismatch")
}
