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

package context

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
)

func assertDirsExist(t *testing.T, paths Paths) {
	for _, dir := range []string{paths.Config, paths.Data, paths.Cache} {
		info, err := os.Stat(dir)
		assert.Equal(t, err, nil, dir+" should exist")
		assert.Equal(t, info.IsDir(), true, dir+" should be a directory")
	}
}

func TestInitDirs(t *testing.T) {
	tmpDir := t.TempDir()

	paths := Paths{
		Config: filepath.Join(tmpDir, "config", "driftnote"),
		Data:   filepath.Join(tmpDir, "data", "driftnote"),
		Cache:  filepath.Join(tmpDir, "cache", "driftnote"),
	}

	err := InitDirs(paths)
	assert.Equal(t, err, nil, "InitDirs should succeed")
	assertDirsExist(t, paths)

	err = InitDirs(paths)
	assert.Equal(t, err, nil, "InitDirs should succeed when dirs already exist")
	assertDirsExist(t, paths)
}

func TestPaths(t *testing.T) {
	paths := Paths{Data: "/data", Cache: "/cache"}

	assert.Equal(t, DBPath(paths), "/data/driftnote.db", "db path")
	assert.Equal(t, WakePath(paths), "/cache/wake", "wake path")
}

func TestRedact(t *testing.T) {
	ctx := DriftnoteCtx{}
	ctx.Credentials.Key = "secret-key-value-123"
	ctx.Config.RemoteKey = "secret-key-value-123"

	got := Redact(ctx)
	assert.Equal(t, got.Credentials.Key, "1", "credential key is redacted")
	assert.Equal(t, got.Config.RemoteKey, "1", "config key is redacted")
	assert.Equal(t, ctx.Credentials.Key, "secret-key-value-123", "the original is untouched")
}
