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

package dirs

import (
	"path/filepath"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
)

func TestDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")
	Reload()

	assert.NotEqual(t, Home, "", "home is empty")

	testCases := []struct {
		got      string
		expected string
	}{
		{
			got:      ConfigHome,
			expected: filepath.Join(Home, ".config"),
		},
		{
			got:      DataHome,
			expected: filepath.Join(Home, ".local", "share"),
		},
		{
			got:      CacheHome,
			expected: filepath.Join(Home, ".cache"),
		},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.got, tc.expected, "result mismatch")
	}
}

func TestCustomDirs(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	t.Setenv("XDG_DATA_HOME", "/custom/data")
	t.Setenv("XDG_CACHE_HOME", "/custom/cache")
	Reload()

	p := AppPaths()
	assert.Equal(t, p.Config, "/custom/config/driftnote", "config mismatch")
	assert.Equal(t, p.Data, "/custom/data/driftnote", "data mismatch")
	assert.Equal(t, p.Cache, "/custom/cache/driftnote", "cache mismatch")
}
