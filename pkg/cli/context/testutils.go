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
	"path/filepath"
	"testing"

	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/clock"
	"github.com/pkg/errors"
)

// getDefaultTestPaths creates default test paths under a temp directory
func getDefaultTestPaths(t *testing.T) Paths {
	tmpDir := t.TempDir()
	return Paths{
		Home:   tmpDir,
		Config: filepath.Join(tmpDir, "config"),
		Data:   filepath.Join(tmpDir, "data"),
		Cache:  filepath.Join(tmpDir, "cache"),
	}
}

// InitTestCtx initializes a test context with an in-memory database, a mock
// clock and the given remote service
func InitTestCtx(t *testing.T, svc remote.Service) DriftnoteCtx {
	paths := getDefaultTestPaths(t)
	if err := InitDirs(paths); err != nil {
		t.Fatal(errors.Wrap(err, "creating test directories"))
	}

	ctx := DriftnoteCtx{
		Paths:   paths,
		Version: "test",
		DB:      database.InitTestMemoryDB(t),
		Clock:   clock.NewMock(),
	}

	return Assemble(ctx, svc)
}
