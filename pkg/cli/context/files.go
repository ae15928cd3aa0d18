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

	"github.com/driftnote/driftnote/pkg/cli/consts"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/pkg/errors"
)

// InitDirs creates the driftnote directories if they don't already exist.
func InitDirs(paths Paths) error {
	if paths.Config != "" {
		if err := utils.EnsureDir(paths.Config); err != nil {
			return errors.Wrap(err, "initializing config dir")
		}
	}
	if paths.Data != "" {
		if err := utils.EnsureDir(paths.Data); err != nil {
			return errors.Wrap(err, "initializing data dir")
		}
	}
	if paths.Cache != "" {
		if err := utils.EnsureDir(paths.Cache); err != nil {
			return errors.Wrap(err, "initializing cache dir")
		}
	}

	return nil
}

// DBPath returns the default location of the local store
func DBPath(paths Paths) string {
	return filepath.Join(paths.Data, consts.DBFileName)
}

// WakePath returns the location of the file touched by interactive commands
func WakePath(paths Paths) string {
	return filepath.Join(paths.Cache, consts.WakeFilename)
}
