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

// Package dirs resolves the XDG base directories used for configuration,
// the local store and caches.
package dirs

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/pkg/errors"
)

// AppDirName is the directory created under each XDG base directory
const AppDirName = "driftnote"

// The environment variable names for the XDG base directory specification
var (
	envConfigHome = "XDG_CONFIG_HOME"
	envDataHome   = "XDG_DATA_HOME"
	envCacheHome  = "XDG_CACHE_HOME"
)

var (
	// Home is the home directory of the user
	Home string
	// ConfigHome is the full path to the directory in which user-specific
	// configurations should be written.
	ConfigHome string
	// DataHome is the full path to the directory in which user-specific data
	// files should be written.
	DataHome string
	// CacheHome is the full path to the directory in which user-specific
	// non-essential cached data should be written.
	CacheHome string
)

func init() {
	Reload()
}

// Reload reloads the directory definitions
func Reload() {
	Home = getHomeDir()
	ConfigHome = readPath(envConfigHome, filepath.Join(Home, ".config"))
	DataHome = readPath(envDataHome, filepath.Join(Home, ".local", "share"))
	CacheHome = readPath(envCacheHome, filepath.Join(Home, ".cache"))
}

// Paths is the set of application directories
type Paths struct {
	Config string
	Data   string
	Cache  string
}

// AppPaths returns the application directories under the current XDG base directories
func AppPaths() Paths {
	return Paths{
		Config: filepath.Join(ConfigHome, AppDirName),
		Data:   filepath.Join(DataHome, AppDirName),
		Cache:  filepath.Join(CacheHome, AppDirName),
	}
}

func getHomeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}

	usr, err := user.Current()
	if err != nil {
		panic(errors.Wrap(err, "getting home dir"))
	}

	return usr.HomeDir
}

func readPath(envName, defaultPath string) string {
	if dir := os.Getenv(envName); dir != "" {
		return dir
	}

	return defaultPath
}
