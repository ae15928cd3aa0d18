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

package main

import (
	"os"
	"strings"

	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	// commands
	"github.com/driftnote/driftnote/pkg/cli/cmd/daemon"
	"github.com/driftnote/driftnote/pkg/cli/cmd/folder"
	"github.com/driftnote/driftnote/pkg/cli/cmd/login"
	"github.com/driftnote/driftnote/pkg/cli/cmd/logout"
	"github.com/driftnote/driftnote/pkg/cli/cmd/note"
	"github.com/driftnote/driftnote/pkg/cli/cmd/purge"
	"github.com/driftnote/driftnote/pkg/cli/cmd/root"
	"github.com/driftnote/driftnote/pkg/cli/cmd/share"
	"github.com/driftnote/driftnote/pkg/cli/cmd/status"
	"github.com/driftnote/driftnote/pkg/cli/cmd/sync"
	"github.com/driftnote/driftnote/pkg/cli/cmd/tag"
	"github.com/driftnote/driftnote/pkg/cli/cmd/version"
)

// versionTag is populated during link time
var versionTag = "master"

// parseDBPath extracts --dbPath flag value from command line arguments
// regardless of where it appears (before or after subcommand).
// Returns empty string if not found.
func parseDBPath(args []string) string {
	for i, arg := range args {
		if strings.HasPrefix(arg, "--dbPath=") {
			return strings.TrimPrefix(arg, "--dbPath=")
		}
		if arg == "--dbPath" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}

func main() {
	// --dbPath can appear after the subcommand, where root.ParseFlags does
	// not see it, and the database is opened before cobra runs
	dbPath := parseDBPath(os.Args[1:])

	ctx, err := infra.Init(versionTag, dbPath)
	if err != nil {
		panic(errors.Wrap(err, "initializing context"))
	}
	defer ctx.DB.Close()

	root.Prepare(*ctx)
	root.Register(note.NewCmd(*ctx))
	root.Register(folder.NewCmd(*ctx))
	root.Register(tag.NewCmd(*ctx))
	root.Register(share.NewCmd(*ctx))
	root.Register(login.NewCmd(*ctx))
	root.Register(logout.NewCmd(*ctx))
	root.Register(sync.NewCmd(*ctx))
	root.Register(daemon.NewCmd(*ctx))
	root.Register(status.NewCmd(*ctx))
	root.Register(purge.NewCmd(*ctx))
	root.Register(version.NewCmd(*ctx))

	if err := root.Execute(); err != nil {
		log.Errorf("%s\n", err.Error())
		os.Exit(1)
	}
}
