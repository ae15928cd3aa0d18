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

// Package infra initializes the client environment
package infra

import (
	"os"

	"github.com/driftnote/driftnote/pkg/cli/config"
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/driftnote/driftnote/pkg/clock"
	"github.com/driftnote/driftnote/pkg/dirs"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// RunEFunc is a function type of driftnote commands
type RunEFunc func(*cobra.Command, []string) error

func getPaths() context.Paths {
	app := dirs.AppPaths()

	return context.Paths{
		Home:   dirs.Home,
		Config: app.Config,
		Data:   app.Data,
		Cache:  app.Cache,
	}
}

// Init initializes the driftnote environment and returns a new context.
// dbPath overrides the default location of the local store.
func Init(versionTag, dbPath string) (*context.DriftnoteCtx, error) {
	paths := getPaths()

	if err := initFiles(paths); err != nil {
		return nil, errors.Wrap(err, "initializing files")
	}

	if dbPath == "" {
		dbPath = context.DBPath(paths)
	}
	db, err := database.Open(dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to db")
	}

	ctx, err := setupCtx(context.DriftnoteCtx{
		Paths:   paths,
		Version: versionTag,
		DB:      db,
		Clock:   clock.New(),
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Debug("context: %+v\n", context.Redact(ctx))

	return &ctx, nil
}

// setupCtx migrates the local store, reads the configuration and wires the
// services of the context
func setupCtx(ctx context.DriftnoteCtx) (context.DriftnoteCtx, error) {
	n, err := database.Migrate(ctx.DB)
	if err != nil {
		return ctx, errors.Wrap(err, "running migration")
	}
	if n > 0 {
		log.Debug("applied %d migrations\n", n)
	}

	cf, err := config.Read(ctx.Paths.Config)
	if err != nil {
		return ctx, errors.Wrap(err, "reading config")
	}
	creds, err := config.ResolveCredentials(ctx.Paths.Config, cf)
	if err != nil {
		return ctx, errors.Wrap(err, "resolving remote credentials")
	}
	ctx.Config = cf
	ctx.Credentials = creds

	db := ctx.DB
	tokens := remote.TokenFunc(func() string {
		s, err := remote.LoadSession(db)
		if err != nil {
			return ""
		}

		return s.AccessToken
	})

	ctx = context.Assemble(ctx, remote.New(creds, tokens, ctx.Version))

	if _, err := ctx.State.SeedStarterContent(); err != nil {
		return ctx, errors.Wrap(err, "seeding starter content")
	}

	return ctx, nil
}

// getEditorCommand returns the system's editor command with appropriate flags,
// if necessary, to make the command wait until editor is close to exit.
func getEditorCommand() string {
	editor := os.Getenv("EDITOR")

	var ret string

	switch editor {
	case "atom":
		ret = "atom -w"
	case "subl":
		ret = "subl -n -w"
	case "code":
		ret = "code -n -w"
	case "mate":
		ret = "mate -w"
	case "vim":
		ret = "vim"
	case "nano":
		ret = "nano"
	case "emacs":
		ret = "emacs"
	case "nvim":
		ret = "nvim"
	default:
		ret = "vi"
	}

	return ret
}

// initConfigFile populates a new config file if it does not exist yet
func initConfigFile(configDir string) error {
	path := config.GetPath(configDir)
	ok, err := utils.FileExists(path)
	if err != nil {
		return errors.Wrap(err, "checking if config exists")
	}
	if ok {
		return nil
	}

	cf := config.Config{
		Editor:       getEditorCommand(),
		SyncInterval: config.DefaultSyncInterval.String(),
	}

	if err := config.Write(configDir, cf); err != nil {
		return errors.Wrap(err, "writing config")
	}

	return nil
}

// initFiles creates, if necessary, the driftnote directories and files inside
func initFiles(paths context.Paths) error {
	if err := context.InitDirs(paths); err != nil {
		return errors.Wrap(err, "creating the driftnote dirs")
	}
	if err := initConfigFile(paths.Config); err != nil {
		return errors.Wrap(err, "generating the config file")
	}
	if err := utils.Touch(context.WakePath(paths)); err != nil {
		return errors.Wrap(err, "touching the wake file")
	}

	return nil
}
