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

package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/driftnote/driftnote/pkg/clock"
	"github.com/driftnote/driftnote/pkg/server/app"
	"github.com/driftnote/driftnote/pkg/server/config"
	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/mailer"
	"github.com/driftnote/driftnote/pkg/server/realtime"
	"gorm.io/gorm"
)

func initDB(cfg config.Config) *gorm.DB {
	return database.Connect(cfg.DBPath, cfg.DatabaseURL, cfg.LogLevel)
}

func initApp(cfg config.Config) app.App {
	db := initDB(cfg)

	return app.App{
		DB:                  db,
		Clock:               clock.New(),
		EmailBackend:        mailer.NewBackend(),
		Realtime:            realtime.NewHub(),
		WebURL:              cfg.WebURL,
		APIKey:              cfg.APIKey,
		JWTSecret:           []byte(cfg.JWTSecret),
		SessionTTL:          cfg.SessionDuration(),
		DisableRegistration: cfg.DisableRegistration,
	}
}

// printFlags prints flags with -- prefix for consistency with CLI
func printFlags(fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		fmt.Printf("  --%s", f.Name)

		name, usage := flag.UnquoteUsage(f)
		if name != "" {
			fmt.Printf(" %s", name)
		}
		fmt.Println()

		if usage != "" {
			fmt.Printf("    \t%s", usage)
			if f.DefValue != "" && f.DefValue != "false" {
				fmt.Printf(" (default: %s)", f.DefValue)
			}
			fmt.Println()
		}
	})
}

// setupFlagSet creates a FlagSet with standard usage format
func setupFlagSet(name, usageCmd string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Printf(`Usage:
  %s [flags]

Flags:
`, usageCmd)
		printFlags(fs)
	}
	return fs
}

// requireString validates that a required string flag is not empty
func requireString(fs *flag.FlagSet, value, fieldName string) {
	if value == "" {
		fmt.Printf("Error: %s is required\n", fieldName)
		fs.Usage()
		os.Exit(1)
	}
}

// storageFlags registers the flags that locate the database
func storageFlags(fs *flag.FlagSet) (dbPath, databaseURL *string) {
	dbPath = fs.String("dbPath", "", "Path to SQLite database file (env: DBPath, default: $XDG_DATA_HOME/driftnote/server.db)")
	databaseURL = fs.String("databaseUrl", "", "Postgres connection string, used instead of the SQLite file when set (env: DATABASE_URL)")

	return dbPath, databaseURL
}

// setupAppWithDB connects to the database and returns an app that manages
// its data, along with a cleanup function
func setupAppWithDB(fs *flag.FlagSet, dbPath, databaseURL string) (*app.App, func()) {
	cfg, err := config.NewStorage(config.Params{
		DBPath:      dbPath,
		DatabaseURL: databaseURL,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		fs.Usage()
		os.Exit(1)
	}

	a := app.App{
		DB:    initDB(cfg),
		Clock: clock.New(),
	}
	cleanup := func() {
		database.Close(a.DB)
	}

	return &a, cleanup
}
