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
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/driftnote/driftnote/pkg/prompt"
	"github.com/driftnote/driftnote/pkg/server/app"
	"github.com/driftnote/driftnote/pkg/server/log"
	"github.com/pkg/errors"
)

// errAborted is returned when the operator declines a confirmation
var errAborted = errors.New("aborted by user")

// userCommand is a subcommand of 'user'
type userCommand struct {
	name  string
	about string
	run   func(args []string, stdin io.Reader, stdout io.Writer) error
}

var userCommands = []userCommand{
	{"create", "Create a new user", userCreateCmd},
	{"list", "List users with the number of notes they own", userListCmd},
	{"remove", "Remove a user along with their notes, folders, tags and shares", userRemoveCmd},
	{"reset-password", "Reset a user's password", userResetPasswordCmd},
}

// operatorErrors are reported as a plain message rather than logged
var operatorErrors = []error{
	app.ErrNotFound,
	app.ErrDuplicateEmail,
	app.ErrEmailInvalid,
	app.ErrPasswordTooShort,
}

func isOperatorError(err error) bool {
	cause := errors.Cause(err)
	for _, e := range operatorErrors {
		if cause == e {
			return true
		}
	}

	return false
}

func confirm(r io.Reader, w io.Writer, question string, optimistic bool) (bool, error) {
	fmt.Fprint(w, prompt.FormatQuestion(question, optimistic)+" ")

	confirmed, err := prompt.ReadYesNo(r, optimistic)
	if err != nil {
		return false, errors.Wrap(err, "reading stdin")
	}

	return confirmed, nil
}

func userCreateCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := setupFlagSet("create", "driftnote-server user create")
	email := fs.String("email", "", "User email address (required)")
	password := fs.String("password", "", "User password (required)")
	dbPath, databaseURL := storageFlags(fs)
	fs.Parse(args)

	requireString(fs, *email, "email")
	requireString(fs, *password, "password")

	a, cleanup := setupAppWithDB(fs, *dbPath, *databaseURL)
	defer cleanup()

	user, err := a.CreateUser(*email, *password)
	if err != nil {
		return errors.Wrap(err, "creating user")
	}

	fmt.Fprintf(stdout, "Created user %s (%s)\n", user.Email, user.UUID)
	return nil
}

func userListCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := setupFlagSet("list", "driftnote-server user list")
	dbPath, databaseURL := storageFlags(fs)
	fs.Parse(args)

	a, cleanup := setupAppWithDB(fs, *dbPath, *databaseURL)
	defer cleanup()

	users, err := a.ListUsers()
	if err != nil {
		return errors.Wrap(err, "listing users")
	}

	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tID\tNOTES\tLAST LOGIN")
	for _, u := range users {
		lastLogin := "never"
		if u.LastLoginAt != nil {
			lastLogin = u.LastLoginAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", u.Email, u.UUID, u.Notes, lastLogin)
	}

	return tw.Flush()
}

func userRemoveCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := setupFlagSet("remove", "driftnote-server user remove")
	email := fs.String("email", "", "User email address (required)")
	yes := fs.Bool("yes", false, "Skip the confirmation")
	dbPath, databaseURL := storageFlags(fs)
	fs.Parse(args)

	requireString(fs, *email, "email")

	a, cleanup := setupAppWithDB(fs, *dbPath, *databaseURL)
	defer cleanup()

	if _, err := a.GetUserByEmail(*email); err != nil {
		return errors.Wrapf(err, "finding user %s", *email)
	}

	if !*yes {
		ok, err := confirm(stdin, stdout, fmt.Sprintf("Remove user %s and everything they own?", *email), false)
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}

	if err := a.RemoveUser(*email); err != nil {
		return errors.Wrapf(err, "removing user %s", *email)
	}

	fmt.Fprintf(stdout, "Removed user %s\n", *email)
	return nil
}

func userResetPasswordCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := setupFlagSet("reset-password", "driftnote-server user reset-password")
	email := fs.String("email", "", "User email address (required)")
	password := fs.String("password", "", "New password (required)")
	dbPath, databaseURL := storageFlags(fs)
	fs.Parse(args)

	requireString(fs, *email, "email")
	requireString(fs, *password, "password")

	a, cleanup := setupAppWithDB(fs, *dbPath, *databaseURL)
	defer cleanup()

	user, err := a.GetUserByEmail(*email)
	if err != nil {
		return errors.Wrapf(err, "finding user %s", *email)
	}
	if err := app.UpdateUserPassword(a.DB, user, *password); err != nil {
		return errors.Wrap(err, "updating password")
	}

	fmt.Fprintf(stdout, "Reset the password of %s\n", *email)
	return nil
}

func printUserUsage(w io.Writer) {
	fmt.Fprint(w, "Usage:\n  driftnote-server user [command]\n\nAvailable commands:\n")
	for _, c := range userCommands {
		fmt.Fprintf(w, "  %s: %s\n", c.name, c.about)
	}
}

func userCmd(args []string) {
	if len(args) < 1 {
		printUserUsage(os.Stdout)
		os.Exit(1)
	}

	for _, c := range userCommands {
		if c.name != args[0] {
			continue
		}

		err := c.run(args[1:], os.Stdin, os.Stdout)
		switch {
		case err == nil:
			return
		case errors.Cause(err) == errAborted:
			fmt.Println("Aborted by user")
			return
		case isOperatorError(err):
			fmt.Printf("Error: %s\n", err)
		default:
			log.ErrorWrap(err, c.name)
		}
		os.Exit(1)
	}

	fmt.Printf("Unknown subcommand: %s\n\n", args[0])
	printUserUsage(os.Stdout)
	os.Exit(1)
}
