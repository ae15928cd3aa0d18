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

package login

import (
	"context"
	"fmt"
	"net/url"

	dctx "github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  driftnote login

  * Create an account on the remote and log in
  driftnote login --signup`

var emailFlag, passwordFlag string
var signupFlag bool

// NewCmd returns a new login command
func NewCmd(ctx dctx.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "login",
		Short:   "Login to the remote",
		Example: example,
		RunE:    newRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&emailFlag, "username", "u", "", "email address for authentication")
	f.StringVarP(&passwordFlag, "password", "p", "", "password for authentication")
	f.BoolVar(&signupFlag, "signup", false, "create a new account")

	return cmd
}

// Do signs in with the given credentials and stores the session
func Do(ctx dctx.DriftnoteCtx, email, password string, signup bool) (remote.Session, error) {
	if !ctx.Credentials.Configured() {
		return remote.Session{}, remote.ErrNotConfigured
	}

	h := remote.NewHTTP(ctx.Credentials, nil, ctx.Version)

	var sess remote.Session
	var err error
	if signup {
		sess, err = h.SignUp(context.Background(), email, password)
	} else {
		sess, err = h.SignIn(context.Background(), email, password)
	}
	if err != nil {
		return remote.Session{}, errors.Wrap(err, "requesting session")
	}

	if err := remote.SaveSession(ctx.DB, sess); err != nil {
		return remote.Session{}, errors.Wrap(err, "saving session")
	}

	return sess, nil
}

func getServerDisplayURL(ctx dctx.DriftnoteCtx) string {
	u, err := url.Parse(ctx.Credentials.URL)
	if err != nil {
		return ""
	}
	if u.Scheme == "" || u.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s://%s", u.Scheme, u.Host)
}

func getEmail() (string, error) {
	if emailFlag != "" {
		return emailFlag, nil
	}

	var email string
	if err := ui.PromptInput("email", &email); err != nil {
		return "", errors.Wrap(err, "getting email input")
	}
	if email == "" {
		return "", errors.New("Email is empty")
	}

	return email, nil
}

func getPassword() (string, error) {
	if passwordFlag != "" {
		return passwordFlag, nil
	}

	var password string
	if err := ui.PromptPassword("password", &password); err != nil {
		return "", errors.Wrap(err, "getting password input")
	}
	if password == "" {
		return "", errors.New("Password is empty")
	}

	return password, nil
}

func newRun(ctx dctx.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if !ctx.Credentials.Configured() {
			log.Warnf("no remote configured. set remoteUrl and remoteKey in the config file.\n")
			return nil
		}

		log.Plainf("Logging in to %s\n", getServerDisplayURL(ctx))

		email, err := getEmail()
		if err != nil {
			return err
		}
		password, err := getPassword()
		if err != nil {
			return err
		}

		sess, err := Do(ctx, email, password, signupFlag)
		if errors.Cause(err) == remote.ErrInvalidLogin {
			return errors.New("Wrong login credentials")
		} else if err != nil {
			return errors.Wrap(err, "logging in")
		}

		log.Success(fmt.Sprintf("logged in as %s\n", sess.Email))

		return nil
	}
}
