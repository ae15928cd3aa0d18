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

package logout

import (
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrNotLoggedIn is an error for logging out when not logged in
var ErrNotLoggedIn = errors.New("not logged in")

var example = `
  driftnote logout`

// NewCmd returns a new logout command
func NewCmd(ctx context.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "logout",
		Short:   "Logout from the remote",
		Example: example,
		RunE:    newRun(ctx),
	}

	return cmd
}

// Do performs logout. Local notes are kept.
func Do(ctx context.DriftnoteCtx) error {
	_, err := remote.LoadSession(ctx.DB)
	if errors.Cause(err) == remote.ErrUnauthenticated {
		return ErrNotLoggedIn
	} else if err != nil {
		return errors.Wrap(err, "getting session")
	}

	if err := remote.ClearSession(ctx.DB); err != nil {
		return errors.Wrap(err, "deleting session")
	}

	return nil
}

func newRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		err := Do(ctx)
		if err == ErrNotLoggedIn {
			log.Error("not logged in\n")
			return nil
		} else if err != nil {
			return errors.Wrap(err, "logging out")
		}

		log.Success("logged out\n")

		return nil
	}
}
