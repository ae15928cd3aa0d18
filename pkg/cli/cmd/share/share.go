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

// Package share implements the note sharing commands
package share

import (
	"context"

	dctx "github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  * Let a collaborator edit a note
  driftnote share invite 6f8e3c1a-... bob@example.com --permission edit

  * See invitations addressed to you and notes shared with you
  driftnote share ls

  * Accept an invitation
  driftnote share accept 0b9a...`

var permissionFlag string
var cachedFlag bool

// NewCmd returns a new share command
func NewCmd(ctx dctx.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "share",
		Short:   "Share notes with other users",
		Example: example,
	}

	invite := &cobra.Command{
		Use:   "invite <note id> <email>",
		Short: "Invite a user to a note",
		Args:  cobra.ExactArgs(2),
		RunE:  newInviteRun(ctx),
	}
	invite.Flags().StringVarP(&permissionFlag, "permission", "p", database.PermissionView, "view or edit")

	ls := &cobra.Command{
		Use:   "ls",
		Short: "List invitations and shared notes",
		Args:  cobra.NoArgs,
		RunE:  newListRun(ctx),
	}
	ls.Flags().BoolVar(&cachedFlag, "cached", false, "show the local copy without contacting the remote")

	cmd.AddCommand(
		invite,
		ls,
		&cobra.Command{
			Use:   "accept <invite id>",
			Short: "Accept an invitation",
			Args:  cobra.ExactArgs(1),
			RunE:  newRespondRun(ctx, true),
		},
		&cobra.Command{
			Use:   "decline <invite id>",
			Short: "Decline an invitation",
			Args:  cobra.ExactArgs(1),
			RunE:  newRespondRun(ctx, false),
		},
	)

	return cmd
}

func newInviteRun(ctx dctx.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		inv, err := ctx.Sharing.Invite(context.Background(), args[0], args[1], permissionFlag)
		if err != nil {
			return errors.Wrap(err, "inviting")
		}

		log.Successf("invited %s with %s access\n", inv.InviteeEmail, inv.Permission)

		return nil
	}
}

func newListRun(ctx dctx.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if !cachedFlag {
			if _, err := ctx.Sharing.Load(context.Background()); err != nil {
				log.Warnf("showing the local copy: %s\n", err.Error())
			}
		}

		invites, err := ctx.Sharing.PendingInvites()
		if err != nil {
			return errors.Wrap(err, "getting invitations")
		}
		shared, err := ctx.Sharing.SharedNotes()
		if err != nil {
			return errors.Wrap(err, "getting shared notes")
		}

		if len(invites) > 0 {
			log.Infof("invitations\n")
			output.InviteList(invites)
		}
		if len(shared) > 0 {
			log.Infof("shared with you\n")
			output.SharedList(shared)
		}
		if len(invites) == 0 && len(shared) == 0 {
			log.Plain("nothing shared with you\n")
		}

		return nil
	}
}

func newRespondRun(ctx dctx.DriftnoteCtx, accept bool) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		c := context.Background()

		if accept {
			if _, err := ctx.Sharing.Accept(c, args[0]); err != nil {
				return errors.Wrap(err, "accepting invitation")
			}
			if _, err := ctx.Sharing.Load(c); err != nil {
				return errors.Wrap(err, "loading shared notes")
			}

			log.Success("accepted\n")
			return nil
		}

		if _, err := ctx.Sharing.Decline(c, args[0]); err != nil {
			return errors.Wrap(err, "declining invitation")
		}

		log.Success("declined\n")

		return nil
	}
}
