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

package note

import (
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var yesFlag bool

func newTrashCmds(ctx context.DriftnoteCtx) []*cobra.Command {
	rm := &cobra.Command{
		Use:   "rm <note id>",
		Short: "Delete a note permanently",
		Args:  cobra.ExactArgs(1),
		RunE:  newRemoveRun(ctx),
	}
	rm.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation")

	return []*cobra.Command{
		{
			Use:   "trash <note id>",
			Short: "Move a note to the trash",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := ctx.State.TrashNote(args[0]); err != nil {
					return errors.Wrap(err, "trashing note")
				}

				log.Success("moved to the trash\n")
				return nil
			},
		},
		{
			Use:   "restore <note id>",
			Short: "Take a note out of the trash",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := ctx.State.RestoreNote(args[0]); err != nil {
					return errors.Wrap(err, "restoring note")
				}

				log.Success("restored\n")
				return nil
			},
		},
		rm,
	}
}

func newRemoveRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		n, err := ctx.State.GetNote(args[0])
		if err != nil {
			return errors.Wrap(err, "finding note")
		}

		if !yesFlag {
			ok, err := ui.Confirm("permanently delete "+n.Title+"?", false)
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				log.Warnf("aborted by user\n")
				return nil
			}
		}

		if err := ctx.State.DeleteNotePermanently(n.ID); err != nil {
			return errors.Wrap(err, "deleting note")
		}

		log.Success("deleted\n")

		return nil
	}
}
