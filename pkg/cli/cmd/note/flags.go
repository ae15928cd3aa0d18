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
	"github.com/driftnote/driftnote/pkg/cli/cmd/folder"
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/validate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var unarchiveFlag bool
var rootFlag bool

func newFlagCmds(ctx context.DriftnoteCtx) []*cobra.Command {
	archive := &cobra.Command{
		Use:   "archive <note id>",
		Short: "Archive a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := ctx.State.SetArchived(args[0], !unarchiveFlag)
			if err != nil {
				return errors.Wrap(err, "archiving note")
			}

			reportFlag("archived", n.Archived)
			return nil
		},
	}
	archive.Flags().BoolVar(&unarchiveFlag, "undo", false, "unarchive the note")

	move := &cobra.Command{
		Use:   "move <note id> <folder?>",
		Short: "Move a note to a folder",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  newMoveRun(ctx),
	}
	move.Flags().BoolVar(&rootFlag, "root", false, "move the note out of any folder")

	return []*cobra.Command{
		{
			Use:   "star <note id>",
			Short: "Star or unstar a note",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := ctx.State.ToggleStar(args[0])
				if err != nil {
					return errors.Wrap(err, "starring note")
				}

				reportFlag("starred", n.Starred)
				return nil
			},
		},
		{
			Use:   "pin <note id>",
			Short: "Pin or unpin a note",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := ctx.State.TogglePin(args[0])
				if err != nil {
					return errors.Wrap(err, "pinning note")
				}

				reportFlag("pinned", n.Pinned)
				return nil
			},
		},
		archive,
		move,
		{
			Use:   "tags <note id> <tag...>",
			Short: "Replace the tags of a note",
			Args:  cobra.MinimumNArgs(1),
			RunE:  newTagsRun(ctx),
		},
		{
			Use:   "remind <note id> <datetime>",
			Short: "Add a reminder to a note, e.g. 2025-03-01T09:00:00Z",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if _, err := ctx.State.AddReminder(args[0], args[1]); err != nil {
					return errors.Wrap(err, "adding reminder")
				}

				log.Success("reminder added\n")
				return nil
			},
		},
	}
}

func reportFlag(name string, on bool) {
	if on {
		log.Successf("%s\n", name)
	} else {
		log.Successf("not %s\n", name)
	}
}

func newMoveRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		var folderID *string
		if len(args) == 2 {
			f, err := folder.Lookup(ctx, args[1])
			if err != nil {
				return errors.Wrap(err, "finding folder")
			}
			folderID = &f.ID
		} else if !rootFlag {
			return errors.New("Missing folder. Use --root to move the note out of its folder.")
		}

		if _, err := ctx.State.MoveNote(args[0], folderID); err != nil {
			return errors.Wrap(err, "moving note")
		}

		log.Success("moved\n")

		return nil
	}
}

func newTagsRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		tags := args[1:]
		for _, t := range tags {
			if err := validate.TagName(t); err != nil {
				return errors.Wrapf(err, "invalid tag %s", t)
			}
		}

		n, err := ctx.State.SetNoteTags(args[0], tags)
		if err != nil {
			return errors.Wrap(err, "tagging note")
		}

		log.Successf("%d tags\n", len(n.Tags))

		return nil
	}
}
