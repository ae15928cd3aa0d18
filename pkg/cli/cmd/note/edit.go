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
	"context"

	dctx "github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/output"
	"github.com/driftnote/driftnote/pkg/cli/sharing"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var editExample = `
  * Edit a note in your editor
  driftnote note edit 6f8e3c1a-...

  * Edit a note without launching an editor
  driftnote note edit 6f8e3c1a-... -c "new content"

  * Change the title only
  driftnote note edit 6f8e3c1a-... --title "new title"`

var editContentFlag string
var titleFlag string

func newEditCmd(ctx dctx.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "edit <note id>",
		Short:   "Edit a note",
		Aliases: []string{"e"},
		Example: editExample,
		Args:    cobra.ExactArgs(1),
		RunE:    newEditRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&editContentFlag, "content", "c", "", "a new content for the note")
	f.StringVar(&titleFlag, "title", "", "a new title for the note")

	return cmd
}

func newEditRun(ctx dctx.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		n, err := ctx.State.GetNote(args[0])
		if err != nil {
			return errors.Wrap(err, "finding note")
		}

		var patch database.NotePatch
		if titleFlag != "" {
			patch.Title = &titleFlag
		}

		if editContentFlag != "" || titleFlag == "" {
			c, err := getContent(ctx, editContentFlag, n.Content)
			if err != nil {
				return errors.Wrap(err, "getting content")
			}
			patch.Content = &c
		}

		updated, err := ctx.State.UpdateNote(context.Background(), n.ID, patch)
		if errors.Cause(err) == sharing.ErrPermissionDenied {
			return errors.New("the note is shared with you with view access only")
		} else if err != nil {
			return errors.Wrap(err, "updating note")
		}

		log.Success("edited the note\n")
		output.NoteInfo(updated)

		return nil
	}
}
