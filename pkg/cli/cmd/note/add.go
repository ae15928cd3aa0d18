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
	"os"

	"github.com/driftnote/driftnote/pkg/cli/cmd/folder"
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/output"
	"github.com/driftnote/driftnote/pkg/cli/state"
	"github.com/driftnote/driftnote/pkg/cli/ui"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var addExample = `
 * Open an editor to write content
 driftnote note add "git tips"

 * Skip the editor by providing content directly
 driftnote note add "git tips" -c "time is a part of the commit hash"

 * Send stdin content to a note
 echo "a branch is just a pointer to a commit" | driftnote note add "git tips"`

var contentFlag string
var folderFlag string
var tagsFlag []string

func newAddCmd(ctx context.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "add <title?>",
		Short:   "Add a new note",
		Aliases: []string{"a", "new"},
		Example: addExample,
		Args:    cobra.MaximumNArgs(1),
		RunE:    newAddRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&contentFlag, "content", "c", "", "The content for the note")
	f.StringVarP(&folderFlag, "folder", "f", "", "id or name of the folder to put the note in")
	f.StringSliceVarP(&tagsFlag, "tag", "t", nil, "tags of the note")

	return cmd
}

func getContent(ctx context.DriftnoteCtx, content, initial string) (string, error) {
	if content != "" {
		return content, nil
	}

	// check for piped content
	fInfo, _ := os.Stdin.Stat()
	if fInfo.Mode()&os.ModeCharDevice == 0 {
		c, err := ui.ReadStdInput()
		if err != nil {
			return "", errors.Wrap(err, "Failed to get piped input")
		}
		return c, nil
	}

	fpath, err := ui.GetTmpContentPath(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting temporarily content file path")
	}

	c, err := ui.GetEditorInput(ctx, fpath, initial)
	if err != nil {
		return "", errors.Wrap(err, "Failed to get editor input")
	}

	return c, nil
}

func newAddRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		p := state.NoteParams{Tags: tagsFlag}
		if len(args) == 1 {
			p.Title = args[0]
		}

		if folderFlag != "" {
			f, err := folder.Lookup(ctx, folderFlag)
			if err != nil {
				return errors.Wrap(err, "finding folder")
			}
			p.FolderID = &f.ID
		}

		content, err := getContent(ctx, contentFlag, "")
		if err != nil {
			return errors.Wrap(err, "getting content")
		}
		if content == "" && p.Title == "" {
			return errors.New("Empty note")
		}
		p.Content = content

		n, err := ctx.State.CreateNote(p)
		if err != nil {
			return errors.Wrap(err, "Failed to write note")
		}

		log.Success("added note\n")
		output.NoteInfo(n)

		return nil
	}
}
