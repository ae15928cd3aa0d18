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
	"sort"

	"github.com/driftnote/driftnote/pkg/cli/cmd/folder"
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var contentOnly bool

func newViewCmd(ctx context.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "view <note id>",
		Aliases: []string{"v", "cat"},
		Short:   "See a note",
		Args:    cobra.ExactArgs(1),
		RunE:    newViewRun(ctx),
	}

	f := cmd.Flags()
	f.BoolVarP(&contentOnly, "content-only", "", false, "print the note content only")

	return cmd
}

func newViewRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		n, err := ctx.State.GetNote(args[0])
		if err != nil {
			return errors.Wrap(err, "finding note")
		}

		if contentOnly {
			output.NoteContent(n)
		} else {
			output.NoteInfo(n)
		}

		return nil
	}
}

// listFilter narrows down a list of notes
type listFilter struct {
	FolderID string
	Tag      string
	Starred  bool
	Archived bool
	Trash    bool
}

func (f listFilter) match(n database.Note) bool {
	if n.Deleted != f.Trash {
		return false
	}
	if !f.Trash && n.Archived != f.Archived {
		return false
	}
	if f.Starred && !n.Starred {
		return false
	}
	if f.Tag != "" && !n.HasTag(f.Tag) {
		return false
	}
	if f.FolderID != "" && (n.FolderID == nil || *n.FolderID != f.FolderID) {
		return false
	}

	return true
}

// filterNotes returns the notes that pass the filter, pinned notes first,
// then by manual order, then most recently updated
func filterNotes(notes []database.Note, f listFilter) []database.Note {
	ret := []database.Note{}
	for _, n := range notes {
		if f.match(n) {
			ret = append(ret, n)
		}
	}

	sort.SliceStable(ret, func(i, j int) bool {
		a, b := ret[i], ret[j]
		if a.Pinned != b.Pinned {
			return a.Pinned
		}
		if a.Order != nil && b.Order != nil && *a.Order != *b.Order {
			return *a.Order < *b.Order
		}
		if (a.Order == nil) != (b.Order == nil) {
			return a.Order != nil
		}

		return a.UpdatedAt > b.UpdatedAt
	})

	return ret
}

var lsFolderFlag, lsTagFlag string
var lsFilter listFilter

func newListCmd(ctx context.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"l"},
		Short:   "List notes",
		Args:    cobra.NoArgs,
		RunE:    newListRun(ctx),
	}

	f := cmd.Flags()
	f.StringVarP(&lsFolderFlag, "folder", "f", "", "id or name of a folder")
	f.StringVarP(&lsTagFlag, "tag", "t", "", "a tag name")
	f.BoolVar(&lsFilter.Starred, "starred", false, "starred notes only")
	f.BoolVar(&lsFilter.Archived, "archived", false, "archived notes instead of active ones")
	f.BoolVar(&lsFilter.Trash, "trash", false, "notes in the trash")

	return cmd
}

func newListRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		filter := lsFilter
		filter.Tag = lsTagFlag

		if lsFolderFlag != "" {
			f, err := folder.Lookup(ctx, lsFolderFlag)
			if err != nil {
				return errors.Wrap(err, "finding folder")
			}
			filter.FolderID = f.ID
		}

		notes, err := database.GetNotes(ctx.DB)
		if err != nil {
			return errors.Wrap(err, "getting notes")
		}

		output.NoteList(filterNotes(notes, filter))

		return nil
	}
}
