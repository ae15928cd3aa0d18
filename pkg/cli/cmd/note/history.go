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
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newHistoryCmd(ctx context.DriftnoteCtx) *cobra.Command {
	return &cobra.Command{
		Use:   "history <note id>",
		Short: "Show how a note changed over time",
		Args:  cobra.ExactArgs(1),
		RunE:  newHistoryRun(ctx),
	}
}

// timeline orders the versions of a note from oldest to newest and ends
// with the current note
func timeline(versions []database.NoteVersion, current database.Note) []database.NoteVersion {
	ret := make([]database.NoteVersion, 0, len(versions)+1)
	for i := len(versions) - 1; i >= 0; i-- {
		ret = append(ret, versions[i])
	}

	return append(ret, database.NoteVersion{
		NoteID:    current.ID,
		Title:     current.Title,
		Content:   current.Content,
		CreatedAt: current.UpdatedAt,
	})
}

func newHistoryRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		n, err := ctx.State.GetNote(args[0])
		if err != nil {
			return errors.Wrap(err, "finding note")
		}

		versions, err := ctx.State.History(n.ID)
		if err != nil {
			return errors.Wrap(err, "getting history")
		}
		if len(versions) == 0 {
			log.Plain("no earlier versions\n")
			return nil
		}

		tl := timeline(versions, n)
		for i := 1; i < len(tl); i++ {
			output.VersionDiff(tl[i-1], tl[i])
		}

		return nil
	}
}
