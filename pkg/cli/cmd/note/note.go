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

// Package note implements the note commands
package note

import (
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/spf13/cobra"
)

var example = `
  * Write a note in your editor
  driftnote note add "Groceries"

  * List starred notes in a folder
  driftnote note ls --folder Recipes --starred

  * See how a note changed over time
  driftnote note history 6f8e3c1a-...`

// NewCmd returns a new note command
func NewCmd(ctx context.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "note",
		Short:   "Manage notes",
		Aliases: []string{"n"},
		Example: example,
	}

	cmd.AddCommand(
		newAddCmd(ctx),
		newEditCmd(ctx),
		newViewCmd(ctx),
		newListCmd(ctx),
		newHistoryCmd(ctx),
		newWatchCmd(ctx),
	)
	cmd.AddCommand(newTrashCmds(ctx)...)
	cmd.AddCommand(newFlagCmds(ctx)...)

	return cmd
}
