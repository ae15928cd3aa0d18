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
	"os"
	"os/signal"

	dctx "github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/output"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newWatchCmd(ctx dctx.DriftnoteCtx) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <note id>",
		Short: "Follow remote changes of a note as they happen",
		Args:  cobra.ExactArgs(1),
		RunE:  newWatchRun(ctx),
	}
}

func printChange(n database.Note, applied bool) {
	if !applied {
		log.Warnf("remote change of %s not applied: the local copy has unsynced edits or is newer\n", n.ID)
		return
	}

	log.Infof("updated remotely\n")
	output.NoteInfo(n)
}

func newWatchRun(ctx dctx.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		c, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		log.Infof("watching %s. press Ctrl+C to stop.\n", args[0])
		if err := ctx.Sync.Watch(c, args[0], printChange); err != nil {
			return errors.Wrap(err, "watching note")
		}

		return nil
	}
}
