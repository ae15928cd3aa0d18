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

package sync

import (
	"context"

	dctx "github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/output"
	"github.com/driftnote/driftnote/pkg/cli/sync"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  driftnote sync`

// NewCmd returns a new sync command
func NewCmd(ctx dctx.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		Aliases: []string{"s"},
		Short:   "Sync notes with the remote",
		Example: example,
		RunE:    newRun(ctx),
	}

	return cmd
}

// Do runs one reconciliation cycle
func Do(ctx dctx.DriftnoteCtx) (sync.Result, error) {
	res, err := ctx.Sync.Reconcile(context.Background())
	if err != nil {
		return res, errors.Wrap(err, "reconciling")
	}

	return res, nil
}

func newRun(ctx dctx.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		if !ctx.Remote.Configured() {
			log.Warnf("no remote configured. notes are kept on this device only.\n")
			return nil
		}

		res, err := Do(ctx)
		output.SyncResult(res, ctx.Config.NotifySync())
		if err != nil {
			return err
		}

		return nil
	}
}
