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

package status

import (
	"github.com/driftnote/driftnote/pkg/cli/consts"
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/queue"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  driftnote status`

// NewCmd returns a new status command
func NewCmd(ctx context.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show the sync status",
		Example: example,
		RunE:    newRun(ctx),
	}

	return cmd
}

// Report summarizes the sync state of the local store
type Report struct {
	Configured     bool
	Email          string
	LoggedIn       bool
	PendingNotes   int
	PendingFolders int
	PendingTags    int
	QueueDepth     int
	LastSyncAt     string
	LastSyncStatus string
}

func getOptionalSystem(db *database.DB, key string) (string, error) {
	var ret string
	err := database.GetSystem(db, key, &ret)
	if errors.Cause(err) == database.ErrNotFound {
		return "", nil
	}

	return ret, err
}

// GetReport reads the sync state of the local store
func GetReport(ctx context.DriftnoteCtx) (Report, error) {
	ret := Report{Configured: ctx.Remote.Configured()}

	sess, err := remote.LoadSession(ctx.DB)
	if err == nil {
		ret.LoggedIn = sess.Valid(ctx.Clock.Now())
		ret.Email = sess.Email
	} else if errors.Cause(err) != remote.ErrUnauthenticated {
		return Report{}, errors.Wrap(err, "loading session")
	}

	if ret.PendingNotes, err = database.CountNotesByStatus(ctx.DB, database.StatusPending); err != nil {
		return Report{}, errors.Wrap(err, "counting notes")
	}

	folders, err := database.GetFolders(ctx.DB)
	if err != nil {
		return Report{}, errors.Wrap(err, "getting folders")
	}
	for _, f := range folders {
		if f.SyncStatus == database.StatusPending {
			ret.PendingFolders++
		}
	}

	tags, err := database.GetTags(ctx.DB)
	if err != nil {
		return Report{}, errors.Wrap(err, "getting tags")
	}
	for _, t := range tags {
		if t.SyncStatus == database.StatusPending {
			ret.PendingTags++
		}
	}

	if ret.QueueDepth, err = queue.New(ctx.Clock).Depth(ctx.DB); err != nil {
		return Report{}, errors.Wrap(err, "reading queue depth")
	}

	if ret.LastSyncAt, err = getOptionalSystem(ctx.DB, consts.SystemLastSyncAt); err != nil {
		return Report{}, errors.Wrap(err, "reading last sync time")
	}
	if ret.LastSyncStatus, err = getOptionalSystem(ctx.DB, consts.SystemLastSyncStatus); err != nil {
		return Report{}, errors.Wrap(err, "reading last sync status")
	}

	return ret, nil
}

func newRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		r, err := GetReport(ctx)
		if err != nil {
			return err
		}

		if !r.Configured {
			log.Warnf("remote: not configured\n")
		} else if !r.LoggedIn {
			log.Warnf("remote: not logged in\n")
		} else {
			log.Infof("remote: logged in as %s\n", r.Email)
		}

		log.Infof("unsynced: %d notes, %d folders, %d tags\n", r.PendingNotes, r.PendingFolders, r.PendingTags)
		log.Infof("pending deletions: %d\n", r.QueueDepth)

		if r.LastSyncAt == "" {
			log.Infof("last sync: never\n")
		} else {
			log.Infof("last sync: %s (%s)\n", r.LastSyncAt, r.LastSyncStatus)
		}

		return nil
	}
}
