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

// Package sync reconciles the local store with the remote data service
package sync

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/driftnote/driftnote/pkg/cli/consts"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/metrics"
	"github.com/driftnote/driftnote/pkg/cli/queue"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/sharing"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/driftnote/driftnote/pkg/clock"
	"github.com/pkg/errors"
)

// SkewBuffer is how much newer a remote note must be than the local copy to
// overwrite it. It absorbs clock differences between devices.
const SkewBuffer = 2000 * time.Millisecond

const (
	// StatusSkipped means the cycle did not run
	StatusSkipped = "skipped"
	// StatusSuccess means every step completed without failures
	StatusSuccess = "success"
	// StatusPartial means the cycle completed with per-entity failures
	StatusPartial = "partial"
	// StatusFailed means the cycle was aborted
	StatusFailed = "failed"
)

const (
	reasonNotConfigured = "not configured"
	reasonNoSession     = "not logged in"
	reasonInProgress    = "already in progress"
)

// Result is the outcome of a reconciliation cycle
type Result struct {
	Status      string
	Reason      string
	Uploaded    int
	Downloaded  int
	Deleted     int
	Errors      int
	CompletedAt time.Time
}

// Changes returns the number of entities written in either direction
func (r Result) Changes() int {
	return r.Uploaded + r.Downloaded + r.Deleted
}

// SharedLoader refreshes the notes shared with the user
type SharedLoader interface {
	Load(ctx context.Context) (sharing.Snapshot, error)
}

// Params are the dependencies of an Engine
type Params struct {
	DB      *database.DB
	Remote  remote.Service
	Session remote.SessionFunc
	Clock   clock.Clock
	Sharing SharedLoader
	Metrics *metrics.Metrics
}

// Engine runs reconciliation cycles. At most one cycle runs at a time.
type Engine struct {
	db      *database.DB
	remote  remote.Service
	session remote.SessionFunc
	clock   clock.Clock
	sharing SharedLoader
	metrics *metrics.Metrics
	queue   *queue.Queue

	running atomic.Bool
}

// New returns a new engine
func New(p Params) *Engine {
	c := p.Clock
	if c == nil {
		c = clock.New()
	}

	return &Engine{
		db:      p.DB,
		remote:  p.Remote,
		session: p.Session,
		clock:   c,
		sharing: p.Sharing,
		metrics: p.Metrics,
		queue:   queue.New(c),
	}
}

// Running returns true while a cycle is in progress
func (e *Engine) Running() bool {
	return e.running.Load()
}

func skipped(reason string) Result {
	return Result{Status: StatusSkipped, Reason: reason}
}

// Reconcile runs one cycle. A cycle that cannot start is reported as
// skipped without error. A cycle that fails to download notes or to write
// to the local store returns the error along with a failed result.
func (e *Engine) Reconcile(ctx context.Context) (Result, error) {
	if !e.remote.Configured() {
		return skipped(reasonNotConfigured), nil
	}

	sess, err := e.session()
	if err != nil {
		if errors.Cause(err) == remote.ErrUnauthenticated {
			return skipped(reasonNoSession), nil
		}

		return Result{Status: StatusFailed}, errors.Wrap(err, "loading the session")
	}
	if !sess.Valid(e.clock.Now()) {
		return skipped(reasonNoSession), nil
	}

	if !e.running.CompareAndSwap(false, true) {
		log.Debug("sync already in progress\n")
		return skipped(reasonInProgress), nil
	}
	defer e.running.Store(false)

	start := e.clock.Now()
	c := newCycle(ctx, e, sess.UserID)

	runErr := c.run()

	res := c.result
	res.CompletedAt = e.clock.Now()
	switch {
	case runErr != nil:
		res.Status = StatusFailed
	case res.Errors > 0:
		res.Status = StatusPartial
	default:
		res.Status = StatusSuccess
	}

	if err := e.saveOutcome(res, runErr == nil); err != nil && runErr == nil {
		runErr = err
		res.Status = StatusFailed
	}

	e.metrics.ObserveCycle(metrics.Cycle{
		Status:     res.Status,
		Uploaded:   res.Uploaded,
		Downloaded: res.Downloaded,
		Deleted:    res.Deleted,
		Errors:     res.Errors,
		Duration:   res.CompletedAt.Sub(start),
	})
	if depth, err := e.queue.Depth(e.db); err == nil {
		e.metrics.SetQueueDepth(depth)
	}

	return res, runErr
}

// saveOutcome records the status of the cycle, and its completion time if
// it ran to the end
func (e *Engine) saveOutcome(res Result, completed bool) error {
	return database.WithTx(e.db, func(tx *database.DB) error {
		if err := database.UpsertSystem(tx, consts.SystemLastSyncStatus, res.Status); err != nil {
			return err
		}
		if !completed {
			return nil
		}

		return database.UpsertSystem(tx, consts.SystemLastSyncAt, utils.FormatTime(res.CompletedAt))
	})
}

// cycle holds the bookkeeping of a single reconciliation cycle
type cycle struct {
	*Engine

	ctx    context.Context
	userID string
	result Result

	// attempted holds the queue entries whose deletion was tried this cycle
	attempted map[int64]bool
	// deleted holds, per collection, the ids whose queued deletion was
	// attempted this cycle. They are never re-inserted from the remote, even
	// if the deletion failed.
	deleted map[string]map[string]bool
}

func newCycle(ctx context.Context, e *Engine, userID string) *cycle {
	return &cycle{
		Engine:    e,
		ctx:       ctx,
		userID:    userID,
		attempted: map[int64]bool{},
		deleted: map[string]map[string]bool{
			database.CollectionFolders: {},
			database.CollectionTags:    {},
			database.CollectionNotes:   {},
		},
	}
}

func (c *cycle) filter() remote.Filter {
	return remote.Filter{"user_id": c.userID}
}

func (c *cycle) fail(format string, v ...interface{}) {
	c.result.Errors++
	log.Debug(format, v...)
}

func (c *cycle) run() error {
	for _, collection := range []string{database.CollectionFolders, database.CollectionTags, database.CollectionNotes} {
		if err := c.drainDeletes(collection); err != nil {
			return errors.Wrapf(err, "deleting %s", collection)
		}
	}

	if err := c.syncFolders(); err != nil {
		return errors.Wrap(err, "syncing folders")
	}
	if err := c.syncTags(); err != nil {
		return errors.Wrap(err, "syncing tags")
	}
	if err := c.uploadNotes(); err != nil {
		return errors.Wrap(err, "uploading notes")
	}
	if err := c.drainDeletes(database.CollectionNotes); err != nil {
		return errors.Wrap(err, "deleting notes")
	}
	if err := c.downloadNotes(); err != nil {
		return errors.Wrap(err, "downloading notes")
	}

	if c.sharing != nil {
		if _, err := c.sharing.Load(c.ctx); err != nil {
			log.Debug("refreshing shared notes: %v\n", err)
		}
	}

	if _, err := c.queue.SweepNonDeletes(c.db); err != nil {
		return errors.Wrap(err, "sweeping the queue")
	}

	return nil
}

// drainDeletes sends the queued deletions of the collection that were not
// attempted earlier in the cycle. A failed deletion stays queued.
func (c *cycle) drainDeletes(collection string) error {
	entries, err := c.queue.Deletes(c.db, collection)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if c.attempted[entry.ID] {
			continue
		}
		c.attempted[entry.ID] = true

		id := entry.EntityID()
		c.deleted[collection][id] = true
		if err := c.remote.Delete(c.ctx, collection, id, c.userID); err != nil {
			c.fail("deleting %s %s: %v\n", collection, id, err)
			continue
		}

		if err := c.queue.Remove(c.db, entry.ID); err != nil {
			return err
		}
		c.result.Deleted++
	}

	return nil
}
