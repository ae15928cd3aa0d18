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

// Package trigger decides when to run a reconciliation cycle: at startup,
// periodically, when connectivity comes back, when the user comes back to
// the app, and on demand.
package trigger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
	"github.com/robfig/cron"
)

const (
	// ReasonStartup fires once when the trigger starts
	ReasonStartup = "startup"
	// ReasonReconnect fires when the connectivity probe goes from offline to online
	ReasonReconnect = "reconnect"
	// ReasonPeriodic fires on the sync interval
	ReasonPeriodic = "periodic"
	// ReasonVisibility fires when a watched file changes
	ReasonVisibility = "visibility"
	// ReasonManual is requested by the user and is never debounced
	ReasonManual = "manual"
)

const (
	// DefaultInterval is the default period of the periodic trigger
	DefaultInterval = 5 * time.Minute
	// DefaultDebounce is the default window in which triggers coalesce
	DefaultDebounce = 2 * time.Second
	// DefaultProbeInterval is the default period of the connectivity probe
	DefaultProbeInterval = 30 * time.Second

	watchPollInterval = 250 * time.Millisecond
)

// Params configures a Trigger
type Params struct {
	// Sync runs a cycle. Overlapping calls are expected to be no-ops.
	Sync func(ctx context.Context, reason string)
	// Probe reports whether the remote is reachable
	Probe         func(ctx context.Context) bool
	Interval      time.Duration
	Debounce      time.Duration
	ProbeInterval time.Duration
	// WatchPaths are files whose modification counts as the user coming back
	WatchPaths []string
}

// Trigger schedules reconciliation cycles
type Trigger struct {
	params Params

	mu      sync.Mutex
	ctx     context.Context
	pending *time.Timer
}

// New returns a new trigger, filling in the defaults
func New(p Params) *Trigger {
	if p.Interval <= 0 {
		p.Interval = DefaultInterval
	}
	if p.Debounce <= 0 {
		p.Debounce = DefaultDebounce
	}
	if p.ProbeInterval <= 0 {
		p.ProbeInterval = DefaultProbeInterval
	}

	return &Trigger{
		params: p,
		ctx:    context.Background(),
	}
}

func (t *Trigger) context() context.Context {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.ctx
}

func (t *Trigger) run(reason string) {
	ctx := t.context()
	if ctx.Err() != nil {
		return
	}

	log.Debug("sync triggered: %s\n", reason)
	t.params.Sync(ctx, reason)
}

// Fire requests a cycle. A manual request runs immediately. Any other
// request waits for the debounce window, and requests arriving while one
// is waiting are folded into it.
func (t *Trigger) Fire(reason string) {
	if reason == ReasonManual {
		t.run(reason)
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending != nil {
		log.Debug("sync trigger %s coalesced\n", reason)
		return
	}

	t.pending = time.AfterFunc(t.params.Debounce, func() {
		t.mu.Lock()
		t.pending = nil
		t.mu.Unlock()

		t.run(reason)
	})
}

func (t *Trigger) stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
}

// Run fires the startup cycle and then keeps firing until ctx is done
func (t *Trigger) Run(ctx context.Context) error {
	t.mu.Lock()
	t.ctx = ctx
	t.mu.Unlock()
	defer t.stop()

	online := true
	if t.params.Probe != nil {
		online = t.params.Probe(ctx)
	}

	t.run(ReasonStartup)

	c := cron.New()
	spec := fmt.Sprintf("@every %s", t.params.Interval)
	if err := c.AddFunc(spec, func() { t.Fire(ReasonPeriodic) }); err != nil {
		return errors.Wrapf(err, "scheduling %s", spec)
	}
	c.Start()
	defer c.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	if t.params.Probe != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			t.probe(ctx, online)
		}()
	}

	if len(t.params.WatchPaths) > 0 {
		w, err := t.newWatcher()
		if err != nil {
			return err
		}
		defer w.Close()

		wg.Add(1)
		go func() {
			defer wg.Done()
			t.watch(ctx, w)
		}()

		go func() {
			if err := w.Start(watchPollInterval); err != nil {
				log.Debug("file watcher stopped: %v\n", err)
			}
		}()
		w.Wait()
	}

	<-ctx.Done()

	return nil
}

func (t *Trigger) probe(ctx context.Context, online bool) {
	ticker := time.NewTicker(t.params.ProbeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := t.params.Probe(ctx)
			if now && !online {
				t.Fire(ReasonReconnect)
			}
			online = now
		}
	}
}

func (t *Trigger) newWatcher() (*watcher.Watcher, error) {
	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create, watcher.Chmod)

	for _, path := range t.params.WatchPaths {
		if err := utils.Touch(path); err != nil {
			return nil, err
		}
		if err := w.Add(path); err != nil {
			return nil, errors.Wrapf(err, "watching %s", path)
		}
	}

	return w, nil
}

func (t *Trigger) watch(ctx context.Context, w *watcher.Watcher) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.Event:
			log.Debug("watched file changed: %s\n", event.Path)
			t.Fire(ReasonVisibility)
		case err := <-w.Error:
			log.Debug("file watcher: %v\n", err)
		case <-w.Closed:
			return
		}
	}
}
