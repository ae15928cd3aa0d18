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

package trigger

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/driftnote/driftnote/pkg/assert"
)

type recorder struct {
	mu      sync.Mutex
	reasons []string
	ch      chan string
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan string, 16)}
}

func (r *recorder) sync(ctx context.Context, reason string) {
	r.mu.Lock()
	r.reasons = append(r.reasons, reason)
	r.mu.Unlock()

	r.ch <- reason
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.reasons)
}

func (r *recorder) expect(t *testing.T, reason string) {
	select {
	case got := <-r.ch:
		assert.Equal(t, got, reason, "reason mismatch")
	case <-time.After(3 * time.Second):
		t.Fatalf("timed out waiting for %s", reason)
	}
}

func TestFireDebounces(t *testing.T) {
	rec := newRecorder()
	tr := New(Params{Sync: rec.sync, Debounce: 50 * time.Millisecond})

	tr.Fire(ReasonPeriodic)
	tr.Fire(ReasonVisibility)
	tr.Fire(ReasonReconnect)

	rec.expect(t, ReasonPeriodic)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, rec.count(), 1, "coalesced into one cycle")

	tr.Fire(ReasonVisibility)
	rec.expect(t, ReasonVisibility)
	assert.Equal(t, rec.count(), 2, "a later trigger fires again")
}

func TestFireManualIsImmediate(t *testing.T) {
	rec := newRecorder()
	tr := New(Params{Sync: rec.sync, Debounce: time.Hour})

	tr.Fire(ReasonVisibility)
	tr.Fire(ReasonManual)

	assert.Equal(t, rec.count(), 1, "manual trigger runs before returning")
	assert.Equal(t, <-rec.ch, ReasonManual, "reason mismatch")
}

func TestNewDefaults(t *testing.T) {
	tr := New(Params{})

	assert.Equal(t, tr.params.Interval, DefaultInterval, "interval")
	assert.Equal(t, tr.params.Debounce, DefaultDebounce, "debounce")
	assert.Equal(t, tr.params.ProbeInterval, DefaultProbeInterval, "probe interval")
}

func TestRunStartupAndReconnect(t *testing.T) {
	rec := newRecorder()
	var online atomic.Bool

	tr := New(Params{
		Sync:          rec.sync,
		Probe:         func(ctx context.Context) bool { return online.Load() },
		Debounce:      10 * time.Millisecond,
		ProbeInterval: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()

	rec.expect(t, ReasonStartup)

	online.Store(true)
	rec.expect(t, ReasonReconnect)

	cancel()
	assert.Nil(t, <-done, "running")
}

func TestRunWatchesFiles(t *testing.T) {
	rec := newRecorder()
	wake := filepath.Join(t.TempDir(), "wake")

	tr := New(Params{
		Sync:       rec.sync,
		Debounce:   10 * time.Millisecond,
		WatchPaths: []string{wake},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()

	rec.expect(t, ReasonStartup)

	_, err := os.Stat(wake)
	assert.Nil(t, err, "the watched file is created")

	later := time.Now().Add(time.Minute)
	assert.Nil(t, os.Chtimes(wake, later, later), "touching the wake file")
	rec.expect(t, ReasonVisibility)

	cancel()
	assert.Nil(t, <-done, "running")
}

func TestRunPeriodic(t *testing.T) {
	rec := newRecorder()

	tr := New(Params{
		Sync:     rec.sync,
		Interval: time.Second,
		Debounce: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- tr.Run(ctx) }()

	rec.expect(t, ReasonStartup)
	rec.expect(t, ReasonPeriodic)

	cancel()
	assert.Nil(t, <-done, "running")
}
