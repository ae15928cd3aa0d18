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

// Package context assembles the runtime of the client: its directories,
// local store, configuration and the services built on top of them
package context

import (
	"github.com/driftnote/driftnote/pkg/cli/config"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/metrics"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/sharing"
	"github.com/driftnote/driftnote/pkg/cli/state"
	"github.com/driftnote/driftnote/pkg/cli/sync"
	"github.com/driftnote/driftnote/pkg/clock"
)

// Paths contain directory definitions
type Paths struct {
	Home   string
	Config string
	Data   string
	Cache  string
}

// DriftnoteCtx is a context holding the information of the current runtime
type DriftnoteCtx struct {
	Paths       Paths
	Version     string
	DB          *database.DB
	Clock       clock.Clock
	Config      config.Config
	Credentials config.Credentials

	Remote  remote.Service
	Session remote.SessionFunc
	State   *state.State
	Sharing *sharing.Service
	Sync    *sync.Engine
	Metrics *metrics.Metrics
}

// Assemble builds the services of the context on top of its local store
// and the given remote service
func Assemble(ctx DriftnoteCtx, svc remote.Service) DriftnoteCtx {
	ctx.Remote = svc
	ctx.Session = remote.StoredSession(ctx.DB)

	ctx.Sharing = sharing.New(ctx.DB, svc, ctx.Session)
	ctx.Sharing.Clock = ctx.Clock

	ctx.State = state.New(ctx.DB, ctx.Clock, ctx.Sharing)
	ctx.Metrics = metrics.New()
	ctx.Sync = sync.New(sync.Params{
		DB:      ctx.DB,
		Remote:  svc,
		Session: ctx.Session,
		Clock:   ctx.Clock,
		Sharing: ctx.Sharing,
		Metrics: ctx.Metrics,
	})

	return ctx
}

// Redact replaces private information from the context with a set of
// placeholder values.
func Redact(ctx DriftnoteCtx) DriftnoteCtx {
	if ctx.Credentials.Key != "" {
		ctx.Credentials.Key = "1"
	} else {
		ctx.Credentials.Key = "0"
	}
	if ctx.Config.RemoteKey != "" {
		ctx.Config.RemoteKey = "1"
	}

	return ctx
}
