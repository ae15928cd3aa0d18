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
	"net/http/httptest"
	"testing"
	"time"

	"github.com/driftnote/driftnote/pkg/cli/cmd/login"
	"github.com/driftnote/driftnote/pkg/cli/config"
	clictx "github.com/driftnote/driftnote/pkg/cli/context"
	cliDatabase "github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	clisync "github.com/driftnote/driftnote/pkg/cli/sync"
	"github.com/driftnote/driftnote/pkg/clock"
	"github.com/driftnote/driftnote/pkg/server/app"
	"github.com/driftnote/driftnote/pkg/server/controllers"
	"github.com/driftnote/driftnote/pkg/server/realtime"
	apitest "github.com/driftnote/driftnote/pkg/server/testutils"
	"github.com/pkg/errors"
)

const testPassword = "correct-horse-battery"

// testEnv is a server and the clock shared by the devices talking to it
type testEnv struct {
	App    *app.App
	Server *httptest.Server
	Clock  *clock.Mock
}

// setupTestEnv starts a server backed by an in-memory database. The server
// and the devices run on the same mock clock.
func setupTestEnv(t *testing.T) testEnv {
	c := clock.NewMock()

	a := app.NewTest(t)
	a.Clock = c

	return testEnv{
		App:    &a,
		Server: controllers.MustNewServer(t, &a),
		Clock:  c,
	}
}

// credentials returns the credentials of the test server
func (env testEnv) credentials() config.Credentials {
	return config.Credentials{URL: env.Server.URL, Key: apitest.APIKey}
}

// hub returns the realtime hub of the server
func (env testEnv) hub() *realtime.Hub {
	return env.App.Realtime.(*realtime.Hub)
}

// newDevice returns a device configured against the server with no session
func (env testEnv) newDevice(t *testing.T) clictx.DriftnoteCtx {
	return newDeviceWithCredentials(t, env.Clock, env.credentials())
}

func newDeviceWithCredentials(t *testing.T, c clock.Clock, creds config.Credentials) clictx.DriftnoteCtx {
	ctx := clictx.DriftnoteCtx{
		Version:     "test",
		DB:          cliDatabase.InitTestMemoryDB(t),
		Clock:       c,
		Credentials: creds,
	}

	db := ctx.DB
	tokens := remote.TokenFunc(func() string {
		s, err := remote.LoadSession(db)
		if err != nil {
			return ""
		}

		return s.AccessToken
	})

	return clictx.Assemble(ctx, remote.New(creds, tokens, ctx.Version))
}

// signUp creates an account and returns a device logged into it
func (env testEnv) signUp(t *testing.T, email string) clictx.DriftnoteCtx {
	ctx := env.newDevice(t)
	if _, err := login.Do(ctx, email, testPassword, true); err != nil {
		t.Fatal(errors.Wrapf(err, "signing up %s", email))
	}

	return ctx
}

// logIn returns another device logged into an existing account
func (env testEnv) logIn(t *testing.T, email string) clictx.DriftnoteCtx {
	ctx := env.newDevice(t)
	if _, err := login.Do(ctx, email, testPassword, false); err != nil {
		t.Fatal(errors.Wrapf(err, "logging in %s", email))
	}

	return ctx
}

// mustSync runs a sync cycle on the device after moving the clock forward,
// so that every edit made before it is strictly older than the ones after
func (env testEnv) mustSync(t *testing.T, ctx clictx.DriftnoteCtx) clisync.Result {
	env.Clock.Advance(time.Second)

	res, err := ctx.Sync.Reconcile(context.Background())
	if err != nil {
		t.Fatal(errors.Wrap(err, "syncing"))
	}

	return res
}

// tick moves the shared clock forward
func (env testEnv) tick() {
	env.Clock.Advance(time.Second)
}

func mustGetNote(t *testing.T, ctx clictx.DriftnoteCtx, id string) cliDatabase.Note {
	n, err := cliDatabase.GetNote(ctx.DB, id)
	if err != nil {
		t.Fatal(errors.Wrapf(err, "getting note %s", id))
	}

	return n
}

func folderID(t *testing.T, ctx clictx.DriftnoteCtx, name string) string {
	folders, err := cliDatabase.GetFolders(ctx.DB)
	if err != nil {
		t.Fatal(errors.Wrap(err, "getting folders"))
	}
	for _, f := range folders {
		if f.Name == name {
			return f.ID
		}
	}

	t.Fatalf("no folder named %s", name)
	return ""
}

// waitForSubscribers blocks until the server has n subscribers to the note
func (env testEnv) waitForSubscribers(t *testing.T, noteID string, n int) {
	deadline := time.Now().Add(2 * time.Second)
	for env.hub().Count(cliDatabase.CollectionNotes, noteID) < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for a subscriber to note %s", noteID)
		}
		time.Sleep(10 * time.Millisecond)
	}
}
