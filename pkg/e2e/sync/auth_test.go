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
	"net/http"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/cli/cmd/login"
	"github.com/driftnote/driftnote/pkg/cli/config"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	clisync "github.com/driftnote/driftnote/pkg/cli/sync"
	"github.com/pkg/errors"
)

func TestLogin(t *testing.T) {
	env := setupTestEnv(t)
	env.signUp(t, "alice@example.com")

	t.Run("success", func(t *testing.T) {
		ctx := env.newDevice(t)

		sess, err := login.Do(ctx, "Alice@Example.com", testPassword, false)
		assert.Nil(t, err, "logging in")
		assert.Equal(t, sess.Email, "alice@example.com", "email")
		assert.NotEqual(t, sess.UserID, "", "user id")

		stored, err := remote.LoadSession(ctx.DB)
		assert.Nil(t, err, "loading the session")
		assert.Equal(t, stored.AccessToken, sess.AccessToken, "the session is stored")
	})

	t.Run("wrong password", func(t *testing.T) {
		ctx := env.newDevice(t)

		_, err := login.Do(ctx, "alice@example.com", "not-the-password", false)
		assert.Equal(t, errors.Cause(err), remote.ErrInvalidLogin, "error mismatch")

		_, err = remote.LoadSession(ctx.DB)
		assert.Equal(t, errors.Cause(err), remote.ErrUnauthenticated, "no session is stored")
	})

	t.Run("duplicate signup", func(t *testing.T) {
		ctx := env.newDevice(t)

		_, err := login.Do(ctx, "alice@example.com", testPassword, true)
		httpErr, ok := errors.Cause(err).(*remote.HTTPError)
		assert.Equal(t, ok, true, "an HTTP error")
		assert.Equal(t, httpErr.StatusCode, http.StatusConflict, "status code")
	})

	t.Run("wrong api key", func(t *testing.T) {
		ctx := newDeviceWithCredentials(t, env.Clock, config.Credentials{URL: env.Server.URL, Key: "not-the-api-key-at-all"})

		_, err := login.Do(ctx, "alice@example.com", testPassword, false)
		httpErr, ok := errors.Cause(err).(*remote.HTTPError)
		assert.Equal(t, ok, true, "an HTTP error")
		assert.Equal(t, httpErr.StatusCode, http.StatusForbidden, "status code")
	})
}

func TestPing(t *testing.T) {
	env := setupTestEnv(t)

	h := remote.NewHTTP(env.credentials(), nil, "test")
	assert.Nil(t, h.Ping(context.Background()), "pinging")

	env.Server.Close()
	assert.NotEqual(t, h.Ping(context.Background()), nil, "pinging a stopped server")
}

func TestDeletedUserLosesAccess(t *testing.T) {
	env := setupTestEnv(t)
	ctx := env.signUp(t, "alice@example.com")

	sess, err := remote.LoadSession(ctx.DB)
	assert.Nil(t, err, "loading the session")
	err = env.App.DB.Exec("DELETE FROM users WHERE uuid = ?", sess.UserID).Error
	assert.Nil(t, err, "deleting the user")

	res, err := ctx.Sync.Reconcile(context.Background())
	assert.Equal(t, errors.Cause(err), remote.ErrUnauthenticated, "the cycle fails on the rejected token")
	assert.Equal(t, res.Status, clisync.StatusFailed, "status")
}
