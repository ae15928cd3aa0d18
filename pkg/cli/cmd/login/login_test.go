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

package login

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/cli/config"
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/testutils"
	"github.com/pkg/errors"
)

const testKey = "anon-key-0123456789abcdef"

func TestGetServerDisplayURL(t *testing.T) {
	testCases := []struct {
		remoteURL string
		expected  string
	}{
		{
			remoteURL: "https://notes.mydomain.com/api",
			expected:  "https://notes.mydomain.com",
		},
		{
			remoteURL: "https://mysubdomain.mydomain.com/driftnote",
			expected:  "https://mysubdomain.mydomain.com",
		},
		{
			remoteURL: "some-string",
			expected:  "",
		},
		{
			remoteURL: "",
			expected:  "",
		},
		{
			remoteURL: "https://",
			expected:  "",
		},
		{
			remoteURL: "http://localhost:3000",
			expected:  "http://localhost:3000",
		},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("for input %s", tc.remoteURL), func(t *testing.T) {
			ctx := context.DriftnoteCtx{Credentials: config.Credentials{URL: tc.remoteURL}}
			got := getServerDisplayURL(ctx)
			assert.Equal(t, got, tc.expected, "result mismatch")
		})
	}
}

func TestDo(t *testing.T) {
	token := testutils.MustSignToken(t, "user-1", "alice@example.com", time.Now().Add(time.Hour))

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/token" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if r.Header.Get("apikey") != testKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token": %q}`, token)
	}))
	defer ts.Close()

	ctx := context.InitTestCtx(t, remote.Null{})
	ctx.Credentials = config.Credentials{URL: ts.URL, Key: testKey}

	sess, err := Do(ctx, "alice@example.com", "pass1234", false)
	assert.Nil(t, err, "logging in")
	assert.Equal(t, sess.UserID, "user-1", "user id mismatch")

	stored, err := remote.LoadSession(ctx.DB)
	assert.Nil(t, err, "loading session")
	assert.Equal(t, stored.AccessToken, token, "stored token mismatch")
	assert.Equal(t, stored.Email, "alice@example.com", "stored email mismatch")
}

func TestDoNotConfigured(t *testing.T) {
	ctx := context.InitTestCtx(t, testutils.NewMemoryRemote())

	_, err := Do(ctx, "alice@example.com", "pass1234", false)
	assert.Equal(t, errors.Cause(err), remote.ErrNotConfigured, "error mismatch")
}
