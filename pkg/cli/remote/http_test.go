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

package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/cli/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

const testKey = "test-api-key-0123456789"

func newTestHTTP(t *testing.T, handler http.HandlerFunc) *HTTP {
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return NewHTTP(config.Credentials{URL: ts.URL, Key: testKey}, TokenFunc(func() string { return "tok" }), "test")
}

func respondJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func TestNew(t *testing.T) {
	_, ok := New(config.Credentials{}, nil, "test").(Null)
	assert.Equal(t, ok, true, "unconfigured credentials should pick the null service")

	_, ok = New(config.Credentials{URL: "https://example.com", Key: testKey}, nil, "test").(*HTTP)
	assert.Equal(t, ok, true, "configured credentials should pick the http service")
}

func TestHTTPSelect(t *testing.T) {
	var gotPath, gotQuery, gotKey, gotAuth string
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("user_id")
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")

		respondJSON(w, []map[string]interface{}{{"id": "n1", "title": "A"}})
	})

	rows, err := h.Select(context.Background(), "notes", Filter{"user_id": "u1"})
	assert.Nil(t, err, "selecting")
	assert.Equal(t, len(rows), 1, "row count")
	assert.Equal(t, rows[0].String("title"), "A", "title")
	assert.Equal(t, gotPath, "/rest/v1/notes", "path")
	assert.Equal(t, gotQuery, "u1", "filter")
	assert.Equal(t, gotKey, testKey, "apikey header")
	assert.Equal(t, gotAuth, "Bearer tok", "authorization header")
}

func TestHTTPUpsert(t *testing.T) {
	var gotMethod string
	var gotBody Row
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		json.NewDecoder(r.Body).Decode(&gotBody)

		gotBody["updated_at"] = "server-time"
		respondJSON(w, gotBody)
	})

	row, err := h.Upsert(context.Background(), "folders", Row{"id": "f1", "name": "Work"})
	assert.Nil(t, err, "upserting")
	assert.Equal(t, gotMethod, http.MethodPost, "method")
	assert.Equal(t, gotBody.String("name"), "Work", "body")
	assert.Equal(t, row.String("updated_at"), "server-time", "returned row")
}

func TestHTTPDelete(t *testing.T) {
	var gotMethod, gotPath, gotUser string
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotUser = r.URL.Query().Get("user_id")
		w.WriteHeader(http.StatusNoContent)
	})

	err := h.Delete(context.Background(), "tags", "t1", "u1")
	assert.Nil(t, err, "deleting")
	assert.Equal(t, gotMethod, http.MethodDelete, "method")
	assert.Equal(t, gotPath, "/rest/v1/tags/t1", "path")
	assert.Equal(t, gotUser, "u1", "user scope")
}

func TestHTTPErrors(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "expired", http.StatusUnauthorized)
		})

		_, err := h.Select(context.Background(), "notes", nil)
		assert.Equal(t, errors.Cause(err), ErrUnauthenticated, "error mismatch")
	})

	t.Run("server error", func(t *testing.T) {
		h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		})

		err := h.Delete(context.Background(), "notes", "n1", "u1")
		var httpErr *HTTPError
		assert.Equal(t, errors.As(err, &httpErr), true, "should be an http error")
		assert.Equal(t, httpErr.StatusCode, http.StatusInternalServerError, "status code")
		assert.Equal(t, httpErr.Message, "boom", "message")
	})

	t.Run("content type", func(t *testing.T) {
		h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte("<html></html>"))
		})

		_, err := h.Select(context.Background(), "notes", nil)
		assert.Equal(t, errors.Cause(err), ErrContentTypeMismatch, "error mismatch")
	})
}

func TestHTTPInvoke(t *testing.T) {
	var gotPath string
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		respondJSON(w, map[string]interface{}{"id": "i1", "status": "accepted"})
	})

	row, err := h.Invoke(context.Background(), ProcAcceptShare, Row{"invite_id": "i1"})
	assert.Nil(t, err, "invoking")
	assert.Equal(t, gotPath, "/rest/v1/rpc/accept_share", "path")
	assert.Equal(t, row.String("status"), "accepted", "returned record")
}

func TestHTTPSignIn(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "email": "alice@example.com"}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}

	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		var p credentialsPayload
		json.NewDecoder(r.Body).Decode(&p)
		if r.URL.Path != "/auth/v1/token" || p.Password != "pass1234" {
			http.Error(w, "wrong credentials", http.StatusUnauthorized)
			return
		}

		respondJSON(w, tokenResponse{AccessToken: tok})
	})

	s, err := h.SignIn(context.Background(), "alice@example.com", "pass1234")
	assert.Nil(t, err, "signing in")
	assert.Equal(t, s.UserID, "u1", "user id")
	assert.Equal(t, s.AccessToken, tok, "token")

	_, err = h.SignIn(context.Background(), "alice@example.com", "wrong")
	assert.Equal(t, err, ErrInvalidLogin, "error mismatch")
}

func TestHTTPSubscribe(t *testing.T) {
	h := newTestHTTP(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/realtime/v1/notes/n1" {
			http.NotFound(w, r)
			return
		}

		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer c.Close(websocket.StatusNormalClosure, "")

		wsjson.Write(r.Context(), c, Change{EventType: EventUpdate, New: Row{"id": "n1", "title": "changed"}})
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := h.Subscribe(ctx, "notes", "n1")
	assert.Nil(t, err, "subscribing")

	c, ok := <-ch
	assert.Equal(t, ok, true, "should receive a change")
	assert.Equal(t, c.EventType, EventUpdate, "event type")
	assert.Equal(t, c.New.String("title"), "changed", "payload")

	_, ok = <-ch
	assert.Equal(t, ok, false, "channel closes with the connection")
}

func TestNull(t *testing.T) {
	var s Service = Null{}
	ctx := context.Background()

	assert.Equal(t, s.Configured(), false, "configured")

	rows, err := s.Select(ctx, "notes", nil)
	assert.Nil(t, err, "select")
	assert.Equal(t, len(rows), 0, "select returns nothing")

	_, err = s.Upsert(ctx, "notes", Row{})
	assert.Equal(t, err, ErrNotConfigured, "upsert")
	assert.Equal(t, s.Delete(ctx, "notes", "n1", "u1"), ErrNotConfigured, "delete")
	_, err = s.Invoke(ctx, ProcAcceptShare, nil)
	assert.Equal(t, err, ErrNotConfigured, "invoke")
	_, err = s.Subscribe(ctx, "notes", "n1")
	assert.Equal(t, err, ErrNotConfigured, "subscribe")
}
