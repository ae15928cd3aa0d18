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

package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/driftnote/driftnote/pkg/server/app"
	"github.com/driftnote/driftnote/pkg/server/context"
	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/token"
	"github.com/pkg/errors"
)

// RequireAPIKey rejects requests that do not carry the API key of the
// service in the apikey header
func RequireAPIKey(key string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get("apikey")
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			http.Error(w, "invalid api key", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// AuthWithToken authenticates the request with the bearer access token. ok
// is false if the request carries no valid token.
func AuthWithToken(a *app.App, r *http.Request) (*database.User, token.Claims, bool, error) {
	s, err := GetCredential(r)
	if err != nil {
		return nil, token.Claims{}, false, nil
	}
	if s == "" {
		return nil, token.Claims{}, false, nil
	}

	user, claims, err := a.AuthenticateToken(s)
	if err != nil {
		switch errors.Cause(err) {
		case token.ErrInvalid, token.ErrExpired, app.ErrNotFound:
			return nil, token.Claims{}, false, nil
		}

		return nil, token.Claims{}, false, errors.Wrap(err, "authenticating token")
	}

	return user, claims, true, nil
}

// Auth is an authentication middleware
func Auth(a *app.App, next http.HandlerFunc) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, claims, ok, err := AuthWithToken(a, r)
		if err != nil {
			DoError(w, "authenticating with token", err, http.StatusInternalServerError)
			return
		}
		if !ok {
			RespondUnauthorized(w)
			return
		}

		ctx := context.WithUser(r.Context(), user)
		ctx = context.WithClaims(ctx, &claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
