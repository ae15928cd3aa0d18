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
	"net/http"

	"github.com/pkg/errors"
)

// ErrInvalidLogin is an error for invalid credentials for login
var ErrInvalidLogin = errors.New("wrong credentials")

type credentialsPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

func (h *HTTP) requestToken(ctx context.Context, path, email, password string) (Session, error) {
	req, err := h.newReq(ctx, http.MethodPost, path, credentialsPayload{Email: email, Password: password})
	if err != nil {
		return Session{}, err
	}

	var resp tokenResponse
	if err := h.do(req, &resp); err != nil {
		if errors.Cause(err) == ErrUnauthenticated {
			return Session{}, ErrInvalidLogin
		}

		return Session{}, err
	}

	s, err := ParseSession(resp.AccessToken)
	if err != nil {
		return Session{}, errors.Wrap(err, "reading the access token")
	}

	return s, nil
}

// SignIn exchanges an email and password for a session
func (h *HTTP) SignIn(ctx context.Context, email, password string) (Session, error) {
	return h.requestToken(ctx, "/auth/v1/token", email, password)
}

// SignUp registers a new account and returns its session
func (h *HTTP) SignUp(ctx context.Context, email, password string) (Session, error) {
	return h.requestToken(ctx, "/auth/v1/signup", email, password)
}
