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

package controllers

import (
	"net/http"

	"github.com/driftnote/driftnote/pkg/server/app"
	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/log"
	mw "github.com/driftnote/driftnote/pkg/server/middleware"
	"github.com/pkg/errors"
)

// NewAuth creates a new Auth controller
func NewAuth(app *app.App) *Auth {
	return &Auth{
		app: app,
	}
}

// Auth is a controller for signing in and signing up
type Auth struct {
	app *app.App
}

// CredentialsForm is the payload for signing in and signing up
type CredentialsForm struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is the response carrying an access token
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int64        `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

func (c *Auth) respondWithToken(w http.ResponseWriter, user *database.User) {
	tok, err := c.app.SignIn(user)
	if err != nil {
		handleJSONError(w, err, "signing in")
		return
	}

	mw.RespondJSON(w, http.StatusOK, TokenResponse{
		AccessToken: tok,
		TokenType:   "bearer",
		ExpiresIn:   int64(c.app.SessionTTL.Seconds()),
		User: UserResponse{
			ID:    user.UUID,
			Email: user.Email,
		},
	})
}

// Token handles POST /auth/v1/token
func (c *Auth) Token(w http.ResponseWriter, r *http.Request) {
	var form CredentialsForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if form.Email == "" {
		handleJSONError(w, app.ErrEmailRequired, "signing in")
		return
	}

	user, err := c.app.Authenticate(form.Email, form.Password)
	if err != nil {
		if errors.Cause(err) == app.ErrNotFound {
			err = app.ErrLoginInvalid
		}

		handleJSONError(w, err, "authenticating")
		return
	}

	c.respondWithToken(w, user)
}

// Signup handles POST /auth/v1/signup
func (c *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	if c.app.DisableRegistration {
		handleJSONError(w, app.ErrRegistrationDisabled, "signing up")
		return
	}

	var form CredentialsForm
	if err := parseRequestData(r, &form); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if form.Email == "" {
		handleJSONError(w, app.ErrEmailRequired, "signing up")
		return
	}

	user, err := c.app.CreateUser(form.Email, form.Password)
	if err != nil {
		handleJSONError(w, err, "creating user")
		return
	}

	if err := c.app.SendWelcomeEmail(user.Email); err != nil {
		log.ErrorWrap(err, "sending welcome email")
	}

	c.respondWithToken(w, &user)
}
