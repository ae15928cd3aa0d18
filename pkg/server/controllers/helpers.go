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
	"encoding/json"
	"net/http"

	"github.com/driftnote/driftnote/pkg/server/app"
	"github.com/driftnote/driftnote/pkg/server/context"
	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/log"
	mw "github.com/driftnote/driftnote/pkg/server/middleware"
	"github.com/gorilla/schema"
	"github.com/pkg/errors"
)

var (
	// ErrUnknownCollection is returned for a collection the service does not have
	ErrUnknownCollection = errors.New("unknown collection")
	// ErrUnknownProcedure is returned for a procedure the service does not have
	ErrUnknownProcedure = errors.New("unknown procedure")
	// ErrMethodNotAllowed is returned for a write a collection does not accept
	ErrMethodNotAllowed = errors.New("method not allowed on the collection")
	// ErrBadRequest is returned for a payload that cannot be decoded
	ErrBadRequest = errors.New("bad request")
)

var queryDecoder = newQueryDecoder()

func newQueryDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)

	return d
}

// parseQuery decodes the query string of the request into dst
func parseQuery(r *http.Request, dst interface{}) error {
	if err := queryDecoder.Decode(dst, r.URL.Query()); err != nil {
		return errors.Wrap(ErrBadRequest, err.Error())
	}

	return nil
}

// parseRequestData decodes the JSON body of the request into dst
func parseRequestData(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return errors.Wrap(ErrBadRequest, "empty body")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.Wrap(ErrBadRequest, err.Error())
	}

	return nil
}

func getStatusCode(err error) int {
	switch errors.Cause(err) {
	case app.ErrNotFound, ErrUnknownCollection, ErrUnknownProcedure:
		return http.StatusNotFound
	case app.ErrForbidden, app.ErrRegistrationDisabled:
		return http.StatusForbidden
	case app.ErrLoginInvalid:
		return http.StatusUnauthorized
	case app.ErrDuplicateEmail, app.ErrInviteAnswered:
		return http.StatusConflict
	case ErrMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case ErrBadRequest,
		app.ErrEmailRequired,
		app.ErrEmailInvalid,
		app.ErrPasswordTooShort,
		app.ErrMissingID,
		app.ErrInvalidPermission,
		app.ErrShareWithSelf:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// handleJSONError responds with the status code the error maps to. Errors
// of the service itself are logged and not shown to the client.
func handleJSONError(w http.ResponseWriter, err error, msg string) {
	statusCode := getStatusCode(err)
	if statusCode == http.StatusInternalServerError {
		mw.DoError(w, msg, err, statusCode)
		return
	}

	log.WithFields(log.Fields{
		"status": statusCode,
		"error":  err.Error(),
	}).Debug(msg)
	http.Error(w, errors.Cause(err).Error(), statusCode)
}

// mustGetUser returns the authenticated user of the request. Routes that
// call it are wrapped by the auth middleware.
func mustGetUser(w http.ResponseWriter, r *http.Request) (database.User, bool) {
	user := context.User(r.Context())
	if user == nil {
		mw.RespondUnauthorized(w)
		return database.User{}, false
	}

	return *user, true
}
