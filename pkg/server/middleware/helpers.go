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
	"encoding/json"
	"net/http"
	"strings"

	"github.com/driftnote/driftnote/pkg/server/log"
	"github.com/pkg/errors"
)

// ErrMalformedAuthorization is returned when the Authorization header is not
// a bearer credential
var ErrMalformedAuthorization = errors.New("malformed authorization header")

// DoError logs the error and responds with the given status code
func DoError(w http.ResponseWriter, msg string, err error, statusCode int) {
	if err != nil {
		log.WithFields(log.Fields{
			"status": statusCode,
		}).ErrorWrap(err, msg)
	}

	http.Error(w, http.StatusText(statusCode), statusCode)
}

// RespondUnauthorized responds with unauthorized
func RespondUnauthorized(w http.ResponseWriter) {
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

// RespondForbidden responds with forbidden
func RespondForbidden(w http.ResponseWriter) {
	http.Error(w, "forbidden", http.StatusForbidden)
}

// RespondJSON encodes v as the JSON body of the response
func RespondJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.ErrorWrap(err, "encoding response")
	}
}

// GetCredential extracts the bearer token from the Authorization header. It
// returns an empty string if the header is absent.
func GetCredential(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", nil
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrMalformedAuthorization
	}

	return strings.TrimSpace(parts[1]), nil
}
