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
	"time"

	"github.com/driftnote/driftnote/pkg/cli/consts"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Session is an authenticated remote session
type Session struct {
	AccessToken string
	UserID      string
	Email       string
	// ExpiresAt is the unix time in seconds at which the session expires
	ExpiresAt int64
}

// Token returns the access token
func (s Session) Token() string {
	return s.AccessToken
}

// Valid returns true if the session carries a user and is not expired at t
func (s Session) Valid(t time.Time) bool {
	if s.AccessToken == "" || s.UserID == "" {
		return false
	}

	return s.ExpiresAt == 0 || t.Unix() < s.ExpiresAt
}

// ParseSession reads the user id, email and expiry out of an access token.
// The signature is not verified; the remote verifies it on every request.
func ParseSession(token string) (Session, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Session{}, errors.Wrap(err, "parsing the token")
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return Session{}, errors.Wrap(err, "reading the subject")
	}
	if sub == "" {
		return Session{}, errors.New("token has no subject")
	}

	ret := Session{
		AccessToken: token,
		UserID:      sub,
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return Session{}, errors.Wrap(err, "reading the expiry")
	}
	if exp != nil {
		ret.ExpiresAt = exp.Unix()
	}

	if email, ok := claims["email"].(string); ok {
		ret.Email = email
	}

	return ret, nil
}

// LoadSession reads the stored session. It returns ErrUnauthenticated if
// there is none.
func LoadSession(db *database.DB) (Session, error) {
	var token string
	err := database.GetSystem(db, consts.SystemSessionKey, &token)
	if errors.Cause(err) == database.ErrNotFound || (err == nil && token == "") {
		return Session{}, ErrUnauthenticated
	} else if err != nil {
		return Session{}, errors.Wrap(err, "reading the session")
	}

	return ParseSession(token)
}

// SaveSession stores the session
func SaveSession(db *database.DB, s Session) error {
	return database.WithTx(db, func(tx *database.DB) error {
		if err := database.UpsertSystem(tx, consts.SystemSessionKey, s.AccessToken); err != nil {
			return err
		}
		if err := database.UpsertSystem(tx, consts.SystemSessionKeyExpiry, s.ExpiresAt); err != nil {
			return err
		}
		if err := database.UpsertSystem(tx, consts.SystemSessionUserID, s.UserID); err != nil {
			return err
		}

		return database.UpsertSystem(tx, consts.SystemSessionEmail, s.Email)
	})
}

// ClearSession removes the stored session
func ClearSession(db *database.DB) error {
	return database.WithTx(db, func(tx *database.DB) error {
		for _, key := range []string{consts.SystemSessionKey, consts.SystemSessionKeyExpiry, consts.SystemSessionUserID, consts.SystemSessionEmail} {
			if err := database.DeleteSystem(tx, key); err != nil {
				return err
			}
		}

		return nil
	})
}

// SessionFunc returns the current session
type SessionFunc func() (Session, error)

// StoredSession returns a SessionFunc that reads the session stored in db
func StoredSession(db *database.DB) SessionFunc {
	return func() (Session, error) {
		return LoadSession(db)
	}
}
