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
	"testing"
	"time"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

func signToken(t *testing.T, claims jwt.MapClaims) string {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(errors.Wrap(err, "signing token"))
	}

	return tok
}

func TestParseSession(t *testing.T) {
	exp := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	tok := signToken(t, jwt.MapClaims{"sub": "u1", "email": "alice@example.com", "exp": exp.Unix()})

	s, err := ParseSession(tok)
	assert.Nil(t, err, "parsing")
	assert.Equal(t, s.UserID, "u1", "user id")
	assert.Equal(t, s.Email, "alice@example.com", "email")
	assert.Equal(t, s.ExpiresAt, exp.Unix(), "expiry")

	assert.Equal(t, s.Valid(exp.Add(-time.Minute)), true, "valid before expiry")
	assert.Equal(t, s.Valid(exp), false, "invalid at expiry")
}

func TestParseSessionWithoutSubject(t *testing.T) {
	_, err := ParseSession(signToken(t, jwt.MapClaims{"email": "alice@example.com"}))
	assert.NotEqual(t, err, nil, "should fail")

	_, err = ParseSession("not-a-token")
	assert.NotEqual(t, err, nil, "should fail")
}

func TestSessionStorage(t *testing.T) {
	db := database.InitTestMemoryDB(t)

	_, err := LoadSession(db)
	assert.Equal(t, err, ErrUnauthenticated, "no session")

	tok := signToken(t, jwt.MapClaims{"sub": "u1", "exp": int64(1893456000)})
	s, err := ParseSession(tok)
	assert.Nil(t, err, "parsing")
	assert.Nil(t, SaveSession(db, s), "saving")

	got, err := LoadSession(db)
	assert.Nil(t, err, "loading")
	assert.Equal(t, got, s, "session mismatch")

	assert.Nil(t, ClearSession(db), "clearing")
	_, err = LoadSession(db)
	assert.Equal(t, err, ErrUnauthenticated, "cleared session")
}
