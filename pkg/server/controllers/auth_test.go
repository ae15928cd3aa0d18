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
	"fmt"
	"net/http"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/server/app"
	"github.com/driftnote/driftnote/pkg/server/mailer"
	"github.com/driftnote/driftnote/pkg/server/testutils"
	"github.com/driftnote/driftnote/pkg/server/token"
	"github.com/pkg/errors"
)

func TestSignup(t *testing.T) {
	a := app.NewTest(t)
	emailBackend := a.EmailBackend.(*testutils.MockEmailbackendImplementation)
	server := MustNewServer(t, &a)

	req := testutils.MakeReq(server.URL, "POST", "/auth/v1/signup", `{"email": "Alice@Example.com", "password": "pass1234"}`)
	res := testutils.HTTPDo(t, req)
	assert.Equal(t, res.StatusCode, http.StatusOK, "status code mismatch")

	var body TokenResponse
	testutils.MustReadJSON(t, res, &body)
	assert.Equal(t, body.User.Email, "alice@example.com", "email mismatch")
	assert.Equal(t, body.TokenType, "bearer", "token type mismatch")

	claims, err := token.Parse(a.JWTSecret, body.AccessToken, a.Clock.Now())
	if err != nil {
		t.Fatal(errors.Wrap(err, "parsing the access token"))
	}
	assert.Equal(t, claims.Subject, body.User.ID, "subject mismatch")

	sent := emailBackend.Sent()
	assert.Equal(t, len(sent), 1, "email count mismatch")
	assert.Equal(t, sent[0].TemplateType, mailer.EmailTypeWelcome, "template mismatch")
}

func TestSignupErrors(t *testing.T) {
	a := app.NewTest(t)
	testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	server := MustNewServer(t, &a)

	testCases := []struct {
		payload      string
		expectedCode int
	}{
		{payload: `{"email": "alice@example.com", "password": "pass1234"}`, expectedCode: http.StatusConflict},
		{payload: `{"email": "bob@example.com", "password": "short"}`, expectedCode: http.StatusBadRequest},
		{payload: `{"email": "not-an-email", "password": "pass1234"}`, expectedCode: http.StatusBadRequest},
		{payload: `{"password": "pass1234"}`, expectedCode: http.StatusBadRequest},
		{payload: `{"email": `, expectedCode: http.StatusBadRequest},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			req := testutils.MakeReq(server.URL, "POST", "/auth/v1/signup", tc.payload)
			res := testutils.HTTPDo(t, req)

			assert.Equal(t, res.StatusCode, tc.expectedCode, "status code mismatch")
		})
	}
}

func TestToken(t *testing.T) {
	a := app.NewTest(t)
	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	server := MustNewServer(t, &a)

	testCases := []struct {
		payload      string
		expectedCode int
	}{
		{payload: `{"email": "alice@example.com", "password": "pass1234"}`, expectedCode: http.StatusOK},
		{payload: `{"email": " ALICE@example.com", "password": "pass1234"}`, expectedCode: http.StatusOK},
		{payload: `{"email": "alice@example.com", "password": "wrong-password"}`, expectedCode: http.StatusUnauthorized},
		{payload: `{"email": "nobody@example.com", "password": "pass1234"}`, expectedCode: http.StatusUnauthorized},
		{payload: `{"email": "", "password": "pass1234"}`, expectedCode: http.StatusBadRequest},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			req := testutils.MakeReq(server.URL, "POST", "/auth/v1/token", tc.payload)
			res := testutils.HTTPDo(t, req)

			assert.Equal(t, res.StatusCode, tc.expectedCode, "status code mismatch")
			if tc.expectedCode != http.StatusOK {
				return
			}

			var body TokenResponse
			testutils.MustReadJSON(t, res, &body)
			assert.Equal(t, body.User.ID, user.UUID, "user mismatch")
			assert.Equal(t, body.ExpiresIn, int64(a.SessionTTL.Seconds()), "expiry mismatch")
		})
	}
}
