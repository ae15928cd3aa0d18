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

package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/clock"
	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/testutils"
	"github.com/driftnote/driftnote/pkg/server/token"
	"github.com/pkg/errors"
)

func TestCreateUser(t *testing.T) {
	testCases := []struct {
		email       string
		password    string
		expectedErr error
	}{
		{email: "alice@example.com", password: "pass1234", expectedErr: nil},
		{email: "  Alice@Example.com ", password: "pass1234", expectedErr: nil},
		{email: "", password: "pass1234", expectedErr: ErrEmailRequired},
		{email: "not-an-email", password: "pass1234", expectedErr: ErrEmailInvalid},
		{email: "alice@example.com", password: "short", expectedErr: ErrPasswordTooShort},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			a := NewTest(t)

			user, err := a.CreateUser(tc.email, tc.password)
			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
			if tc.expectedErr != nil {
				return
			}

			assert.Equal(t, user.Email, "alice@example.com", "email mismatch")
			assert.NotEqual(t, user.UUID, "", "uuid should be set")
			assert.NotEqual(t, user.Password, tc.password, "password should be hashed")
		})
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	a := NewTest(t)

	if _, err := a.CreateUser("alice@example.com", "pass1234"); err != nil {
		t.Fatal(errors.Wrap(err, "creating user"))
	}
	_, err := a.CreateUser("ALICE@example.com", "pass5678")

	assert.Equal(t, errors.Cause(err), ErrDuplicateEmail, "error mismatch")
}

func TestAuthenticate(t *testing.T) {
	a := NewTest(t)
	testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

	testCases := []struct {
		email       string
		password    string
		expectedErr error
	}{
		{email: "alice@example.com", password: "pass1234", expectedErr: nil},
		{email: "alice@example.com", password: "wrong-pass", expectedErr: ErrLoginInvalid},
		{email: "bob@example.com", password: "pass1234", expectedErr: ErrNotFound},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			_, err := a.Authenticate(tc.email, tc.password)

			assert.Equal(t, errors.Cause(err), tc.expectedErr, "error mismatch")
		})
	}
}

func TestSignInAndAuthenticateToken(t *testing.T) {
	a := NewTest(t)
	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

	tok, err := a.SignIn(&user)
	if err != nil {
		t.Fatal(errors.Wrap(err, "signing in"))
	}

	got, claims, err := a.AuthenticateToken(tok)
	if err != nil {
		t.Fatal(errors.Wrap(err, "authenticating"))
	}

	assert.Equal(t, got.UUID, user.UUID, "user mismatch")
	assert.Equal(t, claims.Email, "alice@example.com", "email claim mismatch")

	var stored database.User
	testutils.MustExec(t, a.DB.Where("id = ?", user.ID).First(&stored), "finding user")
	assert.Equal(t, stored.LastLoginAt != nil, true, "last login should be set")
}

func TestAuthenticateTokenExpired(t *testing.T) {
	a := NewTest(t)
	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

	tok, err := a.SignIn(&user)
	if err != nil {
		t.Fatal(errors.Wrap(err, "signing in"))
	}

	a.Clock.(*clock.Mock).Advance(a.SessionTTL + time.Minute)
	_, _, err = a.AuthenticateToken(tok)

	assert.Equal(t, errors.Cause(err), token.ErrExpired, "error mismatch")
}

func TestRemoveUser(t *testing.T) {
	a := NewTest(t)
	alice := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(a.DB, "bob@example.com", "pass1234")

	testutils.MustExec(t, a.DB.Save(&database.Note{ID: "n1", UserID: alice.UUID}), "preparing note")
	testutils.MustExec(t, a.DB.Save(&database.Note{ID: "n2", UserID: bob.UUID}), "preparing note")
	testutils.MustExec(t, a.DB.Save(&database.Folder{ID: "f1", UserID: alice.UUID}), "preparing folder")
	testutils.MustExec(t, a.DB.Save(&database.AcceptedShare{ID: "s1", UserID: bob.UUID, NoteID: "n1"}), "preparing share")

	if err := a.RemoveUser("alice@example.com"); err != nil {
		t.Fatal(errors.Wrap(err, "removing user"))
	}

	var userCount, noteCount, folderCount, shareCount int64
	testutils.MustExec(t, a.DB.Model(&database.User{}).Count(&userCount), "counting users")
	testutils.MustExec(t, a.DB.Model(&database.Note{}).Count(&noteCount), "counting notes")
	testutils.MustExec(t, a.DB.Model(&database.Folder{}).Count(&folderCount), "counting folders")
	testutils.MustExec(t, a.DB.Model(&database.AcceptedShare{}).Count(&shareCount), "counting shares")

	assert.Equal(t, userCount, int64(1), "user count mismatch")
	assert.Equal(t, noteCount, int64(1), "note count mismatch")
	assert.Equal(t, folderCount, int64(0), "folder count mismatch")
	assert.Equal(t, shareCount, int64(0), "share count mismatch")

	assert.Equal(t, errors.Cause(a.RemoveUser("alice@example.com")), ErrNotFound, "error mismatch")
}

func TestUpdateUserPassword(t *testing.T) {
	a := NewTest(t)
	user := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

	if err := UpdateUserPassword(a.DB, &user, "newpass1234"); err != nil {
		t.Fatal(errors.Wrap(err, "updating password"))
	}

	_, err := a.Authenticate("alice@example.com", "newpass1234")
	assert.Equal(t, err, nil, "new password should authenticate")

	assert.Equal(t, UpdateUserPassword(a.DB, &user, "short"), ErrPasswordTooShort, "error mismatch")
}

func TestListUsers(t *testing.T) {
	a := NewTest(t)
	bob := testutils.SetupUserData(a.DB, "bob@example.com", "pass1234")
	alice := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")

	testutils.MustExec(t, a.DB.Save(&database.Note{ID: "n1", UserID: bob.UUID}), "preparing note")
	testutils.MustExec(t, a.DB.Save(&database.Note{ID: "n2", UserID: bob.UUID}), "preparing note")

	got, err := a.ListUsers()
	if err != nil {
		t.Fatal(errors.Wrap(err, "listing users"))
	}

	assert.Equal(t, len(got), 2, "user count")
	assert.Equal(t, got[0].Email, "alice@example.com", "users are ordered by email")
	assert.Equal(t, got[0].UUID, alice.UUID, "uuid of the first user")
	assert.Equal(t, got[0].Notes, int64(0), "notes of alice")
	assert.Equal(t, got[1].Notes, int64(2), "notes of bob")
}
