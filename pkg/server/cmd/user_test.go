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

package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/server/app"
	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/testutils"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

func setupUserDB(t *testing.T) string {
	t.Setenv("DATABASE_URL", "")
	return t.TempDir() + "/test.db"
}

func TestUserCreateCmd(t *testing.T) {
	tmpDB := setupUserDB(t)

	var out bytes.Buffer
	err := userCreateCmd([]string{"--dbPath", tmpDB, "--email", "Test@Example.com", "--password", "password123"}, nil, &out)
	assert.Nil(t, err, "creating user")

	db := testutils.InitDB(tmpDB)
	defer database.Close(db)

	var count int64
	testutils.MustExec(t, db.Model(&database.User{}).Count(&count), "counting users")
	assert.Equal(t, count, int64(1), "should have 1 user")

	var user database.User
	testutils.MustExec(t, db.Where("email = ?", "test@example.com").First(&user), "finding user")
	assert.NotEqual(t, user.UUID, "", "uuid should be set")
	assert.Equal(t, strings.Contains(out.String(), user.UUID), true, "the output names the new user")
}

func TestUserCreateCmdDuplicate(t *testing.T) {
	tmpDB := setupUserDB(t)

	db := testutils.InitDB(tmpDB)
	testutils.SetupUserData(db, "test@example.com", "password123")
	database.Close(db)

	err := userCreateCmd([]string{"--dbPath", tmpDB, "--email", "test@example.com", "--password", "password123"}, nil, &bytes.Buffer{})
	assert.Equal(t, errors.Cause(err), app.ErrDuplicateEmail, "error mismatch")
	assert.Equal(t, isOperatorError(err), true, "reported as a plain message")
}

func TestUserListCmd(t *testing.T) {
	tmpDB := setupUserDB(t)

	db := testutils.InitDB(tmpDB)
	user := testutils.SetupUserData(db, "test@example.com", "password123")
	testutils.MustExec(t, db.Save(&database.Note{ID: "n1", UserID: user.UUID}), "preparing note")
	database.Close(db)

	var out bytes.Buffer
	err := userListCmd([]string{"--dbPath", tmpDB}, nil, &out)
	assert.Nil(t, err, "listing users")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, len(lines), 2, "a header and one user")
	assert.Equal(t, strings.Fields(lines[1])[0], "test@example.com", "email column")
	assert.Equal(t, strings.Fields(lines[1])[2], "1", "notes column")
	assert.Equal(t, strings.Fields(lines[1])[3], "never", "last login column")
}

func TestUserRemoveCmd(t *testing.T) {
	tmpDB := setupUserDB(t)

	db := testutils.InitDB(tmpDB)
	user := testutils.SetupUserData(db, "test@example.com", "password123")
	testutils.MustExec(t, db.Save(&database.Note{ID: "n1", UserID: user.UUID}), "preparing note")
	database.Close(db)

	err := userRemoveCmd([]string{"--dbPath", tmpDB, "--email", "test@example.com"}, strings.NewReader("y\n"), &bytes.Buffer{})
	assert.Nil(t, err, "removing user")

	db2 := testutils.InitDB(tmpDB)
	defer database.Close(db2)

	var userCount, noteCount int64
	testutils.MustExec(t, db2.Model(&database.User{}).Count(&userCount), "counting users")
	testutils.MustExec(t, db2.Model(&database.Note{}).Count(&noteCount), "counting notes")
	assert.Equal(t, userCount, int64(0), "should have 0 users")
	assert.Equal(t, noteCount, int64(0), "should have 0 notes")
}

func TestUserRemoveCmdAborted(t *testing.T) {
	tmpDB := setupUserDB(t)

	db := testutils.InitDB(tmpDB)
	testutils.SetupUserData(db, "test@example.com", "password123")
	database.Close(db)

	err := userRemoveCmd([]string{"--dbPath", tmpDB, "--email", "test@example.com"}, strings.NewReader("n\n"), &bytes.Buffer{})
	assert.Equal(t, errors.Cause(err), errAborted, "error mismatch")

	db2 := testutils.InitDB(tmpDB)
	defer database.Close(db2)

	var userCount int64
	testutils.MustExec(t, db2.Model(&database.User{}).Count(&userCount), "counting users")
	assert.Equal(t, userCount, int64(1), "the user is kept")
}

func TestUserRemoveCmdNotFound(t *testing.T) {
	tmpDB := setupUserDB(t)

	err := userRemoveCmd([]string{"--dbPath", tmpDB, "--email", "nobody@example.com", "--yes"}, nil, &bytes.Buffer{})
	assert.Equal(t, errors.Cause(err), app.ErrNotFound, "error mismatch")
}

func TestUserResetPasswordCmd(t *testing.T) {
	tmpDB := setupUserDB(t)

	db := testutils.InitDB(tmpDB)
	user := testutils.SetupUserData(db, "test@example.com", "oldpassword123")
	oldPasswordHash := user.Password
	database.Close(db)

	err := userResetPasswordCmd([]string{"--dbPath", tmpDB, "--email", "test@example.com", "--password", "newpassword123"}, nil, &bytes.Buffer{})
	assert.Nil(t, err, "resetting password")

	db2 := testutils.InitDB(tmpDB)
	defer database.Close(db2)

	var updatedUser database.User
	testutils.MustExec(t, db2.Where("email = ?", "test@example.com").First(&updatedUser), "finding user")
	assert.NotEqual(t, updatedUser.Password, oldPasswordHash, "password hash should be different")

	err = bcrypt.CompareHashAndPassword([]byte(updatedUser.Password), []byte("newpassword123"))
	assert.Nil(t, err, "new password should match")

	err = bcrypt.CompareHashAndPassword([]byte(updatedUser.Password), []byte("oldpassword123"))
	assert.NotEqual(t, err, nil, "old password should not match")
}
