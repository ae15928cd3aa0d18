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

// Package testutils provides utilities used in tests
package testutils

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// TestSigningKey signs the access tokens issued in tests
var TestSigningKey = []byte("driftnote-test-signing-key")

// MustSignToken issues an access token for the user that expires at exp
func MustSignToken(t *testing.T, userID, email string, exp time.Time) string {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"exp":   exp.Unix(),
	}

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(TestSigningKey)
	if err != nil {
		t.Fatal(errors.Wrap(err, "signing a token"))
	}

	return tok
}

// Login stores a session for the user that is valid for a year after
// 2024-01-01, the default time of the mock clock
func Login(t *testing.T, db *database.DB, userID, email string) remote.Session {
	exp := time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

	s, err := remote.ParseSession(MustSignToken(t, userID, email, exp))
	if err != nil {
		t.Fatal(errors.Wrap(err, "parsing the session"))
	}
	if err := remote.SaveSession(db, s); err != nil {
		t.Fatal(errors.Wrap(err, "saving the session"))
	}

	return s
}

// MustMarshalJSON marshalls the given value to JSON
func MustMarshalJSON(t *testing.T, v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatal(errors.Wrap(err, "marshalling data"))
	}

	return b
}

// MustUnmarshalJSON unmarshalls the given JSON into the given value
func MustUnmarshalJSON(t *testing.T, data []byte, v interface{}) {
	if err := json.Unmarshal(data, v); err != nil {
		t.Fatal(errors.Wrap(err, "unmarshalling data"))
	}
}

// MustGenerateUUID generates the uuid. If error occurs, it fails the test.
func MustGenerateUUID(t *testing.T) string {
	ret, err := utils.GenerateUUID()
	if err != nil {
		t.Fatal(errors.Wrap(err, "generating uuid").Error())
	}

	return ret
}

// MustInsertNote inserts the note into the local store
func MustInsertNote(t *testing.T, db *database.DB, n database.Note) {
	if n.NoteType == "" {
		n.NoteType = database.DefaultNoteType
	}
	if n.SyncStatus == "" {
		n.SyncStatus = database.StatusSynced
	}

	if err := n.Insert(db); err != nil {
		t.Fatal(errors.Wrap(err, "inserting note"))
	}
}

// MustInsertFolder inserts the folder into the local store
func MustInsertFolder(t *testing.T, db *database.DB, f database.Folder) {
	if f.SyncStatus == "" {
		f.SyncStatus = database.StatusSynced
	}

	if err := f.Insert(db); err != nil {
		t.Fatal(errors.Wrap(err, "inserting folder"))
	}
}

// MustInsertTag inserts the tag into the local store
func MustInsertTag(t *testing.T, db *database.DB, tag database.Tag) {
	if tag.SyncStatus == "" {
		tag.SyncStatus = database.StatusSynced
	}

	if err := tag.Insert(db); err != nil {
		t.Fatal(errors.Wrap(err, "inserting tag"))
	}
}
