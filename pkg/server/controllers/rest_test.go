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
	"fmt"
	"net/http"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/server/app"
	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/testutils"
	"github.com/pkg/errors"
)

func TestUpsertAndSelectNotes(t *testing.T) {
	a := app.NewTest(t)
	alice := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	server := MustNewServer(t, &a)

	payload := fmt.Sprintf(`{
		"id": "n1",
		"user_id": "%s",
		"title": "Groceries",
		"content": "milk",
		"folder_id": null,
		"tags": ["home", "errands"],
		"starred": true,
		"note_type": "checklist",
		"note_data": {"items": [{"text": "milk", "done": false}]},
		"sort_order": 3,
		"created_at": "2024-01-01T10:00:00.000Z",
		"updated_at": "2024-01-01T11:00:00.000Z"
	}`, alice.UUID)
	req := testutils.MakeReq(server.URL, "POST", "/rest/v1/notes", payload)
	req.Header.Set("Prefer", "resolution=merge-duplicates,return=representation")
	res := testutils.HTTPAuthDo(t, req, alice)
	assert.Equal(t, res.StatusCode, http.StatusOK, "status code mismatch")

	var stored map[string]interface{}
	testutils.MustReadJSON(t, res, &stored)
	assert.Equal(t, stored["id"], "n1", "id mismatch")
	assert.Equal(t, stored["updated_at"], "2024-01-01T11:00:00.000Z", "updated_at mismatch")

	req = testutils.MakeReq(server.URL, "GET", fmt.Sprintf("/rest/v1/notes?user_id=%s", alice.UUID), "")
	res = testutils.HTTPAuthDo(t, req, alice)
	assert.Equal(t, res.StatusCode, http.StatusOK, "status code mismatch")

	var notes []database.Note
	testutils.MustReadJSON(t, res, &notes)
	assert.Equal(t, len(notes), 1, "note count mismatch")
	assert.DeepEqual(t, []string(notes[0].Tags), []string{"home", "errands"}, "tags mismatch")
	assert.Equal(t, notes[0].Starred, true, "starred mismatch")
	assert.Equal(t, *notes[0].SortOrder, int64(3), "sort order mismatch")

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(notes[0].NoteData), &data); err != nil {
		t.Fatal(errors.Wrap(err, "decoding note_data"))
	}
	assert.Equal(t, len(data["items"].([]interface{})), 1, "note_data mismatch")
}

func TestSelectEmptyCollection(t *testing.T) {
	a := app.NewTest(t)
	alice := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	server := MustNewServer(t, &a)

	for idx, collection := range []string{
		database.CollectionNotes,
		database.CollectionFolders,
		database.CollectionTags,
		database.CollectionNoteShares,
		database.CollectionAcceptedShares,
	} {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			req := testutils.MakeReq(server.URL, "GET", "/rest/v1/"+collection, "")
			res := testutils.HTTPAuthDo(t, req, alice)

			assert.Equal(t, res.StatusCode, http.StatusOK, "status code mismatch")
			assert.Equal(t, res.Header.Get("Content-Type"), "application/json", "content type mismatch")

			var rows []map[string]interface{}
			testutils.MustReadJSON(t, res, &rows)
			assert.Equal(t, rows != nil, true, "rows should be an empty array")
			assert.Equal(t, len(rows), 0, "row count mismatch")
		})
	}
}

func TestRestErrors(t *testing.T) {
	a := app.NewTest(t)
	alice := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	bob := testutils.SetupUserData(a.DB, "bob@example.com", "pass1234")
	testutils.MustExec(t, a.DB.Save(&database.Note{ID: "n1", UserID: alice.UUID}), "preparing note")
	server := MustNewServer(t, &a)

	testCases := []struct {
		method       string
		path         string
		payload      string
		expectedCode int
	}{
		{method: "GET", path: "/rest/v1/books", expectedCode: http.StatusNotFound},
		{method: "GET", path: "/rest/v1/notes?user_id=" + alice.UUID, expectedCode: http.StatusForbidden},
		{method: "GET", path: "/rest/v1/notes?deleted=maybe", expectedCode: http.StatusBadRequest},
		{method: "POST", path: "/rest/v1/notes", payload: `{"id": "n1", "title": "mine now"}`, expectedCode: http.StatusForbidden},
		{method: "POST", path: "/rest/v1/notes", payload: `{"title": "no id"}`, expectedCode: http.StatusBadRequest},
		{method: "POST", path: "/rest/v1/notes", payload: `{"id": `, expectedCode: http.StatusBadRequest},
		{method: "POST", path: "/rest/v1/accepted_shares", payload: `{"id": "s1"}`, expectedCode: http.StatusMethodNotAllowed},
		{method: "DELETE", path: "/rest/v1/notes/n1?user_id=" + alice.UUID, expectedCode: http.StatusForbidden},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			req := testutils.MakeReq(server.URL, tc.method, tc.path, tc.payload)
			res := testutils.HTTPAuthDo(t, req, bob)

			assert.Equal(t, res.StatusCode, tc.expectedCode, "status code mismatch")
		})
	}

	var count int64
	testutils.MustExec(t, a.DB.Model(&database.Note{}).Where("user_id = ?", alice.UUID).Count(&count), "counting notes")
	assert.Equal(t, count, int64(1), "note should be untouched")
}

func TestDeleteRows(t *testing.T) {
	a := app.NewTest(t)
	alice := testutils.SetupUserData(a.DB, "alice@example.com", "pass1234")
	testutils.MustExec(t, a.DB.Save(&database.Note{ID: "n1", UserID: alice.UUID}), "preparing note")
	testutils.MustExec(t, a.DB.Save(&database.Folder{ID: "f1", UserID: alice.UUID, Name: "Work"}), "preparing folder")
	testutils.MustExec(t, a.DB.Save(&database.Tag{ID: "t1", UserID: alice.UUID, Name: "idea"}), "preparing tag")
	server := MustNewServer(t, &a)

	testCases := []struct {
		path string
	}{
		{path: "/rest/v1/notes/n1"},
		{path: "/rest/v1/folders/f1"},
		{path: "/rest/v1/tags/t1"},
		{path: "/rest/v1/notes/missing"},
	}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("test case %d", idx), func(t *testing.T) {
			req := testutils.MakeReq(server.URL, "DELETE", fmt.Sprintf("%s?user_id=%s", tc.path, alice.UUID), "")
			res := testutils.HTTPAuthDo(t, req, alice)

			assert.Equal(t, res.StatusCode, http.StatusNoContent, "status code mismatch")
		})
	}

	var noteCount, folderCount, tagCount int64
	testutils.MustExec(t, a.DB.Model(&database.Note{}).Count(&noteCount), "counting notes")
	testutils.MustExec(t, a.DB.Model(&database.Folder{}).Count(&folderCount), "counting folders")
	testutils.MustExec(t, a.DB.Model(&database.Tag{}).Count(&tagCount), "counting tags")
	assert.Equal(t, noteCount, int64(0), "note count mismatch")
	assert.Equal(t, folderCount, int64(0), "folder count mismatch")
	assert.Equal(t, tagCount, int64(0), "tag count mismatch")
}
