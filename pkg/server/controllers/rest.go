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
	mw "github.com/driftnote/driftnote/pkg/server/middleware"
	"github.com/gorilla/mux"
)

// NewRest creates a new Rest controller
func NewRest(app *app.App) *Rest {
	return &Rest{
		app: app,
	}
}

// Rest is a controller for the row collections. Every row is scoped to the
// authenticated user.
type Rest struct {
	app *app.App
}

func (c *Rest) selectRows(r *http.Request, user database.User, collection string) (interface{}, error) {
	switch collection {
	case database.CollectionNotes:
		var f app.NoteFilter
		if err := parseQuery(r, &f); err != nil {
			return nil, err
		}
		return c.app.SelectNotes(user, f)
	case database.CollectionFolders:
		var f app.OwnerFilter
		if err := parseQuery(r, &f); err != nil {
			return nil, err
		}
		return c.app.SelectFolders(user, f)
	case database.CollectionTags:
		var f app.OwnerFilter
		if err := parseQuery(r, &f); err != nil {
			return nil, err
		}
		return c.app.SelectTags(user, f)
	case database.CollectionNoteShares:
		var f app.NoteShareFilter
		if err := parseQuery(r, &f); err != nil {
			return nil, err
		}
		return c.app.SelectNoteShares(user, f)
	case database.CollectionAcceptedShares:
		var f app.OwnerFilter
		if err := parseQuery(r, &f); err != nil {
			return nil, err
		}
		return c.app.SelectAcceptedShares(user, f)
	}

	return nil, ErrUnknownCollection
}

// Select handles GET /rest/v1/{collection}
func (c *Rest) Select(w http.ResponseWriter, r *http.Request) {
	user, ok := mustGetUser(w, r)
	if !ok {
		return
	}

	rows, err := c.selectRows(r, user, mux.Vars(r)["collection"])
	if err != nil {
		handleJSONError(w, err, "selecting rows")
		return
	}

	mw.RespondJSON(w, http.StatusOK, rows)
}

func (c *Rest) upsertRow(r *http.Request, user database.User, collection string) (interface{}, error) {
	switch collection {
	case database.CollectionNotes:
		var n database.Note
		if err := parseRequestData(r, &n); err != nil {
			return nil, err
		}
		return c.app.UpsertNote(user, n)
	case database.CollectionFolders:
		var f database.Folder
		if err := parseRequestData(r, &f); err != nil {
			return nil, err
		}
		return c.app.UpsertFolder(user, f)
	case database.CollectionTags:
		var t database.Tag
		if err := parseRequestData(r, &t); err != nil {
			return nil, err
		}
		return c.app.UpsertTag(user, t)
	case database.CollectionNoteShares:
		var s database.NoteShare
		if err := parseRequestData(r, &s); err != nil {
			return nil, err
		}
		return c.app.InviteShare(user, s)
	case database.CollectionAcceptedShares:
		return nil, ErrMethodNotAllowed
	}

	return nil, ErrUnknownCollection
}

// Upsert handles POST /rest/v1/{collection}. It responds with the stored row.
func (c *Rest) Upsert(w http.ResponseWriter, r *http.Request) {
	user, ok := mustGetUser(w, r)
	if !ok {
		return
	}

	row, err := c.upsertRow(r, user, mux.Vars(r)["collection"])
	if err != nil {
		handleJSONError(w, err, "upserting row")
		return
	}

	mw.RespondJSON(w, http.StatusOK, row)
}

// DeleteQuery is the query of a delete
type DeleteQuery struct {
	UserID string `schema:"user_id"`
}

func (c *Rest) deleteRow(user database.User, collection, id string, q DeleteQuery) error {
	switch collection {
	case database.CollectionNotes:
		return c.app.DeleteNote(user, id, q.UserID)
	case database.CollectionFolders:
		return c.app.DeleteFolder(user, id, q.UserID)
	case database.CollectionTags:
		return c.app.DeleteTag(user, id, q.UserID)
	case database.CollectionNoteShares:
		return c.app.DeleteNoteShare(user, id)
	case database.CollectionAcceptedShares:
		return c.app.LeaveShare(user, id, q.UserID)
	}

	return ErrUnknownCollection
}

// Delete handles DELETE /rest/v1/{collection}/{id}
func (c *Rest) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := mustGetUser(w, r)
	if !ok {
		return
	}

	var q DeleteQuery
	if err := parseQuery(r, &q); err != nil {
		handleJSONError(w, err, "parsing query")
		return
	}

	vars := mux.Vars(r)
	if err := c.deleteRow(user, vars["collection"], vars["id"], q); err != nil {
		handleJSONError(w, err, "deleting row")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
