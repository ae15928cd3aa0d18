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
	mw "github.com/driftnote/driftnote/pkg/server/middleware"
	"github.com/gorilla/mux"
)

const (
	// ProcAcceptShare accepts a share invitation
	ProcAcceptShare = "accept_share"
	// ProcDeclineShare declines a share invitation
	ProcDeclineShare = "decline_share"
)

// NewRPC creates a new RPC controller
func NewRPC(app *app.App) *RPC {
	return &RPC{
		app: app,
	}
}

// RPC is a controller for the remote procedures
type RPC struct {
	app *app.App
}

// InviteParams is the payload of the share procedures
type InviteParams struct {
	InviteID string `json:"invite_id"`
}

// Invoke handles POST /rest/v1/rpc/{proc}. It responds with the answered
// invitation.
func (c *RPC) Invoke(w http.ResponseWriter, r *http.Request) {
	user, ok := mustGetUser(w, r)
	if !ok {
		return
	}

	var p InviteParams
	if err := parseRequestData(r, &p); err != nil {
		handleJSONError(w, err, "parsing payload")
		return
	}
	if p.InviteID == "" {
		handleJSONError(w, app.ErrMissingID, "invoking procedure")
		return
	}

	var ret app.ShareAnswer
	var err error
	switch mux.Vars(r)["proc"] {
	case ProcAcceptShare:
		ret, err = c.app.AcceptShare(user, p.InviteID)
	case ProcDeclineShare:
		ret, err = c.app.DeclineShare(user, p.InviteID)
	default:
		err = ErrUnknownProcedure
	}
	if err != nil {
		handleJSONError(w, err, "invoking procedure")
		return
	}

	mw.RespondJSON(w, http.StatusOK, ret)
}
