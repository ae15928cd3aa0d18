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
)

// NewHealth creates a new Health controller
func NewHealth(app *app.App) *Health {
	return &Health{
		app: app,
	}
}

// Health is a health controller.
type Health struct {
	app *app.App
}

// HealthResponse is the body of a health check
type HealthResponse struct {
	Status string `json:"status"`
}

// Index handles GET /health
func (n *Health) Index(w http.ResponseWriter, r *http.Request) {
	if err := database.Ping(n.app.DB); err != nil {
		mw.DoError(w, "pinging the database", err, http.StatusServiceUnavailable)
		return
	}

	mw.RespondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
