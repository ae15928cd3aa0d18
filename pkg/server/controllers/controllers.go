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
	"github.com/driftnote/driftnote/pkg/server/app"
)

// Controllers is a group of controllers
type Controllers struct {
	Auth     *Auth
	Rest     *Rest
	RPC      *RPC
	Realtime *Realtime
	Health   *Health
}

// New returns a new group of controllers
func New(app *app.App) *Controllers {
	c := Controllers{}

	c.Auth = NewAuth(app)
	c.Rest = NewRest(app)
	c.RPC = NewRPC(app)
	c.Realtime = NewRealtime(app)
	c.Health = NewHealth(app)

	return &c
}
