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
	"github.com/pkg/errors"
)

// Route represents a single route
type Route struct {
	Method    string
	Pattern   string
	Handler   http.HandlerFunc
	RateLimit bool
}

// RouteConfig is the configuration for routes
type RouteConfig struct {
	Controllers  *Controllers
	PublicRoutes []Route
	APIRoutes    []Route
}

// NewPublicRoutes returns the routes reachable without an API key
func NewPublicRoutes(a *app.App, c *Controllers) []Route {
	return []Route{
		{"GET", "/health", c.Health.Index, true},
	}
}

// NewAPIRoutes returns the routes that require the API key
func NewAPIRoutes(a *app.App, c *Controllers) []Route {
	ret := []Route{
		{"POST", "/auth/v1/token", c.Auth.Token, true},

		{"POST", "/rest/v1/rpc/{proc}", mw.Auth(a, c.RPC.Invoke), true},
		{"GET", "/rest/v1/{collection}", mw.Auth(a, c.Rest.Select), true},
		{"POST", "/rest/v1/{collection}", mw.Auth(a, c.Rest.Upsert), true},
		{"DELETE", "/rest/v1/{collection}/{id}", mw.Auth(a, c.Rest.Delete), true},

		{"GET", "/realtime/v1/{collection}/{id}", mw.Auth(a, c.Realtime.Subscribe), false},
	}

	if !a.DisableRegistration {
		ret = append(ret, Route{"POST", "/auth/v1/signup", c.Auth.Signup, true})
	}

	return ret
}

func registerRoutes(router *mux.Router, wrapper mw.Middleware, app *app.App, routes []Route) {
	for _, route := range routes {
		wrappedHandler := wrapper(route.Handler, app, route.RateLimit)

		router.
			Handle(route.Pattern, wrappedHandler).
			Methods(route.Method)
	}
}

// NewRouter creates and returns a new router
func NewRouter(app *app.App, rc RouteConfig) (http.Handler, error) {
	if err := app.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating the app parameters")
	}

	router := mux.NewRouter()

	registerRoutes(router, mw.PublicMw, app, rc.PublicRoutes)
	registerRoutes(router, mw.APIMw, app, rc.APIRoutes)

	router.NotFoundHandler = http.HandlerFunc(mw.NotFound)

	return mw.Global(router), nil
}
