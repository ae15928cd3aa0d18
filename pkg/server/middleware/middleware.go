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

package middleware

import (
	"bufio"
	"net"
	"net/http"
	"time"

	"github.com/driftnote/driftnote/pkg/server/app"
	"github.com/driftnote/driftnote/pkg/server/log"
	"github.com/pkg/errors"
)

// Middleware wraps a route handler
type Middleware func(h http.HandlerFunc, app *app.App, rateLimit bool) http.Handler

// APIMw is the middleware for the API routes. Every request must carry the
// API key of the service.
func APIMw(next http.HandlerFunc, app *app.App, rateLimit bool) http.Handler {
	return RequireAPIKey(app.APIKey, ApplyLimit(next, rateLimit))
}

// PublicMw is the middleware for routes reachable without an API key
func PublicMw(next http.HandlerFunc, app *app.App, rateLimit bool) http.Handler {
	return ApplyLimit(next, rateLimit)
}

// statusWriter records the status code written to the response
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets websocket upgrades through the wrapper
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}

	w.status = http.StatusSwitchingProtocols
	return hj.Hijack()
}

func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Global is the middleware applied to every request. It logs the request
// once the response is written.
func Global(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   sw.status,
			"duration": time.Since(start).String(),
			"ip":       lookupIP(r),
		}).Debug("Request")
	})
}

// NotFound responds with not found
func NotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "not found", http.StatusNotFound)
}
