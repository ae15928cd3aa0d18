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
	"math"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/driftnote/driftnote/pkg/server/config"
	"github.com/driftnote/driftnote/pkg/server/log"
	"golang.org/x/time/rate"
)

const (
	// defaultRatePerSecond is the steady number of requests a client may make
	defaultRatePerSecond = 50
	// defaultBurst is the number of requests a client may make at once
	defaultBurst = 100
	// visitorIdleTTL is how long an idle client keeps its limiter
	visitorIdleTTL = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter limits the requests of each client address with a token
// bucket. Idle clients are forgotten lazily.
type RateLimiter struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastSweep time.Time
}

// NewRateLimiter returns a limiter that lets each client make perSecond
// requests a second, in bursts of at most burst
func NewRateLimiter(perSecond, burst int) *RateLimiter {
	return &RateLimiter{
		limit:     rate.Limit(perSecond),
		burst:     burst,
		visitors:  map[string]*visitor{},
		lastSweep: time.Now(),
	}
}

var defaultLimiter = NewRateLimiter(defaultRatePerSecond, defaultBurst)

// visitor returns the limiter of the client, creating it on first sight
func (rl *RateLimiter) visitor(identifier string, now time.Time) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > time.Minute {
		for id, v := range rl.visitors {
			if now.Sub(v.lastSeen) > visitorIdleTTL {
				delete(rl.visitors, id)
			}
		}
		rl.lastSweep = now
	}

	v, ok := rl.visitors[identifier]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.visitors[identifier] = v
	}
	v.lastSeen = now

	return v.limiter
}

// size returns the number of tracked clients
func (rl *RateLimiter) size() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	return len(rl.visitors)
}

// lookupIP returns the client address of the request. Proxy headers take
// precedence over the peer address.
func lookupIP(r *http.Request) string {
	if forwardedFor := r.Header.Get("X-Forwarded-For"); forwardedFor != "" {
		first, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}

// retryAfter returns the whole number of seconds until the limiter admits
// another request
func retryAfter(l *rate.Limiter, now time.Time) int {
	res := l.ReserveN(now, 1)
	defer res.CancelAt(now)

	if !res.OK() {
		return 1
	}

	secs := int(math.Ceil(res.DelayFrom(now).Seconds()))
	if secs < 1 {
		return 1
	}

	return secs
}

// Limit is a middleware that responds with 429 once the client runs out of
// requests
func (rl *RateLimiter) Limit(next http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		now := time.Now()
		identifier := lookupIP(r)
		limiter := rl.visitor(identifier, now)

		if !limiter.AllowN(now, 1) {
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter(limiter, now)))
			http.Error(w, "Too many requests", http.StatusTooManyRequests)

			log.WithFields(log.Fields{
				"ip":   identifier,
				"path": r.URL.Path,
			}).Warn("Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	}
}

// ApplyLimit rate limits the handler with the shared limiter unless the
// app runs in the test environment
func ApplyLimit(h http.HandlerFunc, rateLimit bool) http.Handler {
	if !rateLimit || os.Getenv("APP_ENV") == config.AppEnvTest {
		return h
	}

	return defaultLimiter.Limit(h)
}
