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

// Package remote defines the remote data service the client reconciles
// against, along with its HTTP and null implementations
package remote

import (
	"context"

	"github.com/driftnote/driftnote/pkg/cli/config"
	"github.com/pkg/errors"
)

var (
	// ErrNotConfigured is returned by remote operations when no remote
	// credentials are configured
	ErrNotConfigured = errors.New("remote is not configured")
	// ErrUnauthenticated is returned when there is no valid session
	ErrUnauthenticated = errors.New("not logged in")
)

const (
	// ProcAcceptShare accepts a share invitation
	ProcAcceptShare = "accept_share"
	// ProcDeclineShare declines a share invitation
	ProcDeclineShare = "decline_share"
)

const (
	// EventInsert is the realtime event type for a created row
	EventInsert = "INSERT"
	// EventUpdate is the realtime event type for an updated row
	EventUpdate = "UPDATE"
	// EventDelete is the realtime event type for a deleted row
	EventDelete = "DELETE"
)

// Filter restricts a select to rows whose fields equal the given values
type Filter map[string]string

// Change is a realtime change delivered by a subscription
type Change struct {
	EventType string `json:"eventType"`
	New       Row    `json:"new"`
}

// Service is the remote data service. Collections are notes, folders, tags,
// note_shares and accepted_shares.
type Service interface {
	Configured() bool
	Select(ctx context.Context, collection string, filter Filter) ([]Row, error)
	Upsert(ctx context.Context, collection string, row Row) (Row, error)
	Delete(ctx context.Context, collection, id, userID string) error
	Invoke(ctx context.Context, procedure string, params Row) (Row, error)
	Subscribe(ctx context.Context, collection, id string) (<-chan Change, error)
}

// Pinger is implemented by services that can report reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// TokenSource supplies the current session access token
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to a TokenSource
type TokenFunc func() string

// Token returns the token
func (f TokenFunc) Token() string {
	return f()
}

// New returns the HTTP service when the credentials are configured, and the
// null service otherwise
func New(creds config.Credentials, tokens TokenSource, version string) Service {
	if !creds.Configured() {
		return Null{}
	}

	return NewHTTP(creds, tokens, version)
}
