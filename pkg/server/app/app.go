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

// Package app implements the rules of the remote data service
package app

import (
	"time"

	"github.com/driftnote/driftnote/pkg/clock"
	"github.com/driftnote/driftnote/pkg/server/mailer"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	// ErrEmptyDB is an error for missing database connection in the app configuration
	ErrEmptyDB = errors.New("No database connection was provided")
	// ErrEmptyClock is an error for missing clock in the app configuration
	ErrEmptyClock = errors.New("No clock was provided")
	// ErrEmptyWebURL is an error for missing WebURL content in the app configuration
	ErrEmptyWebURL = errors.New("No WebURL was provided")
	// ErrEmptyEmailBackend is an error for missing EmailBackend content in the app configuration
	ErrEmptyEmailBackend = errors.New("No EmailBackend was provided")
	// ErrEmptyAPIKey is an error for missing APIKey in the app configuration
	ErrEmptyAPIKey = errors.New("No APIKey was provided")
	// ErrEmptyJWTSecret is an error for missing JWTSecret in the app configuration
	ErrEmptyJWTSecret = errors.New("No JWTSecret was provided")
)

// Publisher receives the changes made to rows
type Publisher interface {
	Publish(collection, id, eventType string, row interface{})
}

// App is an application context
type App struct {
	DB                  *gorm.DB
	Clock               clock.Clock
	EmailBackend        mailer.Backend
	Realtime            Publisher
	WebURL              string
	APIKey              string
	JWTSecret           []byte
	SessionTTL          time.Duration
	DisableRegistration bool
}

// Validate validates the app configuration
func (a *App) Validate() error {
	if a.WebURL == "" {
		return ErrEmptyWebURL
	}
	if a.Clock == nil {
		return ErrEmptyClock
	}
	if a.EmailBackend == nil {
		return ErrEmptyEmailBackend
	}
	if a.DB == nil {
		return ErrEmptyDB
	}
	if a.APIKey == "" {
		return ErrEmptyAPIKey
	}
	if len(a.JWTSecret) == 0 {
		return ErrEmptyJWTSecret
	}

	return nil
}

func (a *App) publish(collection, id, eventType string, row interface{}) {
	if a.Realtime == nil {
		return
	}

	a.Realtime.Publish(collection, id, eventType, row)
}
