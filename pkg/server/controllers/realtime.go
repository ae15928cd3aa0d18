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
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/driftnote/driftnote/pkg/server/app"
	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/log"
	"github.com/driftnote/driftnote/pkg/server/operations"
	"github.com/driftnote/driftnote/pkg/server/realtime"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
)

// realtimeWriteTimeout bounds the delivery of one change to a subscriber
const realtimeWriteTimeout = 10 * time.Second

// Subscriber hands out row subscriptions
type Subscriber interface {
	Subscribe(collection, id string) *realtime.Subscription
}

// NewRealtime creates a new Realtime controller. It serves subscriptions
// only if the publisher of the app also hands them out.
func NewRealtime(app *app.App) *Realtime {
	sub, _ := app.Realtime.(Subscriber)

	return &Realtime{
		app: app,
		sub: sub,
	}
}

// Realtime is a controller for the websocket change streams
type Realtime struct {
	app *app.App
	sub Subscriber
}

// Subscribe handles GET /realtime/v1/{collection}/{id}. It streams the
// changes to a note the user can view until either side closes.
func (c *Realtime) Subscribe(w http.ResponseWriter, r *http.Request) {
	user, ok := mustGetUser(w, r)
	if !ok {
		return
	}
	if c.sub == nil {
		http.Error(w, "realtime is not available", http.StatusNotImplemented)
		return
	}

	vars := mux.Vars(r)
	collection, id := vars["collection"], vars["id"]
	if collection != database.CollectionNotes {
		handleJSONError(w, ErrUnknownCollection, "subscribing")
		return
	}

	_, _, ok, err := operations.GetNote(c.app.DB, id, &user)
	if err != nil {
		handleJSONError(w, err, "finding note")
		return
	}
	if !ok {
		handleJSONError(w, app.ErrNotFound, "subscribing")
		return
	}

	s := c.sub.Subscribe(collection, id)
	defer s.Close()

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		log.ErrorWrap(err, "accepting websocket")
		return
	}
	defer conn.CloseNow()

	ctx := conn.CloseRead(r.Context())

	if err := stream(ctx, conn, s); err != nil {
		log.WithFields(log.Fields{
			"user": user.UUID,
			"note": id,
		}).Debug(errors.Wrap(err, "streaming changes").Error())
		return
	}

	conn.Close(websocket.StatusNormalClosure, "")
}

// stream writes the changes of the subscription to the connection. It
// returns nil after delivering a delete, which ends the row.
func stream(ctx context.Context, conn *websocket.Conn, s *realtime.Subscription) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case change, ok := <-s.C:
			if !ok {
				return nil
			}

			wctx, cancel := context.WithTimeout(ctx, realtimeWriteTimeout)
			err := wsjson.Write(wctx, conn, change)
			cancel()
			if err != nil {
				return errors.Wrap(err, "writing change")
			}

			if change.EventType == realtime.EventDelete {
				return nil
			}
		}
	}
}
