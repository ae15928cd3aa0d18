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

// Package realtime fans row changes out to the websocket subscribers of
// each row
package realtime

import (
	"fmt"
	"sync"

	"github.com/driftnote/driftnote/pkg/server/log"
)

const (
	// EventInsert is the event type for a created row
	EventInsert = "INSERT"
	// EventUpdate is the event type for an updated row
	EventUpdate = "UPDATE"
	// EventDelete is the event type for a deleted row
	EventDelete = "DELETE"
)

// subscriptionBuffer is the number of changes a subscriber may lag behind
// before further changes are dropped for it
const subscriptionBuffer = 16

// Change is a row change delivered to subscribers
type Change struct {
	EventType string      `json:"eventType"`
	New       interface{} `json:"new"`
}

// Hub keeps the subscribers of each row
type Hub struct {
	mu   sync.Mutex
	subs map[string]map[*Subscription]struct{}
}

// Subscription receives the changes to one row on C until it is closed
type Subscription struct {
	C   chan Change
	key string
	hub *Hub
}

// NewHub returns an empty hub
func NewHub() *Hub {
	return &Hub{
		subs: map[string]map[*Subscription]struct{}{},
	}
}

func rowKey(collection, id string) string {
	return fmt.Sprintf("%s/%s", collection, id)
}

// Subscribe registers a subscriber for the row
func (h *Hub) Subscribe(collection, id string) *Subscription {
	s := &Subscription{
		C:   make(chan Change, subscriptionBuffer),
		key: rowKey(collection, id),
		hub: h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[s.key]
	if !ok {
		set = map[*Subscription]struct{}{}
		h.subs[s.key] = set
	}
	set[s] = struct{}{}

	return s
}

// Close unregisters the subscription and closes its channel. It is safe to
// call more than once.
func (s *Subscription) Close() {
	h := s.hub

	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.subs[s.key]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}

	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, s.key)
	}
	close(s.C)
}

// Publish delivers the change to every subscriber of the row. It never
// blocks: a subscriber whose buffer is full misses the change.
func (h *Hub) Publish(collection, id, eventType string, row interface{}) {
	key := rowKey(collection, id)
	c := Change{EventType: eventType, New: row}

	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs[key] {
		select {
		case s.C <- c:
		default:
			log.WithFields(log.Fields{
				"row":   key,
				"event": eventType,
			}).Warn("Dropping change for a slow subscriber")
		}
	}
}

// Count returns the number of subscribers of the row
func (h *Hub) Count(collection, id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs[rowKey(collection, id)])
}
