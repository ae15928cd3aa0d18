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

package realtime

import (
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
)

func TestPublish(t *testing.T) {
	h := NewHub()

	s1 := h.Subscribe("notes", "n1")
	s2 := h.Subscribe("notes", "n1")
	other := h.Subscribe("notes", "n2")
	defer s1.Close()
	defer s2.Close()
	defer other.Close()

	h.Publish("notes", "n1", EventUpdate, map[string]interface{}{"id": "n1"})

	for _, s := range []*Subscription{s1, s2} {
		c := <-s.C
		assert.Equal(t, c.EventType, EventUpdate, "event type mismatch")
	}
	assert.Equal(t, len(other.C), 0, "other row should not receive the change")
}

func TestClose(t *testing.T) {
	h := NewHub()

	s := h.Subscribe("notes", "n1")
	assert.Equal(t, h.Count("notes", "n1"), 1, "count mismatch")

	s.Close()
	s.Close()

	_, open := <-s.C
	assert.Equal(t, open, false, "channel should be closed")
	assert.Equal(t, h.Count("notes", "n1"), 0, "count mismatch")

	h.Publish("notes", "n1", EventDelete, nil)
}

func TestPublishDropsForSlowSubscriber(t *testing.T) {
	h := NewHub()
	s := h.Subscribe("notes", "n1")
	defer s.Close()

	for i := 0; i < subscriptionBuffer+5; i++ {
		h.Publish("notes", "n1", EventUpdate, i)
	}

	assert.Equal(t, len(s.C), subscriptionBuffer, "buffered change count mismatch")
	first := <-s.C
	assert.Equal(t, first.New, 0, "first change mismatch")
}
