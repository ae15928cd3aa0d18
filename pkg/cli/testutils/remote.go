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

package testutils

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/pkg/errors"
)

// ErrInjected is the error returned by injected remote failures
var ErrInjected = errors.New("injected failure")

// MemoryRemote is an in-memory remote.Service. Rows pass through a JSON
// round trip on the way in and out, like they would over the wire.
type MemoryRemote struct {
	mu          sync.Mutex
	rows        map[string]map[string]remote.Row
	subscribers map[string][]chan remote.Change
	calls       []string

	// Emails maps invitee email addresses to user ids for the share procedures
	Emails map[string]string

	// FailUpsert fails upserts of the rows with the given ids
	FailUpsert map[string]error
	// FailDelete fails deletes of the rows with the given ids
	FailDelete map[string]error
	// FailSelect fails selects of the given collections
	FailSelect map[string]error

	// BeforeSelect, if set, is called before every select without the lock held
	BeforeSelect func(collection string)
	// BeforeUpsert, if set, is called before every upsert without the lock held
	BeforeUpsert func(collection string, row remote.Row)
}

// NewMemoryRemote returns an empty in-memory remote
func NewMemoryRemote() *MemoryRemote {
	return &MemoryRemote{
		rows:        map[string]map[string]remote.Row{},
		subscribers: map[string][]chan remote.Change{},
		Emails:      map[string]string{},
		FailUpsert:  map[string]error{},
		FailDelete:  map[string]error{},
		FailSelect:  map[string]error{},
	}
}

func copyRow(r remote.Row) remote.Row {
	b, err := json.Marshal(r)
	if err != nil {
		panic(errors.Wrap(err, "encoding a row"))
	}

	var ret remote.Row
	if err := json.Unmarshal(b, &ret); err != nil {
		panic(errors.Wrap(err, "decoding a row"))
	}

	return ret
}

func matches(r remote.Row, filter remote.Filter) bool {
	for key, val := range filter {
		if fmt.Sprint(r[key]) != val {
			return false
		}
	}

	return true
}

func (m *MemoryRemote) record(format string, a ...interface{}) {
	m.calls = append(m.calls, fmt.Sprintf(format, a...))
}

// Calls returns the log of mutating calls, such as "upsert notes n1"
func (m *MemoryRemote) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]string(nil), m.calls...)
}

// Configured returns true
func (m *MemoryRemote) Configured() bool {
	return true
}

// Select returns the rows of the collection matching the filter, ordered by id
func (m *MemoryRemote) Select(ctx context.Context, collection string, filter remote.Filter) ([]remote.Row, error) {
	if m.BeforeSelect != nil {
		m.BeforeSelect(collection)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.FailSelect[collection]; err != nil {
		return nil, err
	}

	return m.selectLocked(collection, filter), nil
}

func (m *MemoryRemote) selectLocked(collection string, filter remote.Filter) []remote.Row {
	var ids []string
	for id := range m.rows[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var ret []remote.Row
	for _, id := range ids {
		r := m.rows[collection][id]
		if matches(r, filter) {
			ret = append(ret, m.expand(collection, copyRow(r)))
		}
	}

	return ret
}

// expand embeds the shared note into accepted share rows
func (m *MemoryRemote) expand(collection string, r remote.Row) remote.Row {
	if collection != database.CollectionAcceptedShares {
		return r
	}

	if n, ok := m.rows[database.CollectionNotes][r.String("note_id")]; ok {
		r["note"] = copyRow(n)
	}

	return r
}

// Upsert stores the row keyed by its id
func (m *MemoryRemote) Upsert(ctx context.Context, collection string, row remote.Row) (remote.Row, error) {
	if m.BeforeUpsert != nil {
		m.BeforeUpsert(collection, row)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := row.String("id")
	m.record("upsert %s %s", collection, id)
	if err := m.FailUpsert[id]; err != nil {
		return nil, err
	}

	m.put(collection, row)

	return copyRow(row), nil
}

func (m *MemoryRemote) put(collection string, row remote.Row) {
	if m.rows[collection] == nil {
		m.rows[collection] = map[string]remote.Row{}
	}

	id := row.String("id")
	eventType := remote.EventInsert
	if _, ok := m.rows[collection][id]; ok {
		eventType = remote.EventUpdate
	}
	m.rows[collection][id] = copyRow(row)

	for _, ch := range m.subscribers[collection+"/"+id] {
		select {
		case ch <- remote.Change{EventType: eventType, New: copyRow(row)}:
		default:
		}
	}
}

// Delete removes the row with the given id owned by the user
func (m *MemoryRemote) Delete(ctx context.Context, collection, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.record("delete %s %s", collection, id)
	if err := m.FailDelete[id]; err != nil {
		return err
	}

	if r, ok := m.rows[collection][id]; ok && r.String("user_id") == userID {
		delete(m.rows[collection], id)
	}

	return nil
}

// Invoke runs the accept_share and decline_share procedures
func (m *MemoryRemote) Invoke(ctx context.Context, procedure string, params remote.Row) (remote.Row, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inviteID := params.String("invite_id")
	m.record("invoke %s %s", procedure, inviteID)

	inv, ok := m.rows[database.CollectionNoteShares][inviteID]
	if !ok {
		return nil, errors.Errorf("invitation %s not found", inviteID)
	}
	inv = copyRow(inv)

	switch procedure {
	case remote.ProcAcceptShare:
		inv["status"] = database.ShareStatusAccepted
		m.put(database.CollectionNoteShares, inv)

		share := remote.Row{
			"id":         "share-" + inviteID,
			"note_id":    inv.String("note_id"),
			"user_id":    m.Emails[inv.String("invitee_email")],
			"permission": inv.String("permission"),
			"created_at": inv.String("updated_at"),
		}
		m.put(database.CollectionAcceptedShares, share)

		inv["share"] = m.expand(database.CollectionAcceptedShares, copyRow(share))
	case remote.ProcDeclineShare:
		inv["status"] = database.ShareStatusDeclined
		m.put(database.CollectionNoteShares, inv)
	default:
		return nil, errors.Errorf("unknown procedure %s", procedure)
	}

	return inv, nil
}

// Subscribe streams changes to the row until ctx is done
func (m *MemoryRemote) Subscribe(ctx context.Context, collection, id string) (<-chan remote.Change, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := collection + "/" + id
	ch := make(chan remote.Change, 16)
	m.subscribers[key] = append(m.subscribers[key], ch)

	go func() {
		<-ctx.Done()

		m.mu.Lock()
		defer m.mu.Unlock()

		subs := m.subscribers[key]
		for i, c := range subs {
			if c == ch {
				m.subscribers[key] = append(subs[:i], subs[i+1:]...)
				break
			}
		}
		close(ch)
	}()

	return ch, nil
}

// Put stores a row directly, as if another device wrote it
func (m *MemoryRemote) Put(collection string, row remote.Row) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.put(collection, row)
}

// Get returns the stored row, if any
func (m *MemoryRemote) Get(collection, id string) (remote.Row, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[collection][id]
	if !ok {
		return nil, false
	}

	return copyRow(r), true
}

// Rows returns the stored rows of the collection ordered by id
func (m *MemoryRemote) Rows(collection string) []remote.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.selectLocked(collection, nil)
}

// Subscribers returns the number of live subscriptions to the row
func (m *MemoryRemote) Subscribers(collection, id string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.subscribers[collection+"/"+id])
}
