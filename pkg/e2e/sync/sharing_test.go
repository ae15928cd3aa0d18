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

package sync

import (
	"context"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
	cliDatabase "github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/sharing"
	"github.com/driftnote/driftnote/pkg/cli/state"
	"github.com/driftnote/driftnote/pkg/server/mailer"
	apitest "github.com/driftnote/driftnote/pkg/server/testutils"
	"github.com/pkg/errors"
)

func sentInvites(env testEnv) []apitest.MockEmail {
	var ret []apitest.MockEmail
	for _, e := range env.App.EmailBackend.(*apitest.MockEmailbackendImplementation).Sent() {
		if e.TemplateType == mailer.EmailTypeShareInvite {
			ret = append(ret, e)
		}
	}

	return ret
}

func TestShareInviteAcceptAndEdit(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signUp(t, "alice@example.com")
	bob := env.signUp(t, "bob@example.com")

	n, err := alice.State.CreateNote(state.NoteParams{Title: "trip", Content: "day one"})
	assert.Nil(t, err, "creating the note")
	env.mustSync(t, alice)

	inv, err := alice.Sharing.Invite(context.Background(), n.ID, "Bob@Example.com", cliDatabase.PermissionEdit)
	assert.Nil(t, err, "inviting bob")
	assert.Equal(t, inv.Status, cliDatabase.ShareStatusPending, "invitation status")
	assert.Equal(t, inv.InviteeEmail, "bob@example.com", "invitee email")

	emails := sentInvites(env)
	assert.Equal(t, len(emails), 1, "invitation email count")
	assert.DeepEqual(t, emails[0].To, []string{"bob@example.com"}, "invitation recipient")

	snap, err := bob.Sharing.Load(context.Background())
	assert.Nil(t, err, "loading bob's shares")
	assert.Equal(t, len(snap.Invites), 1, "pending invitations")
	assert.Equal(t, len(snap.Shared), 0, "shared notes before accepting")

	accepted, err := bob.Sharing.Accept(context.Background(), snap.Invites[0].ID)
	assert.Nil(t, err, "accepting")
	assert.Equal(t, accepted.Status, cliDatabase.ShareStatusAccepted, "status after accepting")

	sn, err := bob.Sharing.SharedNote(n.ID)
	assert.Nil(t, err, "finding the shared note")
	assert.Equal(t, sn.Note.Content, "day one", "shared note content")
	assert.Equal(t, sn.Permission, cliDatabase.PermissionEdit, "shared note permission")

	env.tick()
	content := "day one, day two"
	_, err = bob.State.UpdateNote(context.Background(), n.ID, cliDatabase.NotePatch{Content: &content})
	assert.Nil(t, err, "editing the shared note")

	_, err = cliDatabase.GetNote(bob.DB, n.ID)
	assert.Equal(t, errors.Cause(err), cliDatabase.ErrNotFound, "the shared note stays out of bob's notes")

	env.mustSync(t, alice)
	got := mustGetNote(t, alice, n.ID)
	assert.Equal(t, got.Content, "day one, day two", "alice receives bob's edit")

	env.tick()
	title := "trip to the coast"
	_, err = alice.State.UpdateNote(context.Background(), n.ID, cliDatabase.NotePatch{Title: &title})
	assert.Nil(t, err, "renaming the note")
	env.mustSync(t, alice)
	env.mustSync(t, bob)

	sn, err = bob.Sharing.SharedNote(n.ID)
	assert.Nil(t, err, "finding the shared note after the rename")
	assert.Equal(t, sn.Note.Title, "trip to the coast", "bob sees the new title after syncing")
}

func TestViewOnlyShare(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signUp(t, "alice@example.com")
	bob := env.signUp(t, "bob@example.com")

	n, err := alice.State.CreateNote(state.NoteParams{Title: "budget"})
	assert.Nil(t, err, "creating the note")
	env.mustSync(t, alice)

	inv, err := alice.Sharing.Invite(context.Background(), n.ID, "bob@example.com", cliDatabase.PermissionView)
	assert.Nil(t, err, "inviting bob")

	_, err = bob.Sharing.Accept(context.Background(), inv.ID)
	assert.Nil(t, err, "accepting")

	content := "cut everything"
	_, err = bob.State.UpdateNote(context.Background(), n.ID, cliDatabase.NotePatch{Content: &content})
	assert.Equal(t, errors.Cause(err), sharing.ErrPermissionDenied, "editing is rejected")

	env.mustSync(t, alice)
	assert.Equal(t, mustGetNote(t, alice, n.ID).Content, "", "the note is unchanged")
}

func TestDeclineShare(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signUp(t, "alice@example.com")
	bob := env.signUp(t, "bob@example.com")

	n, err := alice.State.CreateNote(state.NoteParams{Title: "secret"})
	assert.Nil(t, err, "creating the note")
	env.mustSync(t, alice)

	inv, err := alice.Sharing.Invite(context.Background(), n.ID, "bob@example.com", cliDatabase.PermissionView)
	assert.Nil(t, err, "inviting bob")

	declined, err := bob.Sharing.Decline(context.Background(), inv.ID)
	assert.Nil(t, err, "declining")
	assert.Equal(t, declined.Status, cliDatabase.ShareStatusDeclined, "status after declining")

	snap, err := bob.Sharing.Load(context.Background())
	assert.Nil(t, err, "loading bob's shares")
	assert.Equal(t, len(snap.Invites), 0, "no pending invitations")
	assert.Equal(t, len(snap.Shared), 0, "no shared notes")

	_, err = bob.Sharing.Accept(context.Background(), inv.ID)
	assert.NotEqual(t, err, nil, "a declined invitation cannot be accepted")
}

func TestInviteRequiresSyncedNote(t *testing.T) {
	env := setupTestEnv(t)
	alice := env.signUp(t, "alice@example.com")
	env.signUp(t, "bob@example.com")

	n, err := alice.State.CreateNote(state.NoteParams{Title: "draft"})
	assert.Nil(t, err, "creating the note")

	_, err = alice.Sharing.Invite(context.Background(), n.ID, "bob@example.com", cliDatabase.PermissionView)
	assert.NotEqual(t, err, nil, "the server refuses to share a note it has never seen")
	assert.Equal(t, len(sentInvites(env)), 0, "no invitation email")
}
