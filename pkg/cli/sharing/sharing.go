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

// Package sharing manages notes shared between users. Shared notes are
// always read from and written to the remote; the local tables only cache
// the last confirmed state.
package sharing

import (
	"context"

	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/remote"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/driftnote/driftnote/pkg/cli/validate"
	"github.com/driftnote/driftnote/pkg/clock"
	"github.com/pkg/errors"
)

// ErrPermissionDenied is returned when editing a note shared with view permission
var ErrPermissionDenied = errors.New("permission denied: the note is shared with view access")

// Service is the sharing subsystem
type Service struct {
	db      *database.DB
	remote  remote.Service
	session remote.SessionFunc
	Clock   clock.Clock
}

// New returns a new sharing service
func New(db *database.DB, svc remote.Service, session remote.SessionFunc) *Service {
	return &Service{
		db:      db,
		remote:  svc,
		session: session,
		Clock:   clock.New(),
	}
}

func (s *Service) currentSession() (remote.Session, error) {
	if !s.remote.Configured() {
		return remote.Session{}, remote.ErrNotConfigured
	}

	sess, err := s.session()
	if err != nil {
		return remote.Session{}, err
	}
	if !sess.Valid(s.Clock.Now()) {
		return remote.Session{}, remote.ErrUnauthenticated
	}

	return sess, nil
}

// Snapshot is the shared state of the user
type Snapshot struct {
	Shared  []database.SharedNote
	Invites []database.ShareInvite
}

// Load fetches the notes shared with the user and the invitations addressed
// to them, and replaces the local cache with the result
func (s *Service) Load(ctx context.Context) (Snapshot, error) {
	var ret Snapshot

	sess, err := s.currentSession()
	if err != nil {
		return ret, err
	}

	accepted, err := s.remote.Select(ctx, database.CollectionAcceptedShares, remote.Filter{"user_id": sess.UserID})
	if err != nil {
		return ret, errors.Wrap(err, "fetching accepted shares")
	}
	for _, row := range accepted {
		sn, ok := remote.SharedNoteFromRow(row)
		if !ok {
			log.Debug("accepted share %s carries no note\n", row.String("id"))
			continue
		}
		ret.Shared = append(ret.Shared, sn)
	}

	if sess.Email != "" {
		invites, err := s.remote.Select(ctx, database.CollectionNoteShares, remote.Filter{
			"invitee_email": sess.Email,
			"status":        database.ShareStatusPending,
		})
		if err != nil {
			return ret, errors.Wrap(err, "fetching share invitations")
		}
		for _, row := range invites {
			ret.Invites = append(ret.Invites, remote.InviteFromRow(row))
		}
	}

	err = database.WithTx(s.db, func(tx *database.DB) error {
		if err := database.ReplaceSharedNotes(tx, ret.Shared); err != nil {
			return err
		}

		return database.ReplaceShareInvites(tx, ret.Invites)
	})
	if err != nil {
		return ret, errors.Wrap(err, "caching shared notes")
	}

	return ret, nil
}

// Invite shares the note with the owner of the email address
func (s *Service) Invite(ctx context.Context, noteID, email, permission string) (database.ShareInvite, error) {
	if err := validate.Invite(validate.ShareInvite{NoteID: noteID, Email: email, Permission: permission}); err != nil {
		return database.ShareInvite{}, err
	}

	sess, err := s.currentSession()
	if err != nil {
		return database.ShareInvite{}, err
	}

	if _, err := database.GetNote(s.db, noteID); err != nil {
		return database.ShareInvite{}, errors.Wrapf(err, "finding note %s", noteID)
	}

	id, err := utils.GenerateUUID()
	if err != nil {
		return database.ShareInvite{}, err
	}

	now := utils.FormatTime(s.Clock.Now())
	inv := database.ShareInvite{
		ID:           id,
		NoteID:       noteID,
		InviterID:    sess.UserID,
		InviteeEmail: email,
		Permission:   permission,
		Status:       database.ShareStatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	row, err := s.remote.Upsert(ctx, database.CollectionNoteShares, remote.InviteToRow(inv))
	if err != nil {
		return database.ShareInvite{}, errors.Wrap(err, "sending the invitation")
	}

	return remote.InviteFromRow(row), nil
}

// respond calls the procedure and caches the confirmed invitation it returns
func (s *Service) respond(ctx context.Context, procedure, inviteID string) (database.ShareInvite, error) {
	if _, err := s.currentSession(); err != nil {
		return database.ShareInvite{}, err
	}

	row, err := s.remote.Invoke(ctx, procedure, remote.Row{"invite_id": inviteID})
	if err != nil {
		return database.ShareInvite{}, errors.Wrapf(err, "answering invitation %s", inviteID)
	}

	inv := remote.InviteFromRow(row)
	err = database.WithTx(s.db, func(tx *database.DB) error {
		if err := database.UpsertShareInvite(tx, inv); err != nil {
			return err
		}

		share := row.Object("share")
		if share == nil {
			return nil
		}
		sn, ok := remote.SharedNoteFromRow(share)
		if !ok {
			return nil
		}

		return database.UpsertSharedNote(tx, sn)
	})
	if err != nil {
		return inv, errors.Wrap(err, "caching the invitation")
	}

	return inv, nil
}

// Accept accepts the invitation
func (s *Service) Accept(ctx context.Context, inviteID string) (database.ShareInvite, error) {
	return s.respond(ctx, remote.ProcAcceptShare, inviteID)
}

// Decline declines the invitation
func (s *Service) Decline(ctx context.Context, inviteID string) (database.ShareInvite, error) {
	return s.respond(ctx, remote.ProcDeclineShare, inviteID)
}

// UpdateSharedNote writes the patch straight to the owner's remote copy.
// It fails with ErrPermissionDenied before any write if the note is shared
// with view access.
func (s *Service) UpdateSharedNote(ctx context.Context, id string, patch database.NotePatch) (database.Note, error) {
	sn, err := database.GetSharedNote(s.db, id)
	if err != nil {
		return database.Note{}, errors.Wrapf(err, "finding shared note %s", id)
	}
	if sn.Permission != database.PermissionEdit {
		return database.Note{}, ErrPermissionDenied
	}

	if _, err := s.currentSession(); err != nil {
		return database.Note{}, err
	}

	n := sn.Note
	patch.Apply(&n)
	n.UpdatedAt = utils.FormatTime(s.Clock.Now())

	row, err := s.remote.Upsert(ctx, database.CollectionNotes, remote.NoteToRow(n, sn.OwnerID))
	if err != nil {
		return database.Note{}, errors.Wrapf(err, "saving shared note %s", id)
	}

	saved := remote.NoteFromRow(row)
	saved.IsShared = true
	saved.SharePermission = sn.Permission
	sn.Note = saved

	if err := database.UpsertSharedNote(s.db, sn); err != nil {
		return saved, errors.Wrap(err, "caching the shared note")
	}

	return saved, nil
}

// SharedNote returns the cached shared note
func (s *Service) SharedNote(id string) (database.SharedNote, error) {
	return database.GetSharedNote(s.db, id)
}

// SharedNotes returns the cached shared notes
func (s *Service) SharedNotes() ([]database.SharedNote, error) {
	return database.GetSharedNotes(s.db)
}

// PendingInvites returns the cached invitations awaiting an answer
func (s *Service) PendingInvites() ([]database.ShareInvite, error) {
	return database.GetShareInvites(s.db, database.ShareStatusPending)
}
