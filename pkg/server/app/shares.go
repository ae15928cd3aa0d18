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

package app

import (
	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NoteShareFilter restricts a select of share invitations
type NoteShareFilter struct {
	InviteeEmail string `schema:"invitee_email"`
	InviterID    string `schema:"inviter_id"`
	NoteID       string `schema:"note_id"`
	Status       string `schema:"status"`
}

// AcceptedShareView is an accepted share with the shared note embedded
type AcceptedShareView struct {
	database.AcceptedShare
	Note *database.Note `json:"note"`
}

// ShareAnswer is an answered invitation along with the share it created,
// if any
type ShareAnswer struct {
	database.NoteShare
	Share *AcceptedShareView `json:"share,omitempty"`
}

type inviteInput struct {
	Email      string `validate:"required,email"`
	Permission string `validate:"oneof=view edit"`
}

// SelectNoteShares returns the invitations the user sent or received that
// match the filter
func (a *App) SelectNoteShares(user database.User, f NoteShareFilter) ([]database.NoteShare, error) {
	q := a.DB.Where("inviter_id = ? OR invitee_email = ?", user.UUID, user.Email)
	if f.InviteeEmail != "" {
		q = q.Where("invitee_email = ?", normalizeEmail(f.InviteeEmail))
	}
	if f.InviterID != "" {
		q = q.Where("inviter_id = ?", f.InviterID)
	}
	if f.NoteID != "" {
		q = q.Where("note_id = ?", f.NoteID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	ret := []database.NoteShare{}
	if err := q.Order("created_at").Find(&ret).Error; err != nil {
		return nil, errors.Wrap(err, "finding share invitations")
	}

	return ret, nil
}

// InviteShare records an invitation for the owner of the email address to
// access a note the user owns, and emails them
func (a *App) InviteShare(user database.User, s database.NoteShare) (database.NoteShare, error) {
	s.InviteeEmail = normalizeEmail(s.InviteeEmail)
	if err := validate.Struct(inviteInput{Email: s.InviteeEmail, Permission: s.Permission}); err != nil {
		if s.Permission != database.PermissionView && s.Permission != database.PermissionEdit {
			return database.NoteShare{}, ErrInvalidPermission
		}
		return database.NoteShare{}, ErrEmailInvalid
	}
	if s.InviteeEmail == user.Email {
		return database.NoteShare{}, ErrShareWithSelf
	}
	if s.InviterID != "" && s.InviterID != user.UUID {
		return database.NoteShare{}, ErrForbidden
	}

	if s.ID == "" {
		id, err := genUUID()
		if err != nil {
			return database.NoteShare{}, err
		}
		s.ID = id
	}
	now := a.now()
	if s.CreatedAt == "" {
		s.CreatedAt = now
	}
	s.UpdatedAt = now
	s.InviterID = user.UUID
	s.Status = database.ShareStatusPending

	var note database.Note
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("id = ? AND user_id = ?", s.NoteID, user.UUID).First(&note).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		} else if err != nil {
			return errors.Wrap(err, "finding note")
		}

		if err := checkInviteOwnership(tx, s.ID, user.UUID); err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&s).Error; err != nil {
			return errors.Wrap(err, "saving share invitation")
		}

		return nil
	})
	if err != nil {
		return database.NoteShare{}, err
	}

	if err := a.SendShareInviteEmail(user, note, s); err != nil {
		log.WithFields(log.Fields{
			"invite": s.ID,
		}).ErrorWrap(err, "sending share invitation email")
	}

	return s, nil
}

func checkInviteOwnership(tx *gorm.DB, id, userID string) error {
	var count int64
	if err := tx.Model(&database.NoteShare{}).Where("id = ? AND inviter_id <> ?", id, userID).Count(&count).Error; err != nil {
		return errors.Wrap(err, "checking ownership")
	}
	if count > 0 {
		return ErrForbidden
	}

	return nil
}

// findPendingInvite loads an invitation addressed to the user that has not
// been answered
func findPendingInvite(tx *gorm.DB, user database.User, id string) (database.NoteShare, error) {
	var s database.NoteShare
	err := tx.Where("id = ? AND invitee_email = ?", id, user.Email).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s, ErrNotFound
	} else if err != nil {
		return s, errors.Wrap(err, "finding share invitation")
	}

	if s.Status != database.ShareStatusPending {
		return s, ErrInviteAnswered
	}

	return s, nil
}

// AcceptShare accepts an invitation addressed to the user and grants access
// to the note
func (a *App) AcceptShare(user database.User, inviteID string) (ShareAnswer, error) {
	var ret ShareAnswer

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		s, err := findPendingInvite(tx, user, inviteID)
		if err != nil {
			return err
		}

		var note database.Note
		err = tx.Where("id = ?", s.NoteID).First(&note).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		} else if err != nil {
			return errors.Wrap(err, "finding note")
		}

		s.Status = database.ShareStatusAccepted
		s.UpdatedAt = a.now()
		if err := tx.Save(&s).Error; err != nil {
			return errors.Wrap(err, "updating share invitation")
		}

		id, err := genUUID()
		if err != nil {
			return err
		}
		share := database.AcceptedShare{
			ID:         id,
			UserID:     user.UUID,
			NoteID:     s.NoteID,
			ShareID:    s.ID,
			Permission: s.Permission,
			CreatedAt:  s.UpdatedAt,
		}
		err = tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "note_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"share_id", "permission"}),
		}).Create(&share).Error
		if err != nil {
			return errors.Wrap(err, "saving accepted share")
		}
		if err := tx.Where("user_id = ? AND note_id = ?", user.UUID, s.NoteID).First(&share).Error; err != nil {
			return errors.Wrap(err, "reloading accepted share")
		}

		ret = ShareAnswer{
			NoteShare: s,
			Share:     &AcceptedShareView{AcceptedShare: share, Note: &note},
		}
		return nil
	})

	return ret, err
}

// DeclineShare declines an invitation addressed to the user
func (a *App) DeclineShare(user database.User, inviteID string) (ShareAnswer, error) {
	var ret ShareAnswer

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		s, err := findPendingInvite(tx, user, inviteID)
		if err != nil {
			return err
		}

		s.Status = database.ShareStatusDeclined
		s.UpdatedAt = a.now()
		if err := tx.Save(&s).Error; err != nil {
			return errors.Wrap(err, "updating share invitation")
		}

		ret = ShareAnswer{NoteShare: s}
		return nil
	})

	return ret, err
}

// DeleteNoteShare revokes an invitation the user sent, along with the
// access it granted
func (a *App) DeleteNoteShare(user database.User, id string) error {
	return a.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND inviter_id = ?", id, user.UUID).Delete(&database.NoteShare{})
		if res.Error != nil {
			return errors.Wrap(res.Error, "deleting share invitation")
		}
		if res.RowsAffected == 0 {
			return nil
		}

		if err := tx.Where("share_id = ?", id).Delete(&database.AcceptedShare{}).Error; err != nil {
			return errors.Wrap(err, "deleting accepted share")
		}

		return nil
	})
}

// SelectAcceptedShares returns the shares the user accepted with their
// notes embedded. Shares whose note is gone are left out.
func (a *App) SelectAcceptedShares(user database.User, f OwnerFilter) ([]AcceptedShareView, error) {
	owner, err := ownerFilter(user.UUID, f.UserID)
	if err != nil {
		return nil, err
	}

	var shares []database.AcceptedShare
	if err := a.DB.Where("user_id = ?", owner).Order("created_at").Find(&shares).Error; err != nil {
		return nil, errors.Wrap(err, "finding accepted shares")
	}

	noteIDs := make([]string, 0, len(shares))
	for _, s := range shares {
		noteIDs = append(noteIDs, s.NoteID)
	}

	var notes []database.Note
	if len(noteIDs) > 0 {
		if err := a.DB.Where("id IN ?", noteIDs).Find(&notes).Error; err != nil {
			return nil, errors.Wrap(err, "finding shared notes")
		}
	}
	byID := map[string]database.Note{}
	for _, n := range notes {
		byID[n.ID] = n
	}

	ret := []AcceptedShareView{}
	for _, s := range shares {
		n, ok := byID[s.NoteID]
		if !ok {
			continue
		}
		ret = append(ret, AcceptedShareView{AcceptedShare: s, Note: &n})
	}

	return ret, nil
}

// LeaveShare removes an accepted share of the user
func (a *App) LeaveShare(user database.User, id, userID string) error {
	owner, err := ownerFilter(user.UUID, userID)
	if err != nil {
		return err
	}

	if err := a.DB.Where("id = ? AND user_id = ?", id, owner).Delete(&database.AcceptedShare{}).Error; err != nil {
		return errors.Wrap(err, "deleting accepted share")
	}

	return nil
}
