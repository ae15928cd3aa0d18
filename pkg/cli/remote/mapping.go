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

package remote

import (
	"encoding/json"

	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/utils"
)

// remindersKey is the note_data field that carries the local reminder list
const remindersKey = "reminders"

func nullable(s *string) interface{} {
	if s == nil {
		return nil
	}

	return *s
}

// EarliestReminder returns the datetime of the earliest reminder that has
// not been notified yet, or nil if there is none
func EarliestReminder(reminders []database.Reminder) *string {
	var ret *string
	var best int64

	for i := range reminders {
		r := reminders[i]
		if r.Notified {
			continue
		}

		ms := utils.EpochMillis(r.Datetime)
		if ret == nil || ms < best {
			dt := r.Datetime
			ret = &dt
			best = ms
		}
	}

	return ret
}

// mergeNoteData folds the reminders into the note data object. It returns
// nil when both are empty.
func mergeNoteData(data json.RawMessage, reminders []database.Reminder) map[string]interface{} {
	obj := map[string]interface{}{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &obj); err != nil || obj == nil {
			obj = map[string]interface{}{}
		}
	}

	if len(reminders) > 0 {
		list := make([]interface{}, 0, len(reminders))
		for _, r := range reminders {
			list = append(list, map[string]interface{}{
				"id":       r.ID,
				"datetime": r.Datetime,
				"notified": r.Notified,
			})
		}
		obj[remindersKey] = list
	}

	if len(obj) == 0 {
		return nil
	}

	return obj
}

// splitNoteData separates the reminders from the remote note data object
func splitNoteData(raw json.RawMessage) (json.RawMessage, []database.Reminder) {
	if len(raw) == 0 {
		return nil, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return nil, nil
	}

	var reminders []database.Reminder
	if r, ok := obj[remindersKey]; ok {
		if err := json.Unmarshal(r, &reminders); err != nil {
			reminders = nil
		}
		delete(obj, remindersKey)
	}
	if len(reminders) == 0 {
		reminders = nil
	}

	if len(obj) == 0 {
		return nil, reminders
	}

	data, err := json.Marshal(obj)
	if err != nil {
		return nil, reminders
	}

	return data, reminders
}

// NoteToRow maps a local note to the remote note shape owned by the user
func NoteToRow(n database.Note, userID string) Row {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}

	var order interface{}
	if n.Order != nil {
		order = *n.Order
	}

	var noteData interface{}
	if data := mergeNoteData(n.NoteData, n.Reminders); data != nil {
		noteData = data
	}

	noteType := n.NoteType
	if noteType == "" {
		noteType = database.DefaultNoteType
	}

	return Row{
		"id":          n.ID,
		"user_id":     userID,
		"title":       n.Title,
		"content":     n.Content,
		"folder_id":   nullable(n.FolderID),
		"tags":        tags,
		"starred":     n.Starred,
		"pinned":      n.Pinned,
		"deleted":     n.Deleted,
		"deleted_at":  nullable(n.DeletedAt),
		"archived":    n.Archived,
		"archived_at": nullable(n.ArchivedAt),
		"note_type":   noteType,
		"note_data":   noteData,
		"reminder":    nullable(EarliestReminder(n.Reminders)),
		"sort_order":  order,
		"created_at":  n.CreatedAt,
		"updated_at":  n.UpdatedAt,
	}
}

// NoteFromRow maps a remote note row to a synced local note
func NoteFromRow(r Row) database.Note {
	noteData, reminders := splitNoteData(r.Raw("note_data"))

	noteType := r.String("note_type")
	if noteType == "" {
		noteType = database.DefaultNoteType
	}

	tags := r.Strings("tags")
	if len(tags) == 0 {
		tags = nil
	}

	return database.Note{
		ID:         r.String("id"),
		Title:      r.String("title"),
		Content:    r.String("content"),
		FolderID:   r.StringPtr("folder_id"),
		Tags:       tags,
		Starred:    r.Bool("starred"),
		Pinned:     r.Bool("pinned"),
		Deleted:    r.Bool("deleted"),
		DeletedAt:  r.StringPtr("deleted_at"),
		Archived:   r.Bool("archived"),
		ArchivedAt: r.StringPtr("archived_at"),
		NoteType:   noteType,
		NoteData:   noteData,
		Reminders:  reminders,
		Order:      r.Int64Ptr("sort_order"),
		CreatedAt:  r.String("created_at"),
		UpdatedAt:  r.String("updated_at"),
		SyncStatus: database.StatusSynced,
	}
}

// FolderToRow maps a local folder to the remote folder shape owned by the user
func FolderToRow(f database.Folder, userID string) Row {
	return Row{
		"id":         f.ID,
		"user_id":    userID,
		"name":       f.Name,
		"icon":       f.Icon,
		"color":      f.Color,
		"parent_id":  nullable(f.ParentID),
		"created_at": f.CreatedAt,
		"updated_at": f.UpdatedAt,
	}
}

// FolderFromRow maps a remote folder row to a synced local folder
func FolderFromRow(r Row) database.Folder {
	return database.Folder{
		ID:         r.String("id"),
		Name:       r.String("name"),
		Icon:       r.String("icon"),
		Color:      r.String("color"),
		ParentID:   r.StringPtr("parent_id"),
		CreatedAt:  r.String("created_at"),
		UpdatedAt:  r.String("updated_at"),
		SyncStatus: database.StatusSynced,
	}
}

// TagToRow maps a local tag to the remote tag shape owned by the user
func TagToRow(t database.Tag, userID string) Row {
	return Row{
		"id":         t.ID,
		"user_id":    userID,
		"name":       t.Name,
		"color":      t.Color,
		"created_at": t.CreatedAt,
	}
}

// TagFromRow maps a remote tag row to a synced local tag
func TagFromRow(r Row) database.Tag {
	return database.Tag{
		ID:         r.String("id"),
		Name:       r.String("name"),
		Color:      r.String("color"),
		CreatedAt:  r.String("created_at"),
		SyncStatus: database.StatusSynced,
	}
}

// InviteToRow maps a share invitation to the remote note_shares shape
func InviteToRow(inv database.ShareInvite) Row {
	return Row{
		"id":            inv.ID,
		"note_id":       inv.NoteID,
		"inviter_id":    inv.InviterID,
		"invitee_email": inv.InviteeEmail,
		"permission":    inv.Permission,
		"status":        inv.Status,
		"created_at":    inv.CreatedAt,
		"updated_at":    inv.UpdatedAt,
	}
}

// InviteFromRow maps a remote note_shares row to a share invitation
func InviteFromRow(r Row) database.ShareInvite {
	return database.ShareInvite{
		ID:           r.String("id"),
		NoteID:       r.String("note_id"),
		InviterID:    r.String("inviter_id"),
		InviteeEmail: r.String("invitee_email"),
		Permission:   r.String("permission"),
		Status:       r.String("status"),
		CreatedAt:    r.String("created_at"),
		UpdatedAt:    r.String("updated_at"),
	}
}

// SharedNoteFromRow maps a remote accepted_shares row, which embeds the
// shared note under "note", to a local shared note. It returns false if the
// row carries no note.
func SharedNoteFromRow(r Row) (database.SharedNote, bool) {
	nr := r.Object("note")
	if nr == nil {
		return database.SharedNote{}, false
	}

	n := NoteFromRow(nr)
	permission := r.String("permission")
	n.IsShared = true
	n.SharePermission = permission

	return database.SharedNote{
		ShareID:    r.String("id"),
		OwnerID:    nr.String("user_id"),
		Permission: permission,
		Note:       n,
	}, true
}
