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

package database

import (
	"time"
)

// Model is the base model definition
type Model struct {
	ID        int       `gorm:"primaryKey" json:"-"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// User is a model for a user. UUID is the id clients see as the owner of
// their rows.
type User struct {
	Model
	UUID        string     `json:"id" gorm:"type:text;uniqueIndex"`
	Email       string     `json:"email" gorm:"uniqueIndex"`
	Password    string     `json:"-"`
	LastLoginAt *time.Time `json:"-"`
}

// Note is a model for a note. Timestamps are kept as the ISO-8601 strings
// clients send.
type Note struct {
	ID         string      `json:"id" gorm:"primaryKey;type:text"`
	UserID     string      `json:"user_id" gorm:"type:text;index"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	FolderID   *string     `json:"folder_id" gorm:"type:text"`
	Tags       StringArray `json:"tags"`
	Starred    bool        `json:"starred" gorm:"default:false"`
	Pinned     bool        `json:"pinned" gorm:"default:false"`
	Deleted    bool        `json:"deleted" gorm:"default:false"`
	DeletedAt  *string     `json:"deleted_at" gorm:"type:text"`
	Archived   bool        `json:"archived" gorm:"default:false"`
	ArchivedAt *string     `json:"archived_at" gorm:"type:text"`
	NoteType   string      `json:"note_type" gorm:"type:text"`
	NoteData   JSON        `json:"note_data"`
	Reminder   *string     `json:"reminder" gorm:"type:text"`
	SortOrder  *int64      `json:"sort_order"`
	CreatedAt  string      `json:"created_at" gorm:"type:text"`
	UpdatedAt  string      `json:"updated_at" gorm:"type:text;index"`
}

// Folder is a model for a folder
type Folder struct {
	ID        string  `json:"id" gorm:"primaryKey;type:text"`
	UserID    string  `json:"user_id" gorm:"type:text;index"`
	Name      string  `json:"name"`
	Icon      string  `json:"icon"`
	Color     string  `json:"color"`
	ParentID  *string `json:"parent_id" gorm:"type:text"`
	CreatedAt string  `json:"created_at" gorm:"type:text"`
	UpdatedAt string  `json:"updated_at" gorm:"type:text"`
}

// Tag is a model for a tag
type Tag struct {
	ID        string `json:"id" gorm:"primaryKey;type:text"`
	UserID    string `json:"user_id" gorm:"type:text;index"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	CreatedAt string `json:"created_at" gorm:"type:text"`
}

// NoteShare is an invitation to share a note
type NoteShare struct {
	ID           string `json:"id" gorm:"primaryKey;type:text"`
	NoteID       string `json:"note_id" gorm:"type:text;index"`
	InviterID    string `json:"inviter_id" gorm:"type:text;index"`
	InviteeEmail string `json:"invitee_email" gorm:"index"`
	Permission   string `json:"permission"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at" gorm:"type:text"`
	UpdatedAt    string `json:"updated_at" gorm:"type:text"`
}

// AcceptedShare grants a user access to a note owned by someone else
type AcceptedShare struct {
	ID         string `json:"id" gorm:"primaryKey;type:text"`
	UserID     string `json:"user_id" gorm:"type:text;index"`
	NoteID     string `json:"note_id" gorm:"type:text;index"`
	ShareID    string `json:"share_id" gorm:"type:text"`
	Permission string `json:"permission"`
	CreatedAt  string `json:"created_at" gorm:"type:text"`
}
