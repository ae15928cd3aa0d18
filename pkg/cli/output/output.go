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

// Package output prints entities and results to the console
package output

import (
	"fmt"
	"strings"

	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/sync"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/driftnote/driftnote/pkg/cli/utils/diff"
)

const timeFormat = "Jan 2, 2006 3:04pm (MST)"

func formatTime(s string) string {
	t, err := utils.ParseTime(s)
	if err != nil {
		return s
	}

	return t.Local().Format(timeFormat)
}

func flags(n database.Note) string {
	var ret []string
	if n.Pinned {
		ret = append(ret, "pinned")
	}
	if n.Starred {
		ret = append(ret, "starred")
	}
	if n.Archived {
		ret = append(ret, "archived")
	}
	if n.Deleted {
		ret = append(ret, "trashed")
	}
	if n.IsShared {
		ret = append(ret, "shared:"+n.SharePermission)
	}
	if n.SyncStatus == database.StatusPending {
		ret = append(ret, "unsynced")
	}

	return strings.Join(ret, ", ")
}

// NoteInfo prints a note information
func NoteInfo(n database.Note) {
	log.Infof("title: %s\n", n.Title)
	log.Infof("note id: %s\n", n.ID)
	if n.FolderID != nil {
		log.Infof("folder id: %s\n", *n.FolderID)
	}
	if len(n.Tags) > 0 {
		log.Infof("tags: %s\n", strings.Join(n.Tags, ", "))
	}
	if f := flags(n); f != "" {
		log.Infof("flags: %s\n", f)
	}
	for _, r := range n.Reminders {
		log.Infof("reminder: %s\n", formatTime(r.Datetime))
	}
	log.Infof("created at: %s\n", formatTime(n.CreatedAt))
	log.Infof("updated at: %s\n", formatTime(n.UpdatedAt))

	fmt.Printf("\n------------------------content------------------------\n")
	fmt.Printf("%s", n.Content)
	fmt.Printf("\n-------------------------------------------------------\n")
}

// NoteContent prints the content of a note only
func NoteContent(n database.Note) {
	fmt.Printf("%s", n.Content)
}

// NoteList prints one line per note
func NoteList(notes []database.Note) {
	for _, n := range notes {
		title := n.Title
		if title == "" {
			title = "(untitled)"
		}

		line := fmt.Sprintf("%s %s", log.ColorGray.Sprintf("(%s)", n.ID), title)
		if f := flags(n); f != "" {
			line += log.ColorYellow.Sprintf(" [%s]", f)
		}
		log.Plainf("%s\n", line)
	}
}

// FolderList prints the folders as a tree
func FolderList(folders []database.Folder) {
	children := map[string][]database.Folder{}
	var roots []database.Folder
	known := map[string]bool{}
	for _, f := range folders {
		known[f.ID] = true
	}
	for _, f := range folders {
		if f.ParentID != nil && known[*f.ParentID] {
			children[*f.ParentID] = append(children[*f.ParentID], f)
		} else {
			roots = append(roots, f)
		}
	}

	var print func(fs []database.Folder, depth int)
	print = func(fs []database.Folder, depth int) {
		for _, f := range fs {
			log.Plainf("%s%s %s\n", strings.Repeat("  ", depth), f.Name, log.ColorGray.Sprintf("(%s)", f.ID))
			print(children[f.ID], depth+1)
		}
	}
	print(roots, 0)
}

// TagList prints one line per tag
func TagList(tags []database.Tag) {
	for _, t := range tags {
		line := fmt.Sprintf("%s %s", t.Name, log.ColorGray.Sprintf("(%s)", t.ID))
		if t.Color != "" {
			line += " " + t.Color
		}
		log.Plainf("%s\n", line)
	}
}

// InviteList prints pending share invitations
func InviteList(invites []database.ShareInvite) {
	for _, inv := range invites {
		log.Plainf("%s note %s (%s) %s\n", log.ColorGray.Sprintf("(%s)", inv.ID), inv.NoteID, inv.Permission, inv.Status)
	}
}

// SharedList prints the notes shared with the user
func SharedList(shared []database.SharedNote) {
	for _, s := range shared {
		log.Plainf("%s %s %s\n", log.ColorGray.Sprintf("(%s)", s.Note.ID), s.Note.Title, log.ColorYellow.Sprintf("[%s]", s.Permission))
	}
}

// VersionDiff prints the changes from one version of a note to the next
func VersionDiff(from, to database.NoteVersion) {
	log.Infof("%s\n", formatTime(to.CreatedAt))
	if from.Title != to.Title {
		log.Plainf("%s\n", log.ColorRed.Sprintf("- title: %s", from.Title))
		log.Plainf("%s\n", log.ColorGreen.Sprintf("+ title: %s", to.Title))
	}

	for _, l := range diff.Lines(from.Content, to.Content) {
		switch l.Op {
		case diff.DiffInsert:
			log.Plainf("%s\n", log.ColorGreen.Sprintf("+ %s", l.Text))
		case diff.DiffDelete:
			log.Plainf("%s\n", log.ColorRed.Sprintf("- %s", l.Text))
		}
	}
}

// SyncResult prints the outcome of a reconciliation cycle. Successful cycles
// are only reported if notify is set.
func SyncResult(res sync.Result, notify bool) {
	switch res.Status {
	case sync.StatusSkipped:
		log.Warnf("sync skipped: %s\n", res.Reason)
	case sync.StatusSuccess:
		if notify {
			log.Successf("synced %d changes\n", res.Changes())
		}
	case sync.StatusPartial:
		log.Warnf("synced %d changes with %d errors\n", res.Changes(), res.Errors)
	case sync.StatusFailed:
		log.Errorf("sync failed\n")
	}
}
