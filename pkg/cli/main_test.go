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

package main

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/driftnote/driftnote/pkg/assert"
	"github.com/driftnote/driftnote/pkg/cli/consts"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/state"
	"github.com/driftnote/driftnote/pkg/cli/testutils"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/driftnote/driftnote/pkg/dirs"
	"github.com/pkg/errors"
)

var binaryName = "test-driftnote"

// setupTestEnv creates a unique test directory for parallel test execution
func setupTestEnv(t *testing.T) (string, testutils.RunCmdOptions) {
	testDir := t.TempDir()
	opts := testutils.RunCmdOptions{
		Env: []string{
			fmt.Sprintf("HOME=%s", testDir),
			fmt.Sprintf("XDG_CONFIG_HOME=%s", testDir),
			fmt.Sprintf("XDG_DATA_HOME=%s", testDir),
			fmt.Sprintf("XDG_CACHE_HOME=%s", testDir),
		},
	}
	return testDir, opts
}

func openDB(t *testing.T, testDir string) *database.DB {
	return testutils.MustOpenDatabase(t, filepath.Join(testDir, dirs.AppDirName, consts.DBFileName))
}

func noteIDByTitle(t *testing.T, db *database.DB, title string) string {
	var id string
	database.MustScan(t, "getting note id", db.QueryRow("SELECT id FROM notes WHERE title = ?", title), &id)

	return id
}

func TestMain(m *testing.M) {
	if err := exec.Command("go", "build", "-o", binaryName).Run(); err != nil {
		log.Print(errors.Wrap(err, "building a binary").Error())
		os.Exit(1)
	}

	code := m.Run()
	os.Remove(binaryName)
	os.Exit(code)
}

func TestInit(t *testing.T) {
	testDir, opts := setupTestEnv(t)

	testutils.RunCmd(t, opts, binaryName, "note", "ls")

	ok, err := utils.FileExists(filepath.Join(testDir, dirs.AppDirName, consts.ConfigFilename))
	if err != nil {
		t.Fatal(errors.Wrap(err, "checking if config exists"))
	}
	if !ok {
		t.Errorf("config file was not initialized")
	}

	db := openDB(t, testDir)

	for _, table := range []string{"notes", "folders", "tags", "note_versions", "op_queue", "shared_notes", "system"} {
		var count int
		database.MustScan(t, "counting "+table,
			db.QueryRow("SELECT count(*) FROM sqlite_master WHERE type = ? AND name = ?", "table", table), &count)
		assert.Equal(t, count, 1, table+" table count mismatch")
	}

	var folderCount, welcomeCount int
	database.MustScan(t, "counting folders", db.QueryRow("SELECT count(*) FROM folders"), &folderCount)
	database.MustScan(t, "counting welcome note", db.QueryRow("SELECT count(*) FROM notes WHERE id = ?", state.WelcomeNoteID), &welcomeCount)
	assert.Equal(t, folderCount, len(state.StarterFolders), "starter folder count mismatch")
	assert.Equal(t, welcomeCount, 1, "welcome note count mismatch")
}

func TestAddNote(t *testing.T) {
	t.Run("content flag", func(t *testing.T) {
		testDir, opts := setupTestEnv(t)

		testutils.RunCmd(t, opts, binaryName, "note", "add", "groceries", "-c", "milk", "-t", "todo")

		db := openDB(t, testDir)
		n, err := database.GetNote(db, noteIDByTitle(t, db, "groceries"))
		assert.Nil(t, err, "getting note")

		assert.Equal(t, n.Content, "milk", "content mismatch")
		assert.Equal(t, n.SyncStatus, database.StatusPending, "sync status mismatch")
		assert.DeepEqual(t, n.Tags, []string{"todo"}, "tags mismatch")
	})

	t.Run("stdin", func(t *testing.T) {
		testDir, opts := setupTestEnv(t)

		testutils.MustWaitCmd(t, opts, testutils.UserContent, binaryName, "note", "add", "piped")

		db := openDB(t, testDir)
		n, err := database.GetNote(db, noteIDByTitle(t, db, "piped"))
		assert.Nil(t, err, "getting note")
		assert.NotEqual(t, n.Content, "", "content should be read from stdin")
	})

	t.Run("into folder", func(t *testing.T) {
		testDir, opts := setupTestEnv(t)

		testutils.RunCmd(t, opts, binaryName, "folder", "add", "Recipes")
		testutils.RunCmd(t, opts, binaryName, "note", "add", "pancakes", "-c", "flour", "--folder", "recipes")

		db := openDB(t, testDir)
		n, err := database.GetNote(db, noteIDByTitle(t, db, "pancakes"))
		assert.Nil(t, err, "getting note")

		var folderID string
		database.MustScan(t, "getting folder", db.QueryRow("SELECT id FROM folders WHERE name = ?", "Recipes"), &folderID)
		if n.FolderID == nil {
			t.Fatal("note should be in a folder")
		}
		assert.Equal(t, *n.FolderID, folderID, "folder mismatch")
	})
}

func TestEditNote(t *testing.T) {
	testDir, opts := setupTestEnv(t)

	testutils.RunCmd(t, opts, binaryName, "note", "add", "groceries", "-c", "milk")

	db := openDB(t, testDir)
	id := noteIDByTitle(t, db, "groceries")

	testutils.RunCmd(t, opts, binaryName, "note", "edit", id, "-c", "milk\neggs")
	out := testutils.RunCmd(t, opts, binaryName, "note", "history", id)

	n, err := database.GetNote(db, id)
	assert.Nil(t, err, "getting note")
	assert.Equal(t, n.Content, "milk\neggs", "content mismatch")

	versions, err := database.GetNoteVersions(db, id)
	assert.Nil(t, err, "getting versions")
	assert.Equal(t, len(versions), 1, "version count mismatch")
	assert.Equal(t, versions[0].Content, "milk", "version content mismatch")
	assert.NotEqual(t, out, "", "history should print the diff")
}

func TestRemoveNote(t *testing.T) {
	testDir, opts := setupTestEnv(t)

	testutils.RunCmd(t, opts, binaryName, "note", "add", "groceries", "-c", "milk")

	db := openDB(t, testDir)
	id := noteIDByTitle(t, db, "groceries")

	testutils.RunCmd(t, opts, binaryName, "note", "trash", id)
	n, err := database.GetNote(db, id)
	assert.Nil(t, err, "getting note")
	assert.Equal(t, n.Deleted, true, "note should be in the trash")

	testutils.MustWaitCmd(t, opts, testutils.ConfirmRemoveNote, binaryName, "note", "rm", id)

	var noteCount, queueCount int
	database.MustScan(t, "counting notes", db.QueryRow("SELECT count(*) FROM notes WHERE id = ?", id), &noteCount)
	database.MustScan(t, "counting queued deletes",
		db.QueryRow("SELECT count(*) FROM op_queue WHERE collection = ? AND operation = ?", database.CollectionNotes, "delete"), &queueCount)
	assert.Equal(t, noteCount, 0, "note should be deleted")
	assert.Equal(t, queueCount, 1, "delete should be queued")
}

func TestSyncNotConfigured(t *testing.T) {
	_, opts := setupTestEnv(t)

	out := testutils.RunCmd(t, opts, binaryName, "sync")
	assert.NotEqual(t, out, "", "sync should print a notice")
}
