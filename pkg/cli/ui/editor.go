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

// Package ui provides the interactive input of the command line
package ui

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/driftnote/driftnote/pkg/cli/consts"
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/pkg/errors"
)

const defaultEditor = "vi"

// GetTmpContentPath returns the path to the temporary file containing
// content being added or edited
func GetTmpContentPath(ctx context.DriftnoteCtx) (string, error) {
	for i := 0; ; i++ {
		filename := fmt.Sprintf("%s_%d.%s", consts.TmpContentFileBase, i, consts.TmpContentFileExt)
		candidate := filepath.Join(ctx.Paths.Cache, filename)

		ok, err := utils.FileExists(candidate)
		if err != nil {
			return "", errors.Wrapf(err, "checking if file exists at %s", candidate)
		}
		if !ok {
			return candidate, nil
		}
	}
}

func newEditorCmd(ctx context.DriftnoteCtx, fpath string) *exec.Cmd {
	args := strings.Fields(ctx.Config.Editor)
	if len(args) == 0 {
		args = []string{defaultEditor}
	}
	args = append(args, fpath)

	return exec.Command(args[0], args[1:]...)
}

// GetEditorInput gets the user input by launching a text editor on a file
// holding the initial content, and waiting for it to exit
func GetEditorInput(ctx context.DriftnoteCtx, fpath, initial string) (string, error) {
	if err := os.WriteFile(fpath, []byte(initial), 0644); err != nil {
		return "", errors.Wrap(err, "writing the temporary content file")
	}

	cmd := newEditorCmd(ctx, fpath)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return "", errors.Wrapf(err, "launching an editor")
	}
	if err := cmd.Wait(); err != nil {
		return "", errors.Wrap(err, "waiting for the editor")
	}

	b, err := os.ReadFile(fpath)
	if err != nil {
		return "", errors.Wrap(err, "reading the temporary content file")
	}

	if err := os.Remove(fpath); err != nil {
		return "", errors.Wrap(err, "removing the temporary content file")
	}

	return string(b), nil
}
