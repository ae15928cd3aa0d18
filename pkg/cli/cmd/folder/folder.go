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

// Package folder implements the folder commands
package folder

import (
	"strings"

	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/output"
	"github.com/driftnote/driftnote/pkg/cli/state"
	"github.com/driftnote/driftnote/pkg/cli/ui"
	"github.com/driftnote/driftnote/pkg/cli/validate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// ErrAmbiguous is returned when a name matches more than one folder
var ErrAmbiguous = errors.New("more than one folder has the name")

var example = `
  * Create a folder
  driftnote folder add Recipes

  * Create a nested folder
  driftnote folder add Desserts --parent Recipes

  * Rename a folder
  driftnote folder rename Recipes Cooking`

var parentFlag, iconFlag, colorFlag string
var yesFlag bool

// NewCmd returns a new folder command
func NewCmd(ctx context.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folder",
		Short:   "Manage folders",
		Aliases: []string{"f"},
		Example: example,
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE:  newAddRun(ctx),
	}
	add.Flags().StringVar(&parentFlag, "parent", "", "id or name of the parent folder")
	add.Flags().StringVar(&iconFlag, "icon", "", "icon of the folder")
	add.Flags().StringVar(&colorFlag, "color", "", "color of the folder")

	rm := &cobra.Command{
		Use:   "rm <folder>",
		Short: "Delete a folder. Its notes move to the top level.",
		Args:  cobra.ExactArgs(1),
		RunE:  newRemoveRun(ctx),
	}
	rm.Flags().BoolVarP(&yesFlag, "yes", "y", false, "skip confirmation")

	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "ls",
			Short: "List folders",
			Args:  cobra.NoArgs,
			RunE:  newListRun(ctx),
		},
		&cobra.Command{
			Use:   "rename <folder> <name>",
			Short: "Rename a folder",
			Args:  cobra.ExactArgs(2),
			RunE:  newRenameRun(ctx),
		},
		rm,
	)

	return cmd
}

// Lookup finds a folder by id or by case-insensitive name
func Lookup(ctx context.DriftnoteCtx, arg string) (database.Folder, error) {
	f, err := database.GetFolder(ctx.DB, arg)
	if err == nil {
		return f, nil
	} else if errors.Cause(err) != database.ErrNotFound {
		return database.Folder{}, err
	}

	folders, err := database.GetFolders(ctx.DB)
	if err != nil {
		return database.Folder{}, errors.Wrap(err, "getting folders")
	}

	var matches []database.Folder
	for _, f := range folders {
		if strings.EqualFold(f.Name, arg) {
			matches = append(matches, f)
		}
	}

	switch len(matches) {
	case 0:
		return database.Folder{}, errors.Wrapf(database.ErrNotFound, "folder %s", arg)
	case 1:
		return matches[0], nil
	default:
		return database.Folder{}, errors.Wrap(ErrAmbiguous, arg)
	}
}

func newAddRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := validate.FolderName(name); err != nil {
			return errors.Wrap(err, "invalid folder name")
		}

		p := state.FolderParams{Name: name, Icon: iconFlag, Color: colorFlag}
		if parentFlag != "" {
			parent, err := Lookup(ctx, parentFlag)
			if err != nil {
				return errors.Wrap(err, "finding the parent folder")
			}
			p.ParentID = &parent.ID
		}

		f, err := ctx.State.CreateFolder(p)
		if err != nil {
			return errors.Wrap(err, "creating folder")
		}

		log.Successf("created folder %s (%s)\n", f.Name, f.ID)

		return nil
	}
}

func newListRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		folders, err := database.GetFolders(ctx.DB)
		if err != nil {
			return errors.Wrap(err, "getting folders")
		}

		output.FolderList(folders)

		return nil
	}
}

func newRenameRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		name := args[1]
		if err := validate.FolderName(name); err != nil {
			return errors.Wrap(err, "invalid folder name")
		}

		f, err := Lookup(ctx, args[0])
		if err != nil {
			return err
		}

		if _, err := ctx.State.UpdateFolder(f.ID, state.FolderPatch{Name: &name}); err != nil {
			return errors.Wrap(err, "renaming folder")
		}

		log.Successf("renamed %s to %s\n", f.Name, name)

		return nil
	}
}

func newRemoveRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		f, err := Lookup(ctx, args[0])
		if err != nil {
			return err
		}

		if !yesFlag {
			ok, err := ui.Confirm("delete folder "+f.Name+"?", false)
			if err != nil {
				return errors.Wrap(err, "getting confirmation")
			}
			if !ok {
				log.Warnf("aborted by user\n")
				return nil
			}
		}

		if err := ctx.State.DeleteFolder(f.ID); err != nil {
			return errors.Wrap(err, "deleting folder")
		}

		log.Successf("deleted folder %s\n", f.Name)

		return nil
	}
}
