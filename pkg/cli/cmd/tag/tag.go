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

// Package tag implements the tag commands
package tag

import (
	"github.com/driftnote/driftnote/pkg/cli/context"
	"github.com/driftnote/driftnote/pkg/cli/database"
	"github.com/driftnote/driftnote/pkg/cli/infra"
	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/cli/output"
	"github.com/driftnote/driftnote/pkg/cli/validate"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var example = `
  * Create a tag
  driftnote tag add urgent --color "#ef4444"

  * Rename a tag on every note that carries it
  driftnote tag rename urgent asap`

var colorFlag string

// NewCmd returns a new tag command
func NewCmd(ctx context.DriftnoteCtx) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tag",
		Short:   "Manage tags",
		Aliases: []string{"t"},
		Example: example,
	}

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a tag",
		Args:  cobra.ExactArgs(1),
		RunE:  newAddRun(ctx),
	}
	add.Flags().StringVar(&colorFlag, "color", "", "color of the tag")

	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "ls",
			Short: "List tags",
			Args:  cobra.NoArgs,
			RunE:  newListRun(ctx),
		},
		&cobra.Command{
			Use:   "rename <tag> <name>",
			Short: "Rename a tag",
			Args:  cobra.ExactArgs(2),
			RunE:  newRenameRun(ctx),
		},
		&cobra.Command{
			Use:   "rm <tag>",
			Short: "Delete a tag and remove it from every note",
			Args:  cobra.ExactArgs(1),
			RunE:  newRemoveRun(ctx),
		},
	)

	return cmd
}

// Lookup finds a tag by id or by name
func Lookup(ctx context.DriftnoteCtx, arg string) (database.Tag, error) {
	t, err := database.GetTag(ctx.DB, arg)
	if err == nil {
		return t, nil
	} else if errors.Cause(err) != database.ErrNotFound {
		return database.Tag{}, err
	}

	t, err = database.GetTagByName(ctx.DB, arg)
	if err != nil {
		return database.Tag{}, errors.Wrapf(err, "tag %s", arg)
	}

	return t, nil
}

func newAddRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := validate.TagName(name); err != nil {
			return errors.Wrap(err, "invalid tag name")
		}

		t, err := ctx.State.CreateTag(name, colorFlag)
		if err != nil {
			return errors.Wrap(err, "creating tag")
		}

		log.Successf("created tag %s\n", t.Name)

		return nil
	}
}

func newListRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		tags, err := database.GetTags(ctx.DB)
		if err != nil {
			return errors.Wrap(err, "getting tags")
		}

		output.TagList(tags)

		return nil
	}
}

func newRenameRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		name := args[1]
		if err := validate.TagName(name); err != nil {
			return errors.Wrap(err, "invalid tag name")
		}

		t, err := Lookup(ctx, args[0])
		if err != nil {
			return err
		}

		if _, err := ctx.State.RenameTag(t.ID, name); err != nil {
			return errors.Wrap(err, "renaming tag")
		}

		log.Successf("renamed %s to %s\n", t.Name, name)

		return nil
	}
}

func newRemoveRun(ctx context.DriftnoteCtx) infra.RunEFunc {
	return func(cmd *cobra.Command, args []string) error {
		t, err := Lookup(ctx, args[0])
		if err != nil {
			return err
		}

		if err := ctx.State.DeleteTag(t.ID); err != nil {
			return errors.Wrap(err, "deleting tag")
		}

		log.Successf("deleted tag %s\n", t.Name)

		return nil
	}
}
