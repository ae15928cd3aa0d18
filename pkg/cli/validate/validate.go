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

// Package validate validates user input before it reaches the local store or
// the remote
package validate

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// MaxNameLength is the maximum length of a folder or tag name
const MaxNameLength = 100

// ErrNameEmpty is an error for an empty folder or tag name
var ErrNameEmpty = errors.New("The name is empty")

// ErrNameMultiline is an error for a name that has linebreaks
var ErrNameMultiline = errors.New("The name contains multiple lines")

// ErrNameTooLong is an error for a name longer than MaxNameLength
var ErrNameTooLong = errors.New("The name is too long")

// ErrTagNameHasSpace is an error for a tag name that has any space
var ErrTagNameHasSpace = errors.New("The tag name cannot contain spaces")

// ErrInvalidEmail is an error for a malformed email address
var ErrInvalidEmail = errors.New("The email address is invalid")

// ErrInvalidPermission is an error for a share permission other than view or edit
var ErrInvalidPermission = errors.New("The permission must be either view or edit")

var v = newValidator()

func newValidator() *validator.Validate {
	ret := validator.New()
	ret.RegisterValidation("singleline", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), "\r\n")
	})

	return ret
}

type nameInput struct {
	Name string `validate:"required,singleline,max=100"`
}

func name(s string) error {
	err := v.Struct(nameInput{Name: s})
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(err, "validating the name")
	}

	switch verrs[0].Tag() {
	case "required":
		return ErrNameEmpty
	case "singleline":
		return ErrNameMultiline
	case "max":
		return ErrNameTooLong
	}

	return verrs[0]
}

// FolderName validates a folder name
func FolderName(s string) error {
	return name(strings.TrimSpace(s))
}

// TagName validates a tag name
func TagName(s string) error {
	if err := name(s); err != nil {
		return err
	}

	if strings.ContainsAny(s, " \t") {
		return ErrTagNameHasSpace
	}

	return nil
}

// ShareInvite is the input of a share invitation
type ShareInvite struct {
	NoteID     string `validate:"required"`
	Email      string `validate:"required,email"`
	Permission string `validate:"required,oneof=view edit"`
}

// Invite validates a share invitation
func Invite(inv ShareInvite) error {
	err := v.Struct(inv)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(err, "validating the invitation")
	}

	switch verrs[0].Field() {
	case "Email":
		return ErrInvalidEmail
	case "Permission":
		return ErrInvalidPermission
	}

	return errors.Errorf("invalid %s", strings.ToLower(verrs[0].Field()))
}
