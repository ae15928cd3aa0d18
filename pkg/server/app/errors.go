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
	"github.com/pkg/errors"
)

var (
	// ErrNotFound is an error for a missing record
	ErrNotFound = errors.New("not found")
	// ErrForbidden is an error for a write or read the user is not allowed to make
	ErrForbidden = errors.New("forbidden")
	// ErrLoginInvalid is an error for a wrong email and password combination
	ErrLoginInvalid = errors.New("wrong login credentials")
	// ErrEmailRequired is an error for a missing email
	ErrEmailRequired = errors.New("Please enter an email")
	// ErrEmailInvalid is an error for a malformed email
	ErrEmailInvalid = errors.New("The email address is invalid")
	// ErrPasswordTooShort is an error for a password under 8 characters
	ErrPasswordTooShort = errors.New("Password should be at least 8 characters long")
	// ErrDuplicateEmail is an error for an email that is already registered
	ErrDuplicateEmail = errors.New("Duplicate email")
	// ErrRegistrationDisabled is an error for a signup while registration is disabled
	ErrRegistrationDisabled = errors.New("Registration is disabled")
	// ErrMissingID is an error for a row without an id
	ErrMissingID = errors.New("The row has no id")
	// ErrInvalidPermission is an error for a share permission other than view or edit
	ErrInvalidPermission = errors.New("The permission must be either view or edit")
	// ErrShareWithSelf is an error for an invitation addressed to its inviter
	ErrShareWithSelf = errors.New("You cannot share a note with yourself")
	// ErrInviteAnswered is an error for answering an invitation that is no longer pending
	ErrInviteAnswered = errors.New("The invitation was already answered")
)
