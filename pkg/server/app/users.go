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
	"strings"
	"time"

	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/log"
	"github.com/driftnote/driftnote/pkg/server/token"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var validate = validator.New()

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateEmail(email string) error {
	if email == "" {
		return ErrEmailRequired
	}
	if err := validate.Var(email, "email"); err != nil {
		return ErrEmailInvalid
	}

	return nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", ErrPasswordTooShort
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}

	return string(hashed), nil
}

// TouchLastLoginAt updates the last login timestamp
func (a *App) TouchLastLoginAt(user database.User, tx *gorm.DB) error {
	t := a.Clock.Now()
	if err := tx.Model(&user).Update("last_login_at", &t).Error; err != nil {
		return errors.Wrap(err, "updating last_login_at")
	}

	return nil
}

// CreateUser creates a user
func (a *App) CreateUser(email, password string) (database.User, error) {
	email = normalizeEmail(email)
	if err := validateEmail(email); err != nil {
		return database.User{}, err
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return database.User{}, err
	}

	id, err := genUUID()
	if err != nil {
		return database.User{}, err
	}

	user := database.User{
		UUID:     id,
		Email:    email,
		Password: hashed,
	}

	err = a.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&database.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return errors.Wrap(err, "counting user")
		}
		if count > 0 {
			return ErrDuplicateEmail
		}

		if err := tx.Create(&user).Error; err != nil {
			return errors.Wrap(err, "saving user")
		}

		return a.TouchLastLoginAt(user, tx)
	})
	if err != nil {
		return database.User{}, err
	}

	return user, nil
}

// GetUserByEmail finds a user by email
func (a *App) GetUserByEmail(email string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "finding user")
	}

	return &user, nil
}

// GetUserByUUID finds a user by the id clients see
func (a *App) GetUserByUUID(uuid string) (*database.User, error) {
	var user database.User
	err := a.DB.Where("uuid = ?", uuid).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, errors.Wrap(err, "finding user")
	}

	return &user, nil
}

// Authenticate authenticates a user
func (a *App) Authenticate(email, password string) (*database.User, error) {
	user, err := a.GetUserByEmail(email)
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrLoginInvalid
	}

	return user, nil
}

// SignIn issues an access token for the user
func (a *App) SignIn(user *database.User) (string, error) {
	if err := a.TouchLastLoginAt(*user, a.DB); err != nil {
		log.ErrorWrap(err, "touching login timestamp")
	}

	tok, err := token.Issue(a.JWTSecret, user.UUID, user.Email, a.Clock.Now(), a.SessionTTL)
	if err != nil {
		return "", errors.Wrap(err, "issuing access token")
	}

	return tok, nil
}

// AuthenticateToken verifies the access token and returns its user
func (a *App) AuthenticateToken(s string) (*database.User, token.Claims, error) {
	claims, err := token.Parse(a.JWTSecret, s, a.Clock.Now())
	if err != nil {
		return nil, token.Claims{}, err
	}

	user, err := a.GetUserByUUID(claims.Subject)
	if err != nil {
		return nil, token.Claims{}, err
	}

	return user, claims, nil
}

// UpdateUserPassword hashes and stores a new password for the user
func UpdateUserPassword(db *gorm.DB, user *database.User, password string) error {
	hashed, err := hashPassword(password)
	if err != nil {
		return err
	}

	if err := db.Model(user).Update("password", hashed).Error; err != nil {
		return errors.Wrap(err, "updating password")
	}

	return nil
}

// RemoveUser deletes the user along with every row the user owns and every
// share of those rows
func (a *App) RemoveUser(email string) error {
	user, err := a.GetUserByEmail(email)
	if err != nil {
		return err
	}

	return a.DB.Transaction(func(tx *gorm.DB) error {
		owned := tx.Model(&database.Note{}).Select("id").Where("user_id = ?", user.UUID)

		steps := []struct {
			what  string
			query *gorm.DB
			model interface{}
		}{
			{"accepted shares of owned notes", tx.Where("note_id IN (?)", owned), &database.AcceptedShare{}},
			{"accepted shares", tx.Where("user_id = ?", user.UUID), &database.AcceptedShare{}},
			{"share invitations", tx.Where("inviter_id = ? OR invitee_email = ?", user.UUID, user.Email), &database.NoteShare{}},
			{"notes", tx.Where("user_id = ?", user.UUID), &database.Note{}},
			{"folders", tx.Where("user_id = ?", user.UUID), &database.Folder{}},
			{"tags", tx.Where("user_id = ?", user.UUID), &database.Tag{}},
			{"user", tx.Where("id = ?", user.ID), &database.User{}},
		}
		for _, s := range steps {
			if err := s.query.Delete(s.model).Error; err != nil {
				return errors.Wrapf(err, "deleting %s", s.what)
			}
		}

		return nil
	})
}

// UserSummary is a user with the number of notes the user owns
type UserSummary struct {
	UUID        string
	Email       string
	Notes       int64
	LastLoginAt *time.Time
}

// ListUsers returns every user ordered by email
func (a *App) ListUsers() ([]UserSummary, error) {
	var users []database.User
	if err := a.DB.Order("email").Find(&users).Error; err != nil {
		return nil, errors.Wrap(err, "finding users")
	}

	ret := make([]UserSummary, 0, len(users))
	for _, u := range users {
		var count int64
		if err := a.DB.Model(&database.Note{}).Where("user_id = ?", u.UUID).Count(&count).Error; err != nil {
			return nil, errors.Wrapf(err, "counting notes of %s", u.Email)
		}

		ret = append(ret, UserSummary{
			UUID:        u.UUID,
			Email:       u.Email,
			Notes:       count,
			LastLoginAt: u.LastLoginAt,
		})
	}

	return ret, nil
}
