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

// Package testutils provides utilities used in the server tests
package testutils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/token"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	// APIKey is the API key test servers accept
	APIKey = "anon-key-0123456789abcdef"
	// JWTSecret is the secret test servers sign access tokens with
	JWTSecret = "test-jwt-secret"
)

// InitMemoryDB creates an in-memory SQLite database with the schema initialized
func InitMemoryDB(t *testing.T) *gorm.DB {
	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", MustUUID(t))
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}

	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate in-memory database: %v", err)
	}

	t.Cleanup(func() {
		database.Close(db)
	})

	return db
}

// InitDB opens the SQLite database file at the given path with the schema
// initialized
func InitDB(dbPath string) *gorm.DB {
	db := database.Open(dbPath, "error")
	database.InitSchema(db)
	if err := database.Migrate(db); err != nil {
		panic(errors.Wrap(err, "migrating database"))
	}

	return db
}

// MustUUID generates a UUID and fails the test on error
func MustUUID(t *testing.T) string {
	id, err := uuid.NewRandom()
	if err != nil {
		t.Fatal(errors.Wrap(err, "Failed to generate UUID"))
	}

	return id.String()
}

// SetupUserData creates and returns a new user with email and password for testing purposes
func SetupUserData(db *gorm.DB, email, password string) database.User {
	id, err := uuid.NewRandom()
	if err != nil {
		panic(errors.Wrap(err, "Failed to generate UUID"))
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(errors.Wrap(err, "Failed to hash password"))
	}

	user := database.User{
		UUID:     id.String(),
		Email:    email,
		Password: string(hashedPassword),
	}
	if err := db.Save(&user).Error; err != nil {
		panic(errors.Wrap(err, "Failed to prepare user"))
	}

	return user
}

// MustExec fails the test if the given database query has error
func MustExec(t *testing.T, db *gorm.DB, message string) {
	if err := db.Error; err != nil {
		t.Fatalf("%s: %s", message, err.Error())
	}
}

// MustIssueToken signs an access token for the user valid for a day
func MustIssueToken(t *testing.T, user database.User) string {
	s, err := token.Issue([]byte(JWTSecret), user.UUID, user.Email, time.Now(), 24*time.Hour)
	if err != nil {
		t.Fatal(errors.Wrap(err, "issuing token"))
	}

	return s
}

// MakeReq makes an HTTP request carrying the test API key
func MakeReq(endpoint string, method, path, data string) *http.Request {
	req, err := http.NewRequest(method, fmt.Sprintf("%s%s", endpoint, path), strings.NewReader(data))
	if err != nil {
		panic(errors.Wrap(err, "constructing http request"))
	}
	req.Header.Set("apikey", APIKey)
	if data != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return req
}

// HTTPDo makes an HTTP request and returns a response
func HTTPDo(t *testing.T, req *http.Request) *http.Response {
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(errors.Wrap(err, "performing http request"))
	}
	t.Cleanup(func() {
		res.Body.Close()
	})

	return res
}

// HTTPAuthDo makes an HTTP request with a bearer token for the user
func HTTPAuthDo(t *testing.T, req *http.Request, user database.User) *http.Response {
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", MustIssueToken(t, user)))

	return HTTPDo(t, req)
}

// MustReadJSON decodes the response body into v
func MustReadJSON(t *testing.T, res *http.Response, v interface{}) {
	if err := json.NewDecoder(res.Body).Decode(v); err != nil {
		t.Fatal(errors.Wrap(err, "decoding the response body"))
	}
}

// MockEmail is a mock email data
type MockEmail struct {
	TemplateType string
	From         string
	To           []string
	Data         interface{}
}

// MockEmailbackendImplementation is an email backend that records the emails
type MockEmailbackendImplementation struct {
	mu     sync.RWMutex
	Emails []MockEmail
}

// SendEmail records the email
func (b *MockEmailbackendImplementation) SendEmail(templateType, from string, to []string, data interface{}) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.Emails = append(b.Emails, MockEmail{
		TemplateType: templateType,
		From:         from,
		To:           to,
		Data:         data,
	})

	return nil
}

// Sent returns a copy of the recorded emails
func (b *MockEmailbackendImplementation) Sent() []MockEmail {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return append([]MockEmail(nil), b.Emails...)
}
