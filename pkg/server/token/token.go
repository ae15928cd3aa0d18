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

// Package token issues and verifies the access tokens clients present as
// bearer credentials
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

var (
	// ErrInvalid is returned for a token that is malformed or carries a bad signature
	ErrInvalid = errors.New("invalid token")
	// ErrExpired is returned for a well-formed token past its expiry
	ErrExpired = errors.New("token expired")
)

// Claims are the claims of an access token. The subject is the user id.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs an access token for the user valid for ttl from now
func Issue(secret []byte, userID, email string, now time.Time, ttl time.Duration) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}

	return s, nil
}

// Parse verifies the token as of now and returns its claims
func Parse(secret []byte, s string, now time.Time) (Claims, error) {
	var claims Claims

	p := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	_, err := p.ParseWithClaims(s, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if errors.Is(err, jwt.ErrTokenExpired) {
		return Claims{}, ErrExpired
	} else if err != nil {
		return Claims{}, errors.Wrap(ErrInvalid, err.Error())
	}

	if claims.Subject == "" {
		return Claims{}, errors.Wrap(ErrInvalid, "missing subject")
	}

	return claims, nil
}
