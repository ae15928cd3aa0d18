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

package remote

import (
	"context"
)

// Null is the remote used when no credentials are configured. Selects return
// nothing and every other operation fails with ErrNotConfigured.
type Null struct{}

// Configured returns false
func (Null) Configured() bool { return false }

// Select returns no rows
func (Null) Select(ctx context.Context, collection string, filter Filter) ([]Row, error) {
	return nil, nil
}

// Upsert returns ErrNotConfigured
func (Null) Upsert(ctx context.Context, collection string, row Row) (Row, error) {
	return nil, ErrNotConfigured
}

// Delete returns ErrNotConfigured
func (Null) Delete(ctx context.Context, collection, id, userID string) error {
	return ErrNotConfigured
}

// Invoke returns ErrNotConfigured
func (Null) Invoke(ctx context.Context, procedure string, params Row) (Row, error) {
	return nil, ErrNotConfigured
}

// Subscribe returns ErrNotConfigured
func (Null) Subscribe(ctx context.Context, collection, id string) (<-chan Change, error) {
	return nil, ErrNotConfigured
}
