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

package database

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringArray is a list of strings stored as a text array on postgres and
// as its array literal on sqlite
type StringArray []string

// Value implements driver.Valuer
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}

	return pq.StringArray(a).Value()
}

// Scan implements sql.Scanner
func (a *StringArray) Scan(src interface{}) error {
	var ret pq.StringArray
	if err := ret.Scan(src); err != nil {
		return errors.Wrap(err, "scanning string array")
	}

	*a = StringArray(ret)
	return nil
}

// GormDataType returns the generic data type
func (StringArray) GormDataType() string {
	return "text"
}

// GormDBDataType returns the column type for the dialect
func (StringArray) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}

	return "text"
}

// MarshalJSON encodes a nil array as an empty list
func (a StringArray) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("[]"), nil
	}

	return json.Marshal([]string(a))
}

// JSON is a JSON document column
type JSON json.RawMessage

// Value implements driver.Valuer
func (j JSON) Value() (driver.Value, error) {
	if len(j) == 0 || string(j) == "null" {
		return nil, nil
	}

	return string(j), nil
}

// Scan implements sql.Scanner
func (j *JSON) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*j = nil
	case []byte:
		*j = append((*j)[0:0], v...)
	case string:
		*j = JSON(v)
	default:
		return errors.Errorf("unsupported JSON source %T", src)
	}

	return nil
}

// GormDataType returns the generic data type
func (JSON) GormDataType() string {
	return "text"
}

// GormDBDataType returns the column type for the dialect
func (JSON) GormDBDataType(db *gorm.DB, field *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "jsonb"
	}

	return "text"
}

// MarshalJSON implements json.Marshaler
func (j JSON) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("null"), nil
	}

	return []byte(j), nil
}

// UnmarshalJSON implements json.Unmarshaler
func (j *JSON) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*j = nil
		return nil
	}

	*j = append((*j)[0:0], b...)
	return nil
}
