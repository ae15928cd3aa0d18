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
	"encoding/json"
	"math"
	"strconv"
)

// Row is a remote record keyed by snake_case field names
type Row map[string]interface{}

// String returns the string value of the field, or an empty string
func (r Row) String(key string) string {
	if s, ok := r[key].(string); ok {
		return s
	}

	return ""
}

// StringPtr returns the string value of the field, or nil if it is null or absent
func (r Row) StringPtr(key string) *string {
	switch v := r[key].(type) {
	case string:
		return &v
	case *string:
		if v == nil {
			return nil
		}
		s := *v
		return &s
	}

	return nil
}

// Bool returns the boolean value of the field
func (r Row) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// Int64Ptr returns the integer value of the field, or nil if it is null,
// absent or not a whole number
func (r Row) Int64Ptr(key string) *int64 {
	var ret int64

	switch v := r[key].(type) {
	case int:
		ret = int64(v)
	case int64:
		ret = v
	case *int64:
		if v == nil {
			return nil
		}
		ret = *v
	case float64:
		if v != math.Trunc(v) {
			return nil
		}
		ret = int64(v)
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return nil
		}
		ret = i
	case string:
		i, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil
		}
		ret = i
	default:
		return nil
	}

	return &ret
}

// Strings returns the string list value of the field
func (r Row) Strings(key string) []string {
	var ret []string

	switch v := r[key].(type) {
	case []string:
		ret = append(ret, v...)
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				ret = append(ret, s)
			}
		}
	}

	return ret
}

// Object returns the nested object value of the field, or nil
func (r Row) Object(key string) Row {
	switch v := r[key].(type) {
	case Row:
		return v
	case map[string]interface{}:
		return Row(v)
	}

	return nil
}

// Raw returns the JSON encoding of the field value, or nil if it is null
// or absent. String values holding a JSON document are returned verbatim.
func (r Row) Raw(key string) json.RawMessage {
	switch v := r[key].(type) {
	case nil:
		return nil
	case json.RawMessage:
		if len(v) == 0 || string(v) == "null" {
			return nil
		}
		return v
	case string:
		if json.Valid([]byte(v)) {
			return json.RawMessage(v)
		}
	}

	b, err := json.Marshal(r[key])
	if err != nil || string(b) == "null" {
		return nil
	}

	return b
}
