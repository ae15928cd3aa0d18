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

// Package assert provides functions to assert a condition in tests
package assert

import (
	"fmt"
	"reflect"
	"runtime/debug"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func getErrorMessage(m string, a, b interface{}) string {
	return fmt.Sprintf(`%s.
Actual:
========================
%+v
========================

Expected:
========================
%+v
========================

%s`, m, a, b, string(debug.Stack()))
}

// Equal errors a test if the actual does not match the expected
func Equal(t *testing.T, a, b interface{}, message string) {
	t.Helper()
	if a == b {
		return
	}

	t.Error(getErrorMessage(message, a, b))
}

// Equalf fails a test if the actual does not match the expected
func Equalf(t *testing.T, a, b interface{}, message string) {
	t.Helper()
	if a == b {
		return
	}

	t.Fatal(getErrorMessage(message, a, b))
}

// NotEqual fails a test if the actual matches the expected
func NotEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()
	if a != b {
		return
	}

	t.Error(getErrorMessage(message, a, b))
}

// NotEqualf fails a test if the actual matches the expected
func NotEqualf(t *testing.T, a, b interface{}, message string) {
	t.Helper()
	if a != b {
		return
	}

	t.Fatal(getErrorMessage(message, a, b))
}

// DeepEqual fails a test if the actual does not deeply equal the expected
func DeepEqual(t *testing.T, a, b interface{}, message string) {
	t.Helper()
	if reflect.DeepEqual(a, b) {
		return
	}

	t.Errorf("%s.\n%s", message, cmp.Diff(b, a))
}

// Nil fails a test if the given error is not nil
func Nil(t *testing.T, err error, message string) {
	t.Helper()
	if err == nil {
		return
	}

	t.Fatalf("%s: %+v", message, err)
}
