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

// Package log writes structured JSON log lines for the server
// Package log writes one JSON object per line for the server.
package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	fieldKeyLevel         = "level"
	fieldKeyMessage       = "msg"
	fieldKeyError         = "error"
	fieldKeyTimestamp     = "ts"
	fieldKeyUnixTimestamp = "ts_unix"

	// LevelDebug represents debug log level
	LevelDebug = "debug"
	// LevelInfo represents info log level
	LevelInfo = "info"
	// LevelWarn represents warn log level
	LevelWarn = "warn"
	// LevelError represents error log level
	LevelError = "error"
)

var levelRank = map[string]int{
	LevelDebug: 0,
	LevelInfo:  1,
	LevelWarn:  2,
	LevelError: 3,
}

type logger struct {
	mu    sync.Mutex
	level string
	out   io.Writer
	now   func() time.Time
}

var std = &logger{
	level: LevelInfo,
	out:   os.Stderr,
	now:   time.Now,
}

// Fields represents a set of information to be included in the log
type Fields map[string]interface{}

// Entry is a set of fields waiting for a level and a message.
type Entry struct {
	fields Fields
}

// WithFields creates a log entry with the given fields
func WithFields(fields Fields) Entry {
	return Entry{fields: fields}
}

// With returns a copy of the entry with one more field.
func (e Entry) With(key string, value interface{}) Entry {
	fields := make(Fields, len(e.fields)+1)
	for k, v := range e.fields {
		fields[k] = v
	}
	fields[key] = value

	return Entry{fields: fields}
}

// ValidLevel reports whether the name is a level the logger knows.
func ValidLevel(level string) bool {
	_, ok := levelRank[strings.ToLower(level)]
	return ok
}

// SetLevel sets the minimum level written. Unknown names behave as info.
func SetLevel(level string) {
	std.mu.Lock()
	defer std.mu.Unlock()

	std.level = strings.ToLower(level)
}

// SetOutput sets the writer log lines go to. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	std.mu.Lock()
	defer std.mu.Unlock()

	prev := std.out
	std.out = w
	return prev
}

func rank(level string) int {
	if r, ok := levelRank[level]; ok {
		return r
	}

	return levelRank[LevelInfo]
}

// shouldLog must be called with the lock held
func shouldLog(level string) bool {
	return rank(level) >= rank(std.level)
}

// Debug logs the given entry at a debug level
func (e Entry) Debug(msg string) {
	e.write(LevelDebug, msg)
}

// Info logs the given entry at an info level
func (e Entry) Info(msg string) {
	e.write(LevelInfo, msg)
}

// Warn logs the given entry at a warning level
func (e Entry) Warn(msg string) {
	e.write(LevelWarn, msg)
}

// Error logs the given entry at an error level
func (e Entry) Error(msg string) {
	e.write(LevelError, msg)
}

// ErrorWrap logs msg at an error level with err under the "error" field.
func (e Entry) ErrorWrap(err error, msg string) {
	e.With(fieldKeyError, err).Error(msg)
}

func (e Entry) encode(level, msg string, ts time.Time) []byte {
	data := make(map[string]interface{}, len(e.fields)+4)
	for k, v := range e.fields {
		if err, ok := v.(error); ok {
			data[k] = err.Error()
			continue
		}
		data[k] = v
	}

	data[fieldKeyLevel] = level
	data[fieldKeyMessage] = msg
	data[fieldKeyTimestamp] = ts
	data[fieldKeyUnixTimestamp] = ts.Unix()

	b, err := json.Marshal(data)
	if err != nil {
		// a field that cannot be encoded still leaves a readable line
		b, _ = json.Marshal(map[string]interface{}{
			fieldKeyLevel:   level,
			fieldKeyMessage: msg,
			fieldKeyError:   fmt.Sprintf("encoding fields: %v", err),
		})
	}

	return b
}

func (e Entry) write(level, msg string) {
	std.mu.Lock()
	defer std.mu.Unlock()

	if !shouldLog(level) {
		return
	}

	line := append(e.encode(level, msg, std.now().UTC()), '\n')
	if _, err := std.out.Write(line); err != nil {
		fmt.Fprintf(os.Stderr, "writing log: %v\n", err)
	}
}

// Debug logs a debug message without additional fields
func Debug(msg string) {
	Entry{}.Debug(msg)
}

// Info logs an info message without additional fields
func Info(msg string) {
	Entry{}.Info(msg)
}

// Warn logs a warning message without additional fields
func Warn(msg string) {
	Entry{}.Warn(msg)
}

// Error logs an error message without additional fields
func Error(msg string) {
	Entry{}.Error(msg)
}

// ErrorWrap logs msg with err under the "error" field.
func ErrorWrap(err error, msg string) {
	Entry{}.ErrorWrap(err, msg)
}
