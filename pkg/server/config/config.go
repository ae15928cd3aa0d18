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

// Package config reads and validates the server configuration
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"

	"github.com/driftnote/driftnote/pkg/dirs"
	"github.com/driftnote/driftnote/pkg/server/log"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	// AppEnvProduction represents an app environment for production.
	AppEnvProduction string = "PRODUCTION"
	// AppEnvTest represents an app environment for tests.
	AppEnvTest string = "TEST"
	// DefaultDBFilename is the default database filename
	DefaultDBFilename = "server.db"
	// DefaultSessionTTL is the default lifetime of an access token, in hours
	DefaultSessionTTL = "720"
)

var (
	// DefaultDBPath is the default path to the database file
	DefaultDBPath = filepath.Join(dirs.DataHome, dirs.AppDirName, DefaultDBFilename)
)

var (
	// ErrDBMissingPath is an error for an incomplete configuration missing the database path
	ErrDBMissingPath = errors.New("DB Path is empty")
	// ErrWebURLInvalid is an error for an incomplete configuration with invalid web url
	ErrWebURLInvalid = errors.New("Invalid WebURL")
	// ErrPortInvalid is an error for an incomplete configuration with invalid port
	ErrPortInvalid = errors.New("Invalid Port")
	// ErrAPIKeyInvalid is an error for an API key that clients could not present
	ErrAPIKeyInvalid = errors.New("Invalid APIKey")
	// ErrJWTSecretMissing is an error for a configuration without a token signing secret
	ErrJWTSecretMissing = errors.New("JWTSecret is empty")
	// ErrSessionTTLInvalid is an error for a malformed session lifetime
	ErrSessionTTLInvalid = errors.New("Invalid SessionTTL")
	// ErrLogLevelInvalid is an error for a log level the logger does not know
	ErrLogLevelInvalid = errors.New("Invalid LogLevel")
)

// apiKeyPattern matches the keys the client accepts as remoteKey
var apiKeyPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{16,}$`)

func readBoolEnv(name string) bool {
	return os.Getenv(name) == "true"
}

// getOrEnv returns value if non-empty, otherwise env var, otherwise default
func getOrEnv(value, envKey, defaultVal string) string {
	if value != "" {
		return value
	}
	if env := os.Getenv(envKey); env != "" {
		return env
	}
	return defaultVal
}

// LoadEnv loads environment variables from the dotenv file at the given
// path. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		return errors.Wrapf(err, "loading %s", path)
	}

	return nil
}

// Config is an application configuration
type Config struct {
	AppEnv              string
	WebURL              string
	DisableRegistration bool
	Port                string
	DBPath              string
	DatabaseURL         string
	APIKey              string
	JWTSecret           string
	SessionTTL          string
	LogLevel            string
}

// Params are the configuration parameters for creating a new Config
type Params struct {
	AppEnv              string
	Port                string
	WebURL              string
	DBPath              string
	DatabaseURL         string
	APIKey              string
	JWTSecret           string
	SessionTTL          string
	DisableRegistration bool
	LogLevel            string
}

// New constructs and returns a new validated config.
// Empty string params will fall back to environment variables and defaults.
func New(p Params) (Config, error) {
	c := Config{
		AppEnv:              getOrEnv(p.AppEnv, "APP_ENV", AppEnvProduction),
		Port:                getOrEnv(p.Port, "PORT", "3001"),
		WebURL:              getOrEnv(p.WebURL, "WebURL", "http://localhost:3001"),
		DBPath:              getOrEnv(p.DBPath, "DBPath", DefaultDBPath),
		DatabaseURL:         getOrEnv(p.DatabaseURL, "DATABASE_URL", ""),
		APIKey:              getOrEnv(p.APIKey, "APIKey", ""),
		JWTSecret:           getOrEnv(p.JWTSecret, "JWTSecret", ""),
		SessionTTL:          getOrEnv(p.SessionTTL, "SessionTTL", DefaultSessionTTL),
		DisableRegistration: p.DisableRegistration || readBoolEnv("DisableRegistration"),
		LogLevel:            getOrEnv(p.LogLevel, "LOG_LEVEL", "info"),
	}

	if err := validate(c); err != nil {
		return Config{}, err
	}

	return c, nil
}

// IsProd checks if the app environment is configured to be production.
func (c Config) IsProd() bool {
	return c.AppEnv == AppEnvProduction
}

// UsePostgres returns true if the server stores data in postgres rather
// than in a sqlite file
func (c Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

func validate(c Config) error {
	if _, err := url.ParseRequestURI(c.WebURL); err != nil {
		return errors.Wrapf(ErrWebURLInvalid, "'%s'", c.WebURL)
	}
	if c.Port == "" {
		return ErrPortInvalid
	}
	if c.DBPath == "" && c.DatabaseURL == "" {
		return ErrDBMissingPath
	}
	if !apiKeyPattern.MatchString(c.APIKey) {
		return ErrAPIKeyInvalid
	}
	if c.JWTSecret == "" {
		return ErrJWTSecretMissing
	}
	if _, err := parseHours(c.SessionTTL); err != nil {
		return errors.Wrapf(ErrSessionTTLInvalid, "'%s'", c.SessionTTL)
	}
	if c.LogLevel != "" && !log.ValidLevel(c.LogLevel) {
		return errors.Wrapf(ErrLogLevelInvalid, "'%s'", c.LogLevel)
	}

	return nil
}

// NewStorage constructs a config carrying only the database settings. It is
// meant for commands that manage the data without serving it.
func NewStorage(p Params) (Config, error) {
	c := Config{
		DBPath:      getOrEnv(p.DBPath, "DBPath", DefaultDBPath),
		DatabaseURL: getOrEnv(p.DatabaseURL, "DATABASE_URL", ""),
		LogLevel:    getOrEnv(p.LogLevel, "LOG_LEVEL", "info"),
	}

	if c.DBPath == "" && c.DatabaseURL == "" {
		return Config{}, ErrDBMissingPath
	}

	return c, nil
}
