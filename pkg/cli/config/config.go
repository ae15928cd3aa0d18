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

// Package config reads and writes the client configuration
package config

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/driftnote/driftnote/pkg/cli/consts"
	"github.com/driftnote/driftnote/pkg/cli/utils"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

const (
	// EnvRemoteURL overrides the remote url in the config file
	EnvRemoteURL = "DRIFTNOTE_REMOTE_URL"
	// EnvRemoteKey overrides the remote key in the config file
	EnvRemoteKey = "DRIFTNOTE_REMOTE_KEY"

	// DefaultSyncInterval is the period of the scheduled sync
	DefaultSyncInterval = 5 * time.Minute
)

var remoteKeyRe = regexp.MustCompile(`^[A-Za-z0-9._-]{16,}$`)

// Config holds driftnote configuration
type Config struct {
	Editor                string `yaml:"editor"`
	RemoteURL             string `yaml:"remoteUrl"`
	RemoteKey             string `yaml:"remoteKey"`
	SyncInterval          string `yaml:"syncInterval,omitempty"`
	ShowSyncNotifications *bool  `yaml:"showSyncNotifications,omitempty"`
}

// Credentials are the connection credentials of the remote data service
type Credentials struct {
	URL string
	Key string
}

// Configured returns true if both credentials are present and well-formed
func (c Credentials) Configured() bool {
	if c.URL == "" || c.Key == "" {
		return false
	}

	u, err := url.ParseRequestURI(c.URL)
	if err != nil {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	if u.Host == "" {
		return false
	}

	return remoteKeyRe.MatchString(c.Key)
}

// Interval parses the sync interval, falling back to the default
func (c Config) Interval() time.Duration {
	if c.SyncInterval == "" {
		return DefaultSyncInterval
	}

	d, err := time.ParseDuration(c.SyncInterval)
	if err != nil || d <= 0 {
		return DefaultSyncInterval
	}

	return d
}

// NotifySync returns true if successful syncs should print a notification
func (c Config) NotifySync() bool {
	if c.ShowSyncNotifications == nil {
		return true
	}

	return *c.ShowSyncNotifications
}

// GetPath returns the path to the config file in the given config directory
func GetPath(configDir string) string {
	return filepath.Join(configDir, consts.ConfigFilename)
}

// Read reads the config file
func Read(configDir string) (Config, error) {
	var ret Config

	b, err := os.ReadFile(GetPath(configDir))
	if err != nil {
		return ret, errors.Wrap(err, "reading config file")
	}

	if err := yaml.Unmarshal(b, &ret); err != nil {
		return ret, errors.Wrap(err, "unmarshalling config")
	}

	return ret, nil
}

// Write writes the config to the config file
func Write(configDir string, cf Config) error {
	b, err := yaml.Marshal(cf)
	if err != nil {
		return errors.Wrap(err, "marshalling config into YAML")
	}

	if err := os.WriteFile(GetPath(configDir), b, 0644); err != nil {
		return errors.Wrap(err, "writing the config file")
	}

	return nil
}

// ResolveCredentials determines the remote credentials. The process
// environment takes precedence over the .env file in the config directory,
// which takes precedence over the config file.
func ResolveCredentials(configDir string, cf Config) (Credentials, error) {
	ret := Credentials{
		URL: cf.RemoteURL,
		Key: cf.RemoteKey,
	}

	envPath := filepath.Join(configDir, consts.EnvFilename)
	ok, err := utils.FileExists(envPath)
	if err != nil {
		return ret, errors.Wrap(err, "checking env file")
	}
	if ok {
		vals, err := godotenv.Read(envPath)
		if err != nil {
			return ret, errors.Wrapf(err, "reading %s", envPath)
		}
		if v := vals[EnvRemoteURL]; v != "" {
			ret.URL = v
		}
		if v := vals[EnvRemoteKey]; v != "" {
			ret.Key = v
		}
	}

	if v := os.Getenv(EnvRemoteURL); v != "" {
		ret.URL = v
	}
	if v := os.Getenv(EnvRemoteKey); v != "" {
		ret.Key = v
	}

	return ret, nil
}
