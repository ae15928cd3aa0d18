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

package mailer

import (
	"os"
	"strconv"

	"github.com/driftnote/driftnote/pkg/server/log"
	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

// ErrSMTPNotConfigured is an error indicating that SMTP is not configured
var ErrSMTPNotConfigured = errors.New("SMTP is not configured")

// Backend is an interface for sending emails.
type Backend interface {
	SendEmail(templateType, from string, to []string, data interface{}) error
}

// EmailDialer is an interface for sending email messages
type EmailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// DefaultBackend sends emails over SMTP without queueing
type DefaultBackend struct {
	Dialer    EmailDialer
	Templates Templates
}

type dialerParams struct {
	Host     string
	Port     int
	Username string
	Password string
}

func getSMTPParams() (*dialerParams, error) {
	portEnv := os.Getenv("SmtpPort")
	hostEnv := os.Getenv("SmtpHost")
	usernameEnv := os.Getenv("SmtpUsername")
	passwordEnv := os.Getenv("SmtpPassword")

	if portEnv == "" || hostEnv == "" || usernameEnv == "" || passwordEnv == "" {
		return nil, ErrSMTPNotConfigured
	}

	port, err := strconv.Atoi(portEnv)
	if err != nil {
		return nil, errors.Wrap(err, "parsing SMTP port")
	}

	return &dialerParams{
		Host:     hostEnv,
		Port:     port,
		Username: usernameEnv,
		Password: passwordEnv,
	}, nil
}

// NewDefaultBackend creates a default backend from the Smtp* environment variables
func NewDefaultBackend() (*DefaultBackend, error) {
	p, err := getSMTPParams()
	if err != nil {
		return nil, err
	}

	return &DefaultBackend{
		Dialer:    gomail.NewDialer(p.Host, p.Port, p.Username, p.Password),
		Templates: NewTemplates(),
	}, nil
}

// NewBackend returns the SMTP backend if it is configured, and the stdout
// backend otherwise
func NewBackend() Backend {
	b, err := NewDefaultBackend()
	if err != nil {
		log.WithFields(log.Fields{
			"reason": err.Error(),
		}).Debug("Using StdoutBackend for emails")
		return NewStdoutBackend()
	}

	return b
}

// SendEmail renders the template and sends the email immediately
func (b *DefaultBackend) SendEmail(templateType, from string, to []string, data interface{}) error {
	subject, body, err := b.Templates.Execute(templateType, EmailKindText, data)
	if err != nil {
		return errors.Wrap(err, "executing template")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody(EmailKindText, body)

	if err := b.Dialer.DialAndSend(m); err != nil {
		return errors.Wrap(err, "dialing and sending email")
	}

	return nil
}

// StdoutBackend logs emails instead of sending them
type StdoutBackend struct {
	Templates Templates
}

// NewStdoutBackend creates a stdout backend
func NewStdoutBackend() *StdoutBackend {
	return &StdoutBackend{
		Templates: NewTemplates(),
	}
}

// SendEmail renders the template and logs the email
func (b *StdoutBackend) SendEmail(templateType, from string, to []string, data interface{}) error {
	subject, body, err := b.Templates.Execute(templateType, EmailKindText, data)
	if err != nil {
		return errors.Wrap(err, "executing template")
	}

	log.WithFields(log.Fields{
		"subject": subject,
		"to":      to,
		"from":    from,
		"body":    body,
	}).Info("Email (not sent, using StdoutBackend)")
	return nil
}
