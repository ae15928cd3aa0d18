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

package app

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/driftnote/driftnote/pkg/server/database"
	"github.com/driftnote/driftnote/pkg/server/mailer"
	"github.com/pkg/errors"
)

func getDomainFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", errors.Wrap(err, "parsing url")
	}

	host := u.Hostname()
	parts := strings.Split(host, ".")
	if len(parts) < 2 || net.ParseIP(host) != nil {
		return host, nil
	}

	return parts[len(parts)-2] + "." + parts[len(parts)-1], nil
}

// GetSenderEmail returns the noreply address of the domain the server is
// reached at
func GetSenderEmail(webURL string) (string, error) {
	domain, err := getDomainFromURL(webURL)
	if err != nil {
		return "", errors.Wrap(err, "getting sender email address")
	}

	return fmt.Sprintf("noreply@%s", domain), nil
}

// SendWelcomeEmail sends welcome email
func (a *App) SendWelcomeEmail(email string) error {
	from, err := GetSenderEmail(a.WebURL)
	if err != nil {
		return err
	}

	data := mailer.WelcomeTmplData{
		AccountEmail: email,
		WebURL:       a.WebURL,
	}
	if err := a.EmailBackend.SendEmail(mailer.EmailTypeWelcome, from, []string{email}, data); err != nil {
		return errors.Wrapf(err, "sending welcome email for %s", email)
	}

	return nil
}

// SendShareInviteEmail tells the invitee about a note shared with them
func (a *App) SendShareInviteEmail(inviter database.User, note database.Note, s database.NoteShare) error {
	from, err := GetSenderEmail(a.WebURL)
	if err != nil {
		return err
	}

	title := note.Title
	if title == "" {
		title = "Untitled"
	}

	data := mailer.ShareInviteTmplData{
		InviterEmail: inviter.Email,
		NoteTitle:    title,
		Permission:   s.Permission,
		InviteID:     s.ID,
		WebURL:       a.WebURL,
	}
	if err := a.EmailBackend.SendEmail(mailer.EmailTypeShareInvite, from, []string{s.InviteeEmail}, data); err != nil {
		return errors.Wrapf(err, "sending share invitation to %s", s.InviteeEmail)
	}

	return nil
}
