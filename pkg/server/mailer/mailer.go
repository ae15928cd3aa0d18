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

// Package mailer renders and sends the emails the server sends
package mailer

import (
	"bytes"
	"fmt"
	"io"
	ttemplate "text/template"

	"github.com/driftnote/driftnote/pkg/server/mailer/templates"
	"github.com/pkg/errors"
)

var (
	// EmailTypeShareInvite represents a note share invitation email
	EmailTypeShareInvite = "share_invite"
	// EmailTypeWelcome represents an welcome email
	EmailTypeWelcome = "welcome"
)

var (
	// EmailKindText is the type of text email
	EmailKindText = "text/plain"
)

type tmpl interface {
	Execute(wr io.Writer, data interface{}) error
}

// template wraps a template with its subject line
type template struct {
	tmpl    tmpl
	subject string
}

// Templates holds the parsed email templates with their subjects
type Templates map[string]template

func getTemplateKey(name, kind string) string {
	return fmt.Sprintf("%s.%s", name, kind)
}

func (tmpl Templates) get(name, kind string) (template, error) {
	t := tmpl[getTemplateKey(name, kind)]
	if t.tmpl == nil {
		return template{}, errors.Errorf("unsupported template '%s' with type '%s'", name, kind)
	}

	return t, nil
}

func (tmpl Templates) set(name, kind string, t tmpl, subject string) {
	tmpl[getTemplateKey(name, kind)] = template{
		tmpl:    t,
		subject: subject,
	}
}

// NewTemplates initializes templates
func NewTemplates() Templates {
	T := Templates{}

	for _, def := range []struct {
		name    string
		subject string
	}{
		{EmailTypeShareInvite, "A note was shared with you on Driftnote"},
		{EmailTypeWelcome, "Welcome to Driftnote!"},
	} {
		t, err := initTextTmpl(def.name)
		if err != nil {
			panic(errors.Wrapf(err, "initializing %s template", def.name))
		}

		T.set(def.name, EmailKindText, t, def.subject)
	}

	return T
}

// initTextTmpl returns a template instance by parsing the template with the given name
func initTextTmpl(templateName string) (tmpl, error) {
	content, err := templates.Files.ReadFile(fmt.Sprintf("%s.txt", templateName))
	if err != nil {
		return nil, errors.Wrap(err, "reading template")
	}

	t := ttemplate.New(templateName).Option("missingkey=error")
	if _, err = t.Parse(string(content)); err != nil {
		return nil, errors.Wrap(err, "parsing template")
	}

	return t, nil
}

// Execute executes the template and returns the subject, body, and any error
func (tmpl Templates) Execute(name, kind string, data any) (subject, body string, err error) {
	t, err := tmpl.get(name, kind)
	if err != nil {
		return "", "", errors.Wrap(err, "getting template")
	}

	buf := new(bytes.Buffer)
	if err := t.tmpl.Execute(buf, data); err != nil {
		return "", "", errors.Wrap(err, "executing the template")
	}

	return t.subject, buf.String(), nil
}
