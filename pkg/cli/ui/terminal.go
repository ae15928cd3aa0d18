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

package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/driftnote/driftnote/pkg/cli/log"
	"github.com/driftnote/driftnote/pkg/prompt"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh/terminal"
)

// Stdin is where prompts read answers from
var Stdin io.Reader = os.Stdin

// stdinFd returns the file descriptor of Stdin if it is a terminal
func stdinFd() (int, bool) {
	f, ok := Stdin.(*os.File)
	if !ok {
		return 0, false
	}

	fd := int(f.Fd())
	return fd, terminal.IsTerminal(fd)
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err == io.EOF && line != "" {
		err = nil
	}
	if err != nil {
		return "", errors.Wrap(err, "reading stdin")
	}

	return strings.TrimRight(line, "\r\n"), nil
}

// PromptInput prompts for a line of input and saves it to dest without
// surrounding whitespace
func PromptInput(message string, dest *string) error {
	log.Askf(message, false)

	input, err := readLine(Stdin)
	if err != nil {
		return errors.Wrap(err, "getting user input")
	}

	*dest = strings.TrimSpace(input)

	return nil
}

// PromptPassword prompts for a password and saves it to dest. On a terminal
// the input is not echoed. Otherwise a plain line is read so that the
// password can be piped in.
func PromptPassword(message string, dest *string) error {
	log.Askf(message, true)

	fd, isTerm := stdinFd()
	if !isTerm {
		input, err := readLine(Stdin)
		if err != nil {
			return errors.Wrap(err, "getting user input")
		}
		*dest = input
		return nil
	}

	password, err := terminal.ReadPassword(fd)
	if err != nil {
		return errors.Wrap(err, "getting user input")
	}
	fmt.Println("")

	*dest = string(password)

	return nil
}

// Confirm asks a yes/no question
func Confirm(question string, optimistic bool) (bool, error) {
	log.Askf(prompt.FormatQuestion(question, optimistic), false)

	confirmed, err := prompt.ReadYesNo(Stdin, optimistic)
	if err != nil {
		return false, errors.Wrap(err, "getting user input")
	}

	return confirmed, nil
}

// ReadStdInput reads note content piped into the command. Trailing
// newlines are dropped.
func ReadStdInput() (string, error) {
	b, err := io.ReadAll(Stdin)
	if err != nil {
		return "", errors.Wrap(err, "reading pipe")
	}

	return strings.TrimRight(string(b), "\r\n"), nil
}
