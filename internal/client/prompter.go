package client

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
)

// A Prompter reads the user inputs.
type Prompter interface {
	// Line reads a line of text.
	Line(prompt string) (string, error)
	// Password reads a line of text without echoing it.
	Password(prompt string) (string, error)
}

// A Readline is a Prompter reading from the terminal.
type Readline struct{}

// Line implements Prompter.
func (Readline) Line(prompt string) (string, error) {
	line, err := readline.Line(prompt)
	return line, errors.Wrap(err, "could not read from stdin")
}

// Password implements Prompter.
func (Readline) Password(prompt string) (string, error) {
	password, err := readline.Password(prompt)
	return string(password), errors.Wrap(err, "could not read password from stdin")
}

// ask prompts a value with an optional default value.
func ask(p Prompter, label, value string) (string, error) {
	prompt := label + ": "
	if value != "" {
		prompt = fmt.Sprintf("%s [%s]: ", label, value)
	}

	line, err := p.Line(prompt)
	if err != nil {
		return "", errors.Wrapf(err, "could not read %s", strings.ToLower(label))
	}

	if line = strings.TrimSpace(line); line == "" {
		return value, nil
	}
	return line, nil
}
