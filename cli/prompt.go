package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/juanfont/create-starter-kit/types"
	"github.com/mattn/go-isatty"
)

// Option is one choice in a selection prompt.
type Option struct {
	Label string
	Value string
	Hint  string
}

// Prompter asks the user questions during project creation.
type Prompter interface {
	// Input asks for free text. An empty answer yields defaultValue.
	Input(message, defaultValue string, validate func(string) error) (string, error)
	// Select asks the user to choose one option and returns its Value.
	Select(message string, options []Option) (string, error)
}

// isInteractive reports whether stdin is attached to a terminal.
func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newPrompter() Prompter {
	if isInteractive() {
		return surveyPrompter{}
	}
	return nonInteractivePrompter{}
}

type surveyPrompter struct{}

func (surveyPrompter) Input(message, defaultValue string, validate func(string) error) (string, error) {
	var answer string
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}

	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			if s == "" {
				s = defaultValue
			}
			return validate(s)
		}))
	}

	if err := survey.AskOne(prompt, &answer, opts...); err != nil {
		return "", promptError(err)
	}
	if answer == "" {
		answer = defaultValue
	}
	return answer, nil
}

func (surveyPrompter) Select(message string, options []Option) (string, error) {
	labels := make([]string, len(options))
	for i, o := range options {
		labels[i] = o.Label
	}

	prompt := &survey.Select{
		Message: message,
		Options: labels,
		Description: func(_ string, index int) string {
			return options[index].Hint
		},
	}

	var index int
	if err := survey.AskOne(prompt, &index); err != nil {
		return "", promptError(err)
	}
	return options[index].Value, nil
}

func promptError(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return types.ErrCancelled
	}
	return fmt.Errorf("prompt: %w", err)
}

var errNotInteractive = errors.New("stdin is not a terminal")

// nonInteractivePrompter accepts defaults and refuses to choose.
type nonInteractivePrompter struct{}

func (nonInteractivePrompter) Input(message, defaultValue string, validate func(string) error) (string, error) {
	if validate != nil {
		if err := validate(defaultValue); err != nil {
			return "", fmt.Errorf("%s %w", message, err)
		}
	}
	return defaultValue, nil
}

func (nonInteractivePrompter) Select(message string, _ []Option) (string, error) {
	return "", fmt.Errorf("%s %w; pass the answer as a flag", message, errNotInteractive)
}
