package cli

import (
	"errors"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/mattn/go-isatty"
)

// ErrAborted is returned when the user interrupts a prompt.
var ErrAborted = errors.New("prompt aborted")

// Prompter asks the user for input.
type Prompter interface {
	// Name asks for a name, re-asking while validate rejects the answer.
	Name(message, def string, validate func(string) error) (string, error)
}

type surveyPrompter struct{}

func (surveyPrompter) Name(message, def string, validate func(string) error) (string, error) {
	var out string
	prompt := &survey.Input{
		Message: message,
		Default: def,
	}
	var opts []survey.AskOpt
	if validate != nil {
		opts = append(opts, survey.WithValidator(func(ans interface{}) error {
			s, _ := ans.(string)
			return validate(s)
		}))
	}
	if err := survey.AskOne(prompt, &out, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return "", ErrAborted
		}
		return "", err
	}
	return out, nil
}

// prompter is replaced in tests.
var prompter Prompter = surveyPrompter{}

// interactive reports whether prompts can be shown.
var interactive = func() bool {
	if jsonOutput {
		return false
	}
	in, out := os.Stdin.Fd(), os.Stdout.Fd()
	return (isatty.IsTerminal(in) || isatty.IsCygwinTerminal(in)) &&
		(isatty.IsTerminal(out) || isatty.IsCygwinTerminal(out))
}
