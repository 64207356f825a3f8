package tui

import (
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"

	"hubkit.dev/hubkit/internal/errors"
)

// Prompter asks the user questions
type Prompter interface {
	// Confirm asks a yes/no question
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter prompts on the terminal
type SurveyPrompter struct{}

// NewPrompter returns a Prompter for the current terminal
func NewPrompter() *SurveyPrompter {
	return &SurveyPrompter{}
}

// Confirm asks a yes/no question.
// It returns ErrInteractiveDisabled when no terminal is attached or
// HUBKIT_NO_INTERACTIVE is set
func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	if err := checkInteractiveAllowed(); err != nil {
		return false, err
	}

	answer := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

// checkInteractiveAllowed returns an error if prompts cannot be shown
func checkInteractiveAllowed() error {
	if os.Getenv("HUBKIT_NO_INTERACTIVE") != "" || !IsTTY() {
		return errors.ErrInteractiveDisabled
	}
	return nil
}

// IsTTY returns true if both stdin and stdout are terminals
func IsTTY() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
