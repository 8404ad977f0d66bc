package prompt

import (
	"github.com/AlecAivazis/survey/v2"
)

// Prompt abstracts blocking terminal interaction so the export flow can be
// driven without a terminal in tests.
type Prompt interface {
	Select(message string, options []string) (int, error)
	Confirm(message string, def bool) (bool, error)
	Input(message, def string) (string, error)
}

// Interactive prompts on the controlling terminal.
type Interactive struct{}

// NewInteractive returns a terminal-backed Prompt.
func NewInteractive() *Interactive { return &Interactive{} }

func (p *Interactive) Select(message string, options []string) (int, error) {
	var idx int
	q := &survey.Select{
		Message:  message,
		Options:  options,
		PageSize: 15,
	}
	if err := survey.AskOne(q, &idx); err != nil {
		return 0, err
	}
	return idx, nil
}

func (p *Interactive) Confirm(message string, def bool) (bool, error) {
	var out bool
	q := &survey.Confirm{Message: message, Default: def}
	if err := survey.AskOne(q, &out); err != nil {
		return false, err
	}
	return out, nil
}

func (p *Interactive) Input(message, def string) (string, error) {
	var out string
	q := &survey.Input{Message: message, Default: def}
	if err := survey.AskOne(q, &out); err != nil {
		return "", err
	}
	return out, nil
}
