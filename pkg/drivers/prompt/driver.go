// Package prompt drives a session from a terminal: each rerun's button
// groups are presented as interactive prompts and the answers are queued
// back as client updates, exercising the same reconciliation path a browser
// client would.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"

	"github.com/goliatone/go-liveform/pkg/element"
)

// ErrQuit signals that the user ended the loop.
var ErrQuit = errors.New("prompt: quit")

// Driver abstracts the terminal so the loop can be tested without one.
type Driver interface {
	// Select presents a single-select button group and returns the chosen
	// wire value (empty means cleared).
	Select(ctx context.Context, bg element.ButtonGroup) ([]int, error)
	// MultiSelect presents a multiselect button group.
	MultiSelect(ctx context.Context, bg element.ButtonGroup) ([]int, error)
	// Info prints a status line.
	Info(ctx context.Context, msg string) error
}

// NewSurveyDriver returns the interactive terminal implementation.
func NewSurveyDriver() Driver {
	return &surveyDriver{}
}

type surveyDriver struct{}

func (d *surveyDriver) Select(ctx context.Context, bg element.ButtonGroup) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labels := optionLabels(bg)
	prompt := &survey.Select{
		Message: promptMessage(bg),
		Options: labels,
		Help:    bg.Help,
	}
	if len(bg.Value) > 0 && bg.Value[0] < len(labels) {
		prompt.Default = labels[bg.Value[0]]
	}

	var choice int
	if err := survey.AskOne(prompt, &choice); err != nil {
		return nil, translateSurveyErr(err)
	}
	return []int{choice}, nil
}

func (d *surveyDriver) MultiSelect(ctx context.Context, bg element.ButtonGroup) ([]int, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labels := optionLabels(bg)
	defaults := make([]string, 0, len(bg.Value))
	for _, pos := range bg.Value {
		if pos < len(labels) {
			defaults = append(defaults, labels[pos])
		}
	}
	prompt := &survey.MultiSelect{
		Message: promptMessage(bg),
		Options: labels,
		Default: defaults,
		Help:    bg.Help,
	}

	var choices []int
	if err := survey.AskOne(prompt, &choices); err != nil {
		return nil, translateSurveyErr(err)
	}
	return choices, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fmt.Println(msg)
	return nil
}

func promptMessage(bg element.ButtonGroup) string {
	if bg.Label != "" && bg.LabelVisibility == element.LabelVisible {
		return bg.Label
	}
	return bg.ID
}

func optionLabels(bg element.ButtonGroup) []string {
	labels := make([]string, len(bg.Options))
	for i, opt := range bg.Options {
		switch {
		case opt.Content != "" && opt.ContentIcon != "":
			labels[i] = opt.ContentIcon + " " + opt.Content
		case opt.Content != "":
			labels[i] = opt.Content
		default:
			labels[i] = opt.ContentIcon
		}
	}
	return labels
}

func translateSurveyErr(err error) error {
	if errors.Is(err, terminal.InterruptErr) {
		return ErrQuit
	}
	return err
}
