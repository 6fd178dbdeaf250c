package helpers

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/doeshing/aicmd/internal/domain"
)

// FormPrompter implements Dialog with huh forms for interactive terminals.
type FormPrompter struct {
	in  io.Reader
	out io.Writer
}

// NewFormPrompter renders forms to out and reads keys from in.
func NewFormPrompter(in io.Reader, out io.Writer) *FormPrompter {
	return &FormPrompter{in: in, out: out}
}

// Enabled indicates the prompter is interactive.
func (p *FormPrompter) Enabled() bool {
	return true
}

// Confirm asks whether to continue with a risky command.
func (p *FormPrompter) Confirm(level domain.RiskLevel, command string, reasons []string) (bool, error) {
	approved := false
	description := command
	if len(reasons) > 0 {
		description += "\n\n- " + strings.Join(reasons, "\n- ")
	}
	field := huh.NewConfirm().
		Title(fmt.Sprintf("%s risk detected. Continue?", strings.ToUpper(level.String()))).
		Description(description).
		Affirmative("Continue").
		Negative("Cancel").
		Value(&approved)

	if err := p.run(field); err != nil {
		return false, err
	}
	return approved, nil
}

// ConfirmTyped asks for the confirmation token and returns the raw input.
func (p *FormPrompter) ConfirmTyped(command, token string) (string, error) {
	var typed string
	field := huh.NewInput().
		Title(fmt.Sprintf("Type %s to run this DANGEROUS command", token)).
		Description(command).
		Value(&typed)

	if err := p.run(field); err != nil {
		return "", err
	}
	return typed, nil
}

// AskRequest reads the natural-language request.
func (p *FormPrompter) AskRequest(maxLength int) (string, error) {
	var request string
	field := huh.NewInput().
		Title("Describe the command").
		Placeholder("find files larger than 100MB").
		CharLimit(maxLength).
		Value(&request)

	if err := p.run(field); err != nil {
		return "", err
	}
	return strings.TrimSpace(request), nil
}

// run shows field as a one-field form. Aborting with Esc or Ctrl+C counts
// as a decline rather than an error.
func (p *FormPrompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(huh.ThemeCharm()).
		WithInput(p.in).
		WithOutput(p.out)

	err := form.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return nil
	}
	return err
}

var _ Dialog = (*FormPrompter)(nil)
