package helpers

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/ports"
)

// Dialog is the interactive surface of the generate flow: it reads the
// request and runs the confirmation steps.
type Dialog interface {
	ports.ConfirmationPrompter
	AskRequest(maxLength int) (string, error)
}

// LinePrompter implements Dialog with plain line input. Prompts go to out so
// stdout can carry the generated command.
type LinePrompter struct {
	in     *bufio.Reader
	out    io.Writer
	render *Renderer
}

// NewLinePrompter reads answers from in and writes prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:     bufio.NewReader(in),
		out:    out,
		render: NewRenderer(out),
	}
}

// Enabled indicates the prompter is interactive.
func (p *LinePrompter) Enabled() bool {
	return true
}

// Confirm shows the risk summary and asks a yes/no question.
func (p *LinePrompter) Confirm(level domain.RiskLevel, command string, reasons []string) (bool, error) {
	p.render.RiskSummary(level, command, reasons)
	line, err := p.readLine("Continue? [y/N]: ")
	if err != nil {
		return false, err
	}
	return isAffirmativeResponse(strings.ToLower(strings.TrimSpace(line))), nil
}

// ConfirmTyped returns the line exactly as typed, without the line ending.
func (p *LinePrompter) ConfirmTyped(command, token string) (string, error) {
	fmt.Fprintf(p.out, "This command is DANGEROUS:\n  %s\n", command)
	return p.readLine(fmt.Sprintf("Type %s to proceed: ", token))
}

// AskRequest reads the natural-language request.
func (p *LinePrompter) AskRequest(maxLength int) (string, error) {
	line, err := p.readLine(fmt.Sprintf("Describe the command (max %d characters): ", maxLength))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *LinePrompter) readLine(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// isAffirmativeResponse checks if a response is affirmative (yes)
func isAffirmativeResponse(response string) bool {
	return response == "y" || response == "yes"
}

var _ Dialog = (*LinePrompter)(nil)
