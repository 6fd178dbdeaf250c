package helpers

import (
	"fmt"
	"io"

	"github.com/doeshing/aicmd/internal/ports"
)

// BufferInjector hands the command to the shell widget, which reads stdout
// and places it in the line buffer. No newline is written so nothing runs.
type BufferInjector struct {
	out io.Writer
}

// NewBufferInjector writes to out, normally stdout captured by the widget.
func NewBufferInjector(out io.Writer) *BufferInjector {
	return &BufferInjector{out: out}
}

// Inject implements ports.TerminalInjector.
func (b *BufferInjector) Inject(command string) error {
	_, err := io.WriteString(b.out, command)
	return err
}

// PrintInjector is used outside the shell widget. It prints the command for
// the user to paste and copies it to the clipboard when one is available.
type PrintInjector struct {
	out       io.Writer
	clipboard ports.Clipboard
}

// NewPrintInjector builds a PrintInjector. clipboard may be nil.
func NewPrintInjector(out io.Writer, clipboard ports.Clipboard) *PrintInjector {
	return &PrintInjector{out: out, clipboard: clipboard}
}

// Inject implements ports.TerminalInjector.
func (p *PrintInjector) Inject(command string) error {
	if _, err := fmt.Fprintln(p.out, command); err != nil {
		return err
	}
	if p.clipboard != nil && p.clipboard.Enabled() {
		return p.clipboard.Copy(command)
	}
	return nil
}

var (
	_ ports.TerminalInjector = (*BufferInjector)(nil)
	_ ports.TerminalInjector = (*PrintInjector)(nil)
)
