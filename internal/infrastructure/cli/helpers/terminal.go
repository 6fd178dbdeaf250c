package helpers

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stream is an interactive terminal.
func IsTerminal(stream interface{}) bool {
	f, ok := stream.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// NewDialog returns a huh form dialog when both streams are terminals and a
// line prompter otherwise.
func NewDialog(in io.Reader, out io.Writer) Dialog {
	if IsTerminal(in) && IsTerminal(out) {
		return NewFormPrompter(in, out)
	}
	return NewLinePrompter(in, out)
}
