package helpers

import (
	"github.com/atotto/clipboard"

	"github.com/doeshing/aicmd/internal/ports"
)

// Clipboard implements ports.Clipboard with the platform clipboard tools
// (pbcopy, xclip/xsel/wl-copy, the Windows API).
type Clipboard struct{}

// NewClipboard builds the clipboard helper.
func NewClipboard() *Clipboard {
	return &Clipboard{}
}

// Enabled reports whether a clipboard tool was found.
func (c *Clipboard) Enabled() bool {
	return !clipboard.Unsupported
}

// Copy copies text to the system clipboard.
func (c *Clipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}

var _ ports.Clipboard = (*Clipboard)(nil)
