package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// PromptRequest captures a natural-language request and the terminal context
// it was issued from.
type PromptRequest struct {
	Input      string
	WorkingDir string
	Shell      ShellName
}

// Validate checks the request before it is sent to a provider.
func (r PromptRequest) Validate(maxInputLength int) error {
	if maxInputLength <= 0 {
		maxInputLength = DefaultMaxInputLength
	}
	if strings.TrimSpace(r.Input) == "" {
		return NewValidationError("validate request", "request cannot be empty")
	}
	if n := utf8.RuneCountInString(r.Input); n > maxInputLength {
		return NewValidationError("validate request",
			fmt.Sprintf("request is %d characters, the limit is %d", n, maxInputLength))
	}
	if !r.Shell.Supported() {
		return NewValidationError("validate request",
			fmt.Sprintf("unsupported shell %q (expected one of %s)", r.Shell, strings.Join(SupportedShellNames(), ", ")))
	}
	return nil
}

// GeneratedCommand is a provider answer after risk classification.
type GeneratedCommand struct {
	Prompt      string
	Command     string
	Explanation string
	Risk        RiskResult
}
