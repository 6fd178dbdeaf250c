package domain_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/doeshing/aicmd/internal/domain"
)

func TestPromptRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       domain.PromptRequest
		max       int
		wantError bool
	}{
		{
			name: "valid request",
			req:  domain.PromptRequest{Input: "list large files", Shell: domain.ShellZsh},
			max:  500,
		},
		{
			name:      "empty input",
			req:       domain.PromptRequest{Input: "", Shell: domain.ShellBash},
			max:       500,
			wantError: true,
		},
		{
			name:      "blank input",
			req:       domain.PromptRequest{Input: "   ", Shell: domain.ShellBash},
			max:       500,
			wantError: true,
		},
		{
			name:      "too long",
			req:       domain.PromptRequest{Input: strings.Repeat("a", 11), Shell: domain.ShellBash},
			max:       10,
			wantError: true,
		},
		{
			name: "multibyte counted as characters",
			req:  domain.PromptRequest{Input: strings.Repeat("파", 10), Shell: domain.ShellBash},
			max:  10,
		},
		{
			name:      "unsupported shell",
			req:       domain.PromptRequest{Input: "ls", Shell: "powershell"},
			max:       500,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate(tt.max)
			if tt.wantError {
				if !errors.Is(err, domain.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestNormalizeShell(t *testing.T) {
	tests := map[string]domain.ShellName{
		"/bin/zsh":           domain.ShellZsh,
		"bash":               domain.ShellBash,
		"/usr/local/bin/fish": domain.ShellFish,
		"SH":                 domain.ShellSh,
		"":                   domain.ShellUnknown,
		"/bin/tcsh":          domain.ShellUnknown,
	}
	for input, want := range tests {
		if got := domain.NormalizeShell(input); got != want {
			t.Errorf("NormalizeShell(%q) = %s, want %s", input, got, want)
		}
	}
}
