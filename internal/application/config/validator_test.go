package config

import (
	"errors"
	"strings"
	"testing"

	"github.com/doeshing/aicmd/internal/domain"
)

func validConfig() domain.Config {
	return domain.Config{
		ConfigFormatVersion: "1",
		Secret:              domain.SecretSettings{Service: "aicmd", Account: "gemini-api-key"},
		ShortcutKey:         "Ctrl+G",
		MaxHistory:          50,
		MaxInputLength:      500,
		Model:               domain.ModelSettings{Name: "gemini-2.5-flash", TimeoutSeconds: 30},
		History:             domain.HistorySettings{Backend: domain.HistoryBackendJSON},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*domain.Config) {}},
		{name: "zero history", mutate: func(c *domain.Config) { c.MaxHistory = 0 }, wantErr: "max_history"},
		{name: "zero input length", mutate: func(c *domain.Config) { c.MaxInputLength = 0 }, wantErr: "max_input_length"},
		{name: "no model", mutate: func(c *domain.Config) { c.Model.Name = " " }, wantErr: "model.name"},
		{name: "unknown backend", mutate: func(c *domain.Config) { c.History.Backend = "redis" }, wantErr: "history.backend"},
		{name: "bad shortcut", mutate: func(c *domain.Config) { c.ShortcutKey = "Hyper+G" }, wantErr: "shortcut_key"},
		{name: "no secret account", mutate: func(c *domain.Config) { c.Secret.Account = "" }, wantErr: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error containing %q", tt.wantErr)
			}
			if !errors.Is(err, domain.ErrConfig) {
				t.Fatalf("expected config error, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.MaxHistory = -1
	cfg.History.Backend = "redis"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"max_history", "history.backend"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}
