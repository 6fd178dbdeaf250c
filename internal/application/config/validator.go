package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doeshing/aicmd/internal/domain"
)

// Validate ensures config structure is consistent. Every problem found is
// reported, joined into one config-kind error.
func Validate(cfg domain.Config) error {
	var problems []error

	if cfg.MaxHistory <= 0 {
		problems = append(problems, fmt.Errorf("max_history must be > 0, got %d", cfg.MaxHistory))
	}
	if cfg.MaxInputLength <= 0 {
		problems = append(problems, fmt.Errorf("max_input_length must be > 0, got %d", cfg.MaxInputLength))
	}
	if strings.TrimSpace(cfg.Model.Name) == "" {
		problems = append(problems, errors.New("model.name must be set"))
	}
	if cfg.Model.TimeoutSeconds < 0 {
		problems = append(problems, fmt.Errorf("model.timeout must be >= 0, got %d", cfg.Model.TimeoutSeconds))
	}
	if err := validateSecret(cfg.Secret); err != nil {
		problems = append(problems, err)
	}
	if err := validateHistory(cfg.History); err != nil {
		problems = append(problems, err)
	}
	if _, err := domain.ParseShortcut(cfg.ShortcutKey); err != nil {
		problems = append(problems, fmt.Errorf("shortcut_key: %w", err))
	}

	if len(problems) == 0 {
		return nil
	}
	return domain.NewConfigError("validate config", "invalid configuration", errors.Join(problems...))
}

func validateSecret(secret domain.SecretSettings) error {
	if secret.Service == "" || secret.Account == "" {
		return errors.New("secret.service and secret.account must be set")
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	switch history.Backend {
	case domain.HistoryBackendJSON, domain.HistoryBackendSQLite:
		return nil
	default:
		return fmt.Errorf("history.backend must be json|sqlite, got %q", history.Backend)
	}
}
