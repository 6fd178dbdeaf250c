package helpers

import (
	"fmt"

	configapp "github.com/doeshing/aicmd/internal/application/config"
	"github.com/doeshing/aicmd/internal/domain"
)

// ConfigSaver is the part of the config loader used to persist edits.
type ConfigSaver interface {
	Backup() (string, error)
	Save(domain.Config) error
}

// SaveConfigWithValidation validates cfg, backs up the current file and
// saves. It returns the backup path, empty when there was nothing to back up.
func SaveConfigWithValidation(loader ConfigSaver, cfg domain.Config) (string, error) {
	if loader == nil {
		return "", fmt.Errorf("config loader unavailable")
	}
	if err := configapp.Validate(cfg); err != nil {
		return "", fmt.Errorf("configuration validation failed: %w", err)
	}

	backup, err := loader.Backup()
	if err != nil {
		return "", fmt.Errorf("failed to create configuration backup: %w", err)
	}
	if err := loader.Save(cfg); err != nil {
		return backup, fmt.Errorf("failed to save configuration: %w", err)
	}
	return backup, nil
}
