package domain

import (
	"fmt"
	"time"
)

// GetMaxHistory returns the history capacity
// Returns the default when unset or non-positive
func (c *Config) GetMaxHistory() int {
	if c.MaxHistory <= 0 {
		return DefaultMaxHistory
	}
	return c.MaxHistory
}

// GetMaxInputLength returns the request length bound in characters
func (c *Config) GetMaxInputLength() int {
	if c.MaxInputLength <= 0 {
		return DefaultMaxInputLength
	}
	return c.MaxInputLength
}

// GetModelName returns the configured Gemini model
func (c *Config) GetModelName() string {
	if c.Model.Name == "" {
		return DefaultModelName
	}
	return c.Model.Name
}

// GetAPIKeyEnv returns the environment variable consulted when the keychain is empty
func (c *Config) GetAPIKeyEnv() string {
	if c.Model.APIKeyEnv == "" {
		return DefaultAPIKeyEnv
	}
	return c.Model.APIKeyEnv
}

// GetModelTimeout returns the per-call generation timeout
func (c *Config) GetModelTimeout() time.Duration {
	if c.Model.TimeoutSeconds <= 0 {
		return DefaultModelTimeout
	}
	return time.Duration(c.Model.TimeoutSeconds) * time.Second
}

// GetSecretService returns the keychain service name
func (c *Config) GetSecretService() string {
	if c.Secret.Service == "" {
		return DefaultSecretService
	}
	return c.Secret.Service
}

// GetSecretAccount returns the keychain account name
func (c *Config) GetSecretAccount() string {
	if c.Secret.Account == "" {
		return DefaultSecretAccount
	}
	return c.Secret.Account
}

// GetHistoryBackend returns the history persistence backend
func (c *Config) GetHistoryBackend() HistoryBackend {
	if c.History.Backend == "" {
		return HistoryBackendJSON
	}
	return c.History.Backend
}

// GetShortcut parses the configured key binding
func (c *Config) GetShortcut() (Shortcut, error) {
	value := c.ShortcutKey
	if value == "" {
		value = DefaultShortcutKey
	}
	return ParseShortcut(value)
}

// SetShortcut validates and stores a new key binding
func (c *Config) SetShortcut(value string) error {
	sc, err := ParseShortcut(value)
	if err != nil {
		return err
	}
	c.ShortcutKey = sc.String()
	return nil
}

// ValidateConsistency checks the internal consistency of the configuration
func (c *Config) ValidateConsistency() error {
	if c.MaxHistory < 0 {
		return fmt.Errorf("max_history must be > 0, got %d", c.MaxHistory)
	}
	if c.MaxInputLength < 0 {
		return fmt.Errorf("max_input_length must be > 0, got %d", c.MaxInputLength)
	}
	switch c.GetHistoryBackend() {
	case HistoryBackendJSON, HistoryBackendSQLite:
	default:
		return fmt.Errorf("history.backend must be json|sqlite, got %s", c.History.Backend)
	}
	if _, err := c.GetShortcut(); err != nil {
		return fmt.Errorf("shortcut_key: %w", err)
	}
	return nil
}
