package secrets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/ports"
)

// KeyringStore keeps secrets in the OS credential store (macOS Keychain,
// Secret Service, Windows Credential Manager).
type KeyringStore struct{}

// NewKeyringStore builds a KeyringStore.
func NewKeyringStore() *KeyringStore {
	return &KeyringStore{}
}

// Get implements ports.SecretStore.
func (KeyringStore) Get(service, account string) (string, bool, error) {
	secret, err := keyring.Get(service, account)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, domain.NewSecretStoreError("get secret",
			fmt.Sprintf("cannot read %s/%s from the keychain", service, account), err)
	}
	return secret, true, nil
}

// Set implements ports.SecretStore.
func (KeyringStore) Set(service, account, secret string) error {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return domain.NewValidationError("set secret", "secret cannot be empty")
	}
	if err := keyring.Set(service, account, secret); err != nil {
		return domain.NewSecretStoreError("set secret",
			fmt.Sprintf("cannot write %s/%s to the keychain", service, account), err)
	}
	return nil
}

// EnvFallback reads from the wrapped store first and falls back to an
// environment variable when the store has nothing.
type EnvFallback struct {
	Store  ports.SecretStore
	EnvVar string
	Getenv func(string) string
}

// Get implements ports.SecretStore.
func (e EnvFallback) Get(service, account string) (string, bool, error) {
	secret, found, err := e.Store.Get(service, account)
	if found && err == nil {
		return secret, true, nil
	}
	if e.EnvVar != "" && e.Getenv != nil {
		if value := strings.TrimSpace(e.Getenv(e.EnvVar)); value != "" {
			return value, true, nil
		}
	}
	return "", false, err
}

// Set implements ports.SecretStore.
func (e EnvFallback) Set(service, account, secret string) error {
	return e.Store.Set(service, account, secret)
}

var (
	_ ports.SecretStore = KeyringStore{}
	_ ports.SecretStore = EnvFallback{}
)
