package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aicmd/assets"
	"github.com/doeshing/aicmd/internal/domain"
	"github.com/doeshing/aicmd/internal/pkg/filesystem"
	"github.com/doeshing/aicmd/internal/ports"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "AICMD_CONFIG"

// FileLoader loads YAML configuration from ~/.aicmd/config.yaml (overridable via AICMD_CONFIG).
type FileLoader struct {
	overridePath string
}

// NewFileLoader builds a new loader.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{overridePath: path}
}

// Load implements ports.ConfigProvider. The first call writes the default
// configuration file.
func (l *FileLoader) Load(context.Context) (domain.Config, error) {
	path := l.Path()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := writeFile(path, assets.DefaultConfigYAML); err != nil {
			return domain.Config{}, domain.NewConfigError("load config", fmt.Sprintf("cannot write default config to %s", path), err)
		}
		data = assets.DefaultConfigYAML
	} else if err != nil {
		return domain.Config{}, domain.NewConfigError("load config", fmt.Sprintf("cannot read %s", path), err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return domain.Config{}, domain.NewConfigError("load config", fmt.Sprintf("malformed config %s", path), err)
	}
	return cfg, nil
}

// Save writes cfg to the config path with owner-only permissions.
func (l *FileLoader) Save(cfg domain.Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return domain.NewConfigError("save config", "cannot encode config", err)
	}
	if err := writeFile(l.Path(), raw); err != nil {
		return domain.NewConfigError("save config", fmt.Sprintf("cannot write %s", l.Path()), err)
	}
	return nil
}

// Backup copies the current config file next to itself with a .bak suffix
// and returns the backup path. A missing config file is not backed up.
func (l *FileLoader) Backup() (string, error) {
	path := l.Path()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", domain.NewConfigError("backup config", fmt.Sprintf("cannot read %s", path), err)
	}
	backup := path + ".bak"
	if err := writeFile(backup, data); err != nil {
		return "", domain.NewConfigError("backup config", fmt.Sprintf("cannot write %s", backup), err)
	}
	return backup, nil
}

// Path returns the resolved config file location.
func (l *FileLoader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandHome(l.overridePath)
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return filesystem.ExpandHome(custom)
	}
	return filesystem.AppPath("config.yaml")
}

// Parse decodes YAML and fills unset fields with defaults.
func Parse(data []byte) (domain.Config, error) {
	var cfg domain.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return domain.Config{}, err
	}
	return hydrateDefaults(cfg), nil
}

// Default returns the configuration written on first run.
func Default() domain.Config {
	cfg, err := Parse(assets.DefaultConfigYAML)
	if err != nil {
		return hydrateDefaults(domain.Config{})
	}
	return cfg
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	if cfg.ConfigFormatVersion == "" {
		cfg.ConfigFormatVersion = "1"
	}
	if cfg.Secret.Service == "" {
		cfg.Secret.Service = domain.DefaultSecretService
	}
	if cfg.Secret.Account == "" {
		cfg.Secret.Account = domain.DefaultSecretAccount
	}
	if cfg.ShortcutKey == "" {
		cfg.ShortcutKey = domain.DefaultShortcutKey
	}
	if cfg.MaxHistory == 0 {
		cfg.MaxHistory = domain.DefaultMaxHistory
	}
	if cfg.MaxInputLength == 0 {
		cfg.MaxInputLength = domain.DefaultMaxInputLength
	}
	if cfg.Model.Name == "" {
		cfg.Model.Name = domain.DefaultModelName
	}
	if cfg.Model.APIKeyEnv == "" {
		cfg.Model.APIKeyEnv = domain.DefaultAPIKeyEnv
	}
	if cfg.Model.TimeoutSeconds == 0 {
		cfg.Model.TimeoutSeconds = int(domain.DefaultModelTimeout.Seconds())
	}
	if cfg.History.Backend == "" {
		cfg.History.Backend = domain.HistoryBackendJSON
	}
	return cfg
}

func writeFile(path string, data []byte) error {
	if err := filesystem.EnsureParentDir(path); err != nil {
		return err
	}
	return os.WriteFile(path, data, domain.SecureFilePermissions)
}

var _ ports.ConfigProvider = (*FileLoader)(nil)
