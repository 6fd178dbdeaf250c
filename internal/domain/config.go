package domain

// Config mirrors ~/.aicmd/config.yaml.
type Config struct {
	ConfigFormatVersion string           `yaml:"config_format_version"`
	Secret              SecretSettings   `yaml:"secret"`
	ShortcutKey         string           `yaml:"shortcut_key"`
	MaxHistory          int              `yaml:"max_history"`
	MaxInputLength      int              `yaml:"max_input_length"`
	Model               ModelSettings    `yaml:"model"`
	History             HistorySettings  `yaml:"history"`
	Security            SecuritySettings `yaml:"security"`
	Log                 LogSettings      `yaml:"log"`
}

// SecretSettings names the keychain item holding the API key.
type SecretSettings struct {
	Service string `yaml:"service"`
	Account string `yaml:"account"`
}

// ModelSettings configures the generation provider.
type ModelSettings struct {
	Name           string `yaml:"name"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout"`
}

// HistoryBackend selects how history is persisted.
type HistoryBackend string

const (
	HistoryBackendJSON   HistoryBackend = "json"
	HistoryBackendSQLite HistoryBackend = "sqlite"
)

// HistorySettings configures the history store.
type HistorySettings struct {
	Backend HistoryBackend `yaml:"backend"`
	Path    string         `yaml:"path"`
}

// SecuritySettings points at the optional custom rules file.
type SecuritySettings struct {
	RulesFile string `yaml:"rules_file"`
}

// LogSettings controls the debug log destination.
type LogSettings struct {
	File string `yaml:"file"`
}
