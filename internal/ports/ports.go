// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// The application core (generate, doctor) only depends on the contracts
// declared here. Concrete adapters live under internal/infrastructure and are
// wired together by internal/app.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., RiskClassifier, HistoryRepository)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"

	"github.com/doeshing/aicmd/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.aicmd/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ContextCollector fills in the terminal context of a request
// (working directory and shell dialect) when the caller left it blank.
type ContextCollector interface {
	Collect(context.Context, domain.PromptRequest) (domain.PromptRequest, error)
}

// CommandGenerator turns a natural-language request into a single shell
// command. Failures are reported with the domain error taxonomy
// (domain.ErrAPI, domain.ErrRateLimit).
type CommandGenerator interface {
	Generate(ctx context.Context, req domain.PromptRequest) (string, error)
	Explain(ctx context.Context, command string) (string, error)
}

// RiskClassifier maps a command to a risk level with the reasons that matched.
type RiskClassifier interface {
	Analyze(command string) domain.RiskResult
}

// HistoryPersister reads and writes the full history snapshot.
// Save must replace the stored sequence as a whole.
type HistoryPersister interface {
	Load() ([]domain.HistoryEntry, error)
	Save([]domain.HistoryEntry) error
}

// HistoryRepository is the bounded, deduplicated command history.
type HistoryRepository interface {
	Add(prompt, command, alias string) (domain.HistoryEntry, error)
	All() []domain.HistoryEntry
	Search(query string) []domain.HistoryEntry
	ByAlias(alias string) (domain.HistoryEntry, bool)
	ByID(id string) (domain.HistoryEntry, bool)
	Delete(id string) (bool, error)
	Clear() error
}

// SecretStore reads and writes the provider API key in the OS credential store.
// Get reports found=false without an error when no secret is stored.
type SecretStore interface {
	Get(service, account string) (secret string, found bool, err error)
	Set(service, account, secret string) error
}

// ConfirmationPrompter handles interactive user confirmations for risky commands.
// ConfirmTyped returns whatever the user typed; the caller compares it to the token.
type ConfirmationPrompter interface {
	Confirm(level domain.RiskLevel, command string, reasons []string) (bool, error)
	ConfirmTyped(command, token string) (string, error)
	Enabled() bool
}

// TerminalInjector places an approved command in the user's terminal
// input line without executing it.
type TerminalInjector interface {
	Inject(command string) error
}

// Clipboard provides cross-platform clipboard integration for copying commands.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// ShellIntegrator manages the shell widgets that bind the shortcut key.
type ShellIntegrator interface {
	Install(shell string, shortcut domain.Shortcut, force bool) (domain.ShellInstallResult, error)
	Uninstall(shell string) (domain.ShellInstallResult, error)
	Status(shell string) domain.ShellStatus
	DetectShell() string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stderr, debug file).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
