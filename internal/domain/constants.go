package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Application defaults
const (
	// AppDirName is the directory under $HOME holding config, history and logs
	AppDirName = ".aicmd"
	// DefaultSecretService is the keychain service name for the API key
	DefaultSecretService = "aicmd"
	// DefaultSecretAccount is the keychain account name for the API key
	DefaultSecretAccount = "gemini-api-key"
	// DefaultShortcutKey is bound to the shell widget
	DefaultShortcutKey = "Ctrl+G"
	// DefaultModelName is the Gemini model used for generation
	DefaultModelName = "gemini-2.5-flash"
	// DefaultAPIKeyEnv is consulted when the keychain has no key
	DefaultAPIKeyEnv = "GEMINI_API_KEY"
)

// Limit constants
const (
	// DefaultMaxHistory is the history capacity
	DefaultMaxHistory = 50
	// DefaultMaxInputLength bounds natural-language requests, in characters
	DefaultMaxInputLength = 500
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 10
)

// Timeout constants
const (
	// DefaultModelTimeout bounds one generation call
	DefaultModelTimeout = 30 * time.Second
)

// Confirmation constants
const (
	// ConfirmToken must be typed verbatim to run a dangerous command
	ConfirmToken = "CONFIRM"
)

// Format constants
const (
	// HistoryFormatVersion tags the persisted history document
	HistoryFormatVersion = "1.0"
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
