package commands

import "github.com/doeshing/aicmd/internal/domain"

// DefaultHistoryLimit is the number of entries `history list` shows.
const DefaultHistoryLimit = domain.DefaultHistoryLimit

// Error messages
const (
	ErrConfigLoaderUnavailable    = "config loader unavailable"
	ErrDoctorServiceUnavailable   = "doctor service unavailable"
	ErrHistoryStoreUnavailable    = "history store unavailable"
	ErrGenerateServiceUnavailable = "generate service unavailable"
	ErrSecretStoreUnavailable     = "secret store unavailable"
	ErrShellInstallerUnavailable  = "shell installer unavailable"
)

// Success messages
const (
	MsgConfigurationValid = "Configuration valid"
	MsgNoHistoryRecorded  = "No history recorded yet."
	MsgNoMatches          = "No matching history entries."
	MsgCancelled          = "Cancelled."
)
