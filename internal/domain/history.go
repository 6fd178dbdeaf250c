package domain

import "time"

// HistoryEntry is one remembered prompt/command pair. At most one entry exists
// per distinct Command string.
type HistoryEntry struct {
	ID        string    `json:"id"`
	Prompt    string    `json:"prompt"`
	Command   string    `json:"command"`
	Alias     string    `json:"alias,omitempty"`
	UseCount  int       `json:"use_count"`
	LastUsed  time.Time `json:"last_used"`
	CreatedAt time.Time `json:"created_at"`
}

// HasAlias reports whether the entry carries a user label.
func (e HistoryEntry) HasAlias() bool {
	return e.Alias != ""
}

// HistoryDocument is the on-disk JSON layout of the history file.
type HistoryDocument struct {
	Version  string         `json:"version"`
	Commands []HistoryEntry `json:"commands"`
}
