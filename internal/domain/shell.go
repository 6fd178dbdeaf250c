package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ShellName enumerates supported shell dialects.
type ShellName string

const (
	ShellUnknown ShellName = "unknown"
	ShellZsh     ShellName = "zsh"
	ShellBash    ShellName = "bash"
	ShellSh      ShellName = "sh"
	ShellFish    ShellName = "fish"
)

// Supported reports whether commands can be generated for the dialect.
func (s ShellName) Supported() bool {
	switch s {
	case ShellZsh, ShellBash, ShellSh, ShellFish:
		return true
	default:
		return false
	}
}

// SupportedShellNames lists dialect names in display order.
func SupportedShellNames() []string {
	return []string{string(ShellBash), string(ShellZsh), string(ShellSh), string(ShellFish)}
}

// NormalizeShell accepts either a bare name or a path such as /bin/zsh.
func NormalizeShell(value string) ShellName {
	value = strings.TrimSpace(value)
	if value == "" {
		return ShellUnknown
	}
	name := ShellName(strings.ToLower(filepath.Base(value)))
	if name.Supported() {
		return name
	}
	return ShellUnknown
}

// ShellInstallResult describes install/uninstall outcomes.
type ShellInstallResult struct {
	Shell         ShellName
	ScriptPath    string
	RCFile        string
	ScriptUpdated bool
	RCUpdated     bool
}

// ShellStatus captures current integration state.
type ShellStatus struct {
	Shell        ShellName
	ScriptPath   string
	RCFile       string
	ScriptExists bool
	LinePresent  bool
	Error        string
}

// Shortcut is a parsed key binding such as "Ctrl+G".
type Shortcut struct {
	Modifiers []string
	Key       string
}

var shortcutModifiers = map[string]string{
	"ctrl":    "Ctrl",
	"shift":   "Shift",
	"alt":     "Alt",
	"cmd":     "Cmd",
	"command": "Cmd",
	"option":  "Alt",
}

// ParseShortcut validates a binding string. At least one modifier and exactly
// one trailing key are required.
func ParseShortcut(value string) (Shortcut, error) {
	parts := strings.Fields(strings.ReplaceAll(value, "+", " "))
	if len(parts) < 2 {
		return Shortcut{}, NewValidationError("parse shortcut", "shortcut must include at least one modifier and a key")
	}
	var sc Shortcut
	for _, part := range parts[:len(parts)-1] {
		canonical, ok := shortcutModifiers[strings.ToLower(part)]
		if !ok {
			return Shortcut{}, NewValidationError("parse shortcut", fmt.Sprintf("invalid modifier: %s", part))
		}
		sc.Modifiers = append(sc.Modifiers, canonical)
	}
	sc.Key = parts[len(parts)-1]
	return sc, nil
}

// Has reports whether the shortcut uses the given canonical modifier.
func (s Shortcut) Has(modifier string) bool {
	for _, m := range s.Modifiers {
		if m == modifier {
			return true
		}
	}
	return false
}

func (s Shortcut) String() string {
	return strings.Join(append(append([]string{}, s.Modifiers...), s.Key), "+")
}
