package domain

import (
	"fmt"
	"strings"
)

// RiskLevel enumerates classifier outcomes. Values are ordered so the
// highest observed severity can be tracked with Max.
type RiskLevel int

const (
	RiskSafe RiskLevel = iota
	RiskWarning
	RiskDangerous
)

// String returns the lower-case name used in config and rule files.
func (l RiskLevel) String() string {
	switch l {
	case RiskSafe:
		return "safe"
	case RiskWarning:
		return "warning"
	case RiskDangerous:
		return "dangerous"
	default:
		return fmt.Sprintf("risk(%d)", int(l))
	}
}

// Max returns the more severe of the two levels.
func (l RiskLevel) Max(other RiskLevel) RiskLevel {
	if other > l {
		return other
	}
	return l
}

// ConfirmationSteps reports how many confirmations the level requires before
// a command may be handed to the terminal.
func (l RiskLevel) ConfirmationSteps() int {
	switch l {
	case RiskWarning:
		return 1
	case RiskDangerous:
		return 2
	default:
		return 0
	}
}

// ParseRiskLevel converts a textual level into a RiskLevel.
func ParseRiskLevel(value string) (RiskLevel, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "safe":
		return RiskSafe, nil
	case "warning", "warn":
		return RiskWarning, nil
	case "dangerous", "danger":
		return RiskDangerous, nil
	default:
		return RiskSafe, fmt.Errorf("unknown risk level %q", value)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l RiskLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *RiskLevel) UnmarshalText(text []byte) error {
	parsed, err := ParseRiskLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// RiskRule pairs a case-insensitive pattern with the severity and the
// message reported when it matches.
type RiskRule struct {
	Pattern string    `yaml:"pattern"`
	Level   RiskLevel `yaml:"level"`
	Reason  string    `yaml:"reason"`
}

// RiskResult is the outcome of classifying one command. Reasons follow rule
// evaluation order and may repeat when several rules share a message.
type RiskResult struct {
	Level   RiskLevel
	Reasons []string
}

// IsSafe reports whether no rule matched.
func (r RiskResult) IsSafe() bool {
	return r.Level == RiskSafe
}
