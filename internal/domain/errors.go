package domain

import (
	"errors"
	"regexp"
	"strings"
)

// ErrorKind classifies failures surfaced to the user.
type ErrorKind int

const (
	KindGeneric ErrorKind = iota
	KindAPI
	KindRateLimit
	KindSecretStore
	KindConfig
	KindPersistence
	KindValidation
)

func (k ErrorKind) String() string {
	switch k {
	case KindAPI:
		return "api"
	case KindRateLimit:
		return "rate_limit"
	case KindSecretStore:
		return "secret_store"
	case KindConfig:
		return "config"
	case KindPersistence:
		return "persistence"
	case KindValidation:
		return "validation"
	default:
		return "generic"
	}
}

// parent returns the kind this kind specialises.
func (k ErrorKind) parent() (ErrorKind, bool) {
	switch k {
	case KindRateLimit:
		return KindAPI, true
	case KindPersistence:
		return KindConfig, true
	case KindGeneric:
		return KindGeneric, false
	default:
		return KindGeneric, true
	}
}

// Error is the single error type of the taxonomy. Msg is meant to be shown to
// the user as-is; Err keeps the underlying cause for errors.Is/As.
type Error struct {
	Kind ErrorKind
	Op   string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else {
		b.WriteString(e.Kind.String() + " error")
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error target whose kind equals this kind or one of its
// ancestors, so errors.Is(rateLimitErr, ErrAPI) holds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	kind := e.Kind
	for {
		if kind == t.Kind {
			return true
		}
		next, ok := kind.parent()
		if !ok {
			return false
		}
		kind = next
	}
}

// Sentinels for errors.Is checks.
var (
	ErrGeneric     = &Error{Kind: KindGeneric}
	ErrAPI         = &Error{Kind: KindAPI}
	ErrRateLimit   = &Error{Kind: KindRateLimit}
	ErrSecretStore = &Error{Kind: KindSecretStore}
	ErrConfig      = &Error{Kind: KindConfig}
	ErrPersistence = &Error{Kind: KindPersistence}
	ErrValidation  = &Error{Kind: KindValidation}
)

func NewAPIError(op, msg string, err error) error {
	return &Error{Kind: KindAPI, Op: op, Msg: msg, Err: err}
}

func NewRateLimitError(op, msg string, err error) error {
	return &Error{Kind: KindRateLimit, Op: op, Msg: msg, Err: err}
}

func NewSecretStoreError(op, msg string, err error) error {
	return &Error{Kind: KindSecretStore, Op: op, Msg: msg, Err: err}
}

func NewConfigError(op, msg string, err error) error {
	return &Error{Kind: KindConfig, Op: op, Msg: msg, Err: err}
}

func NewPersistenceError(op, msg string, err error) error {
	return &Error{Kind: KindPersistence, Op: op, Msg: msg, Err: err}
}

func NewValidationError(op, msg string) error {
	return &Error{Kind: KindValidation, Op: op, Msg: msg}
}

// KindOf returns the taxonomy kind of err, or KindGeneric when err is not part
// of the taxonomy.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindGeneric
}

// IsRateLimitMessage is the heuristic used when a provider gives no structured
// throttling signal. False negatives are expected.
// Markers must start a word so that "generate" does not count as "rate".
func IsRateLimitMessage(msg string) bool {
	return rateLimitMarkers.MatchString(msg)
}

var rateLimitMarkers = regexp.MustCompile(`(?i)\b(quota|rate|limit)`)
