// Package apierror defines the structured error kinds raised by the widget
// pipeline. Callers can distinguish configuration misuse (a bug in the
// authoring script) from domain validation failures (a value outside the
// declared option set) without parsing messages.
package apierror

import (
	"errors"
	"fmt"
)

// Kind classifies an Error.
type Kind int

const (
	// KindConfig marks caller misuse: mismatched icon lists, invalid
	// default/selection-mode combinations, unknown fixed-vocabulary names,
	// duplicate widget identities. Always raised synchronously at the call
	// site during the current rerun.
	KindConfig Kind = iota
	// KindDomain marks a value that falls outside a widget's declared
	// option set, typically surfaced while serializing.
	KindDomain
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config"
	case KindDomain:
		return "domain"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Error carries a kind plus a human-readable message naming the exact
// violated constraint.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Configf builds a KindConfig error.
func Configf(format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// Domainf builds a KindDomain error.
func Domainf(format string, args ...any) *Error {
	return &Error{Kind: KindDomain, Message: fmt.Sprintf(format, args...)}
}

// IsConfig reports whether err is (or wraps) a configuration error.
func IsConfig(err error) bool {
	return hasKind(err, KindConfig)
}

// IsDomain reports whether err is (or wraps) a domain validation error.
func IsDomain(err error) bool {
	return hasKind(err, KindDomain)
}

func hasKind(err error, kind Kind) bool {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Kind == kind
}
