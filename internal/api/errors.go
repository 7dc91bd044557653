package api

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway error so callers can branch on one shape
// instead of probing the server's loose error bodies.
type Kind int

const (
	// KindUnknown covers anything the gateway could not classify.
	KindUnknown Kind = iota
	// KindAuth is a 401/403: bad credentials or an expired/invalid token.
	KindAuth
	// KindValidation is a 400/422: the server rejected the payload.
	KindValidation
	// KindConflict is a 409: duplicate name or a concurrent change.
	KindConflict
	// KindNotFound is a 404.
	KindNotFound
	// KindNetwork is a transport failure; no response was received.
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not-found"
	case KindNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// Error is a structured failure from the remote API. Callers use
// errors.As to recover it:
//
//	var apiErr *api.Error
//	if errors.As(err, &apiErr) && apiErr.Kind == api.KindAuth { ... }
type Error struct {
	Kind       Kind
	StatusCode int
	// Message is the server's human-readable description, taken from
	// whichever of the body's "message"/"msg"/"error" fields is set.
	Message string
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("api: %s (%d): %s", e.Kind, e.StatusCode, e.Message)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

// ErrorMessage returns the server-provided message from err, or fallback
// when err carries none.
func ErrorMessage(err error, fallback string) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

func kindForStatus(status int) Kind {
	switch status {
	case 400, 422:
		return KindValidation
	case 401, 403:
		return KindAuth
	case 404:
		return KindNotFound
	case 409:
		return KindConflict
	default:
		return KindUnknown
	}
}
