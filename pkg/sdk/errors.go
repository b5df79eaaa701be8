package sdk

import (
	"errors"
	"fmt"
)

// Kind classifies a failure by the recovery action it demands from the caller.
type Kind int

const (
	// KindTransport covers network and server trouble; retrying is reasonable.
	KindTransport Kind = iota
	// KindAuthentication means the credential is bad or expired; recover by re-login.
	KindAuthentication
	// KindAuthorization means the session is valid but the role is insufficient.
	KindAuthorization
	// KindConflict means the resource changed since the token was derived; re-fetch.
	KindConflict
	// KindValidation means the payload was rejected; recover by correcting input.
	KindValidation
	// KindProgramming marks a caller bug, such as mutating without a token.
	KindProgramming
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindValidation:
		return "validation"
	case KindProgramming:
		return "programming"
	default:
		return "unknown"
	}
}

// Error is the SDK failure type. Every error surfaced by the session manager,
// the mutation gateway, and the API client carries a Kind so callers can pick
// the right recovery action without string matching.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates an Error with the given kind and message.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// WrapError wraps cause with a kind and message, preserving the chain for errors.Is/As.
func WrapError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the failure kind from err. Errors that never passed through
// the SDK taxonomy are treated as transport failures, the only kind for which
// a blind retry is safe.
func KindOf(err error) Kind {
	var sdkErr *Error
	if errors.As(err, &sdkErr) {
		return sdkErr.Kind
	}
	return KindTransport
}

// IsAuthentication reports whether err denotes a bad or expired credential.
func IsAuthentication(err error) bool { return is(err, KindAuthentication) }

// IsAuthorization reports whether err denotes an insufficient role.
func IsAuthorization(err error) bool { return is(err, KindAuthorization) }

// IsConflict reports whether err denotes a concurrent-modification conflict.
func IsConflict(err error) bool { return is(err, KindConflict) }

// IsValidation reports whether err denotes a rejected payload.
func IsValidation(err error) bool { return is(err, KindValidation) }

func is(err error, kind Kind) bool {
	var sdkErr *Error
	return errors.As(err, &sdkErr) && sdkErr.Kind == kind
}
