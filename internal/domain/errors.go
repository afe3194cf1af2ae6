package domain

import (
	"errors"
)

// Kind classifies an Error for the transport layer.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

// Error is a failure whose Message is safe to show to the caller.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind and Message so wrapped copies of a sentinel still compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// KindOf returns the Kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

var (
	ErrInvalidCredentials = NewError(KindUnauthorized, "Invalid credentials")
	ErrTokenInvalid       = NewError(KindUnauthorized, "Invalid or expired token")
	ErrUnauthorized       = NewError(KindUnauthorized, "Unauthorized")
	ErrForbidden          = NewError(KindForbidden, "Forbidden")
	ErrUserNotFound       = NewError(KindNotFound, "User not found")
	ErrEmailTaken         = NewError(KindConflict, "A user with this email already exists")
	ErrInvalidRole        = NewError(KindValidation, "Invalid role")
	ErrWeakPassword       = NewError(KindValidation, "Password must be between 8 and 72 bytes")

	// ErrResetTokenNotFound never crosses the transport boundary; the reset
	// flow collapses it into ErrTokenInvalid.
	ErrResetTokenNotFound = errors.New("reset token not found")
)
