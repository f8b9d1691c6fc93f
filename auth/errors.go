package auth

import (
	"errors"
	"fmt"

	"github.com/avisser/notedeck/notebook"
)

// ErrInvalidCredentials is the only thing a failed login reveals. The
// server logs whether the user was missing or the password was wrong;
// the client never learns which, to keep usernames unenumerable.
var ErrInvalidCredentials = errors.New("incorrect username or password")

type (
	MissingField struct{}

	UsernameTooShort struct {
		Min int
	}

	PasswordTooShort struct {
		Min int
	}

	PasswordTooWeak struct{}

	// PersistenceError wraps a user-store failure. Opaque to clients.
	PersistenceError struct {
		cause error
	}

	// HashingError wraps a failure of the key-derivation machinery or
	// of the entropy source. Opaque to clients.
	HashingError struct {
		cause error
	}
)

func (MissingField) Error() string {
	return "username and password are required"
}

func (u UsernameTooShort) Error() string {
	return fmt.Sprintf("username must be at least %v characters long", u.Min)
}

func (p PasswordTooShort) Error() string {
	return fmt.Sprintf("password must be at least %v characters long", p.Min)
}

func (PasswordTooWeak) Error() string {
	return "password must contain at least one uppercase letter, one lowercase letter, one number, and one special character"
}

func (p PersistenceError) Error() string {
	return fmt.Sprintf("unable to reach the user store, cause %v", p.cause)
}

func (p PersistenceError) Unwrap() error { return p.cause }

func (h HashingError) Error() string {
	return fmt.Sprintf("unable to derive password key, cause %v", h.cause)
}

func (h HashingError) Unwrap() error { return h.cause }

// UserMessage maps an error from Register or Login to the text shown
// on the form. Internal failures (persistence, hashing) report false:
// their details belong in logs, not in responses.
func UserMessage(err error) (string, bool) {
	if errors.Is(err, ErrInvalidCredentials) {
		return ErrInvalidCredentials.Error(), true
	}
	var missing MissingField
	var taken notebook.UsernameTaken
	var shortU UsernameTooShort
	var shortP PasswordTooShort
	var weak PasswordTooWeak
	switch {
	case errors.As(err, &missing):
		return missing.Error(), true
	case errors.As(err, &taken):
		return "user already exists, please choose another name", true
	case errors.As(err, &shortU):
		return shortU.Error(), true
	case errors.As(err, &shortP):
		return shortP.Error(), true
	case errors.As(err, &weak):
		return weak.Error(), true
	}
	return "", false
}
