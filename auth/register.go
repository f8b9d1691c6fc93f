package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/avisser/notedeck/notebook"
)

const (
	minUsernameLen = 6
	minPasswordLen = 12

	passwordSymbols = "@$!%*?&"
)

type (
	// UserStore is what the credential core needs from the record
	// store. *notebook.Store implements it; tests substitute fakes.
	UserStore interface {
		FindUserByUsername(ctx context.Context, username string) (notebook.User, error)
		FindUserByID(ctx context.Context, id int64) (notebook.User, error)
		CreateUser(ctx context.Context, username, hashedPassword, passwordSalt string) (notebook.User, error)
		TouchLastLogin(ctx context.Context, id int64) error
	}

	// Registrar validates new-account input and persists the derived
	// credential record.
	Registrar struct {
		users   UserStore
		derive  DeriveFn
		entropy io.Reader
	}
)

// NewRegistrar builds a registrar around the given store. Passing nil
// for derive or entropy selects the production defaults (Derive and
// crypto/rand).
func NewRegistrar(users UserStore, derive DeriveFn, entropy io.Reader) *Registrar {
	if derive == nil {
		derive = Derive
	}
	return &Registrar{users: users, derive: derive, entropy: entropy}
}

// NormalizeUsername trims whitespace and case-folds. Both registration
// and login pass usernames through here, so "  Alice " and "alice"
// name the same account.
func NormalizeUsername(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Register runs the validation pipeline, short-circuiting on the first
// failure, then derives and persists the credential record. The new
// account is not logged in: callers send the user to the login page.
func (r *Registrar) Register(ctx context.Context, rawUsername, rawPassword string) (notebook.User, error) {
	if rawUsername == "" || rawPassword == "" {
		return notebook.User{}, MissingField{}
	}
	username := NormalizeUsername(rawUsername)
	_, err := r.users.FindUserByUsername(ctx, username)
	if err == nil {
		return notebook.User{}, notebook.UsernameTaken{Username: username}
	}
	var missing notebook.UserNotFound
	if !errors.As(err, &missing) {
		return notebook.User{}, PersistenceError{cause: err}
	}
	// length limits count characters, not bytes, so multibyte names
	// cannot sneak below the minimum
	if utf8.RuneCountInString(username) < minUsernameLen {
		return notebook.User{}, UsernameTooShort{Min: minUsernameLen}
	}
	if utf8.RuneCountInString(rawPassword) < minPasswordLen {
		return notebook.User{}, PasswordTooShort{Min: minPasswordLen}
	}
	if !acceptablePassword(rawPassword) {
		return notebook.User{}, PasswordTooWeak{}
	}
	salt, err := NewSalt(r.entropy)
	if err != nil {
		return notebook.User{}, err
	}
	key, err := r.derive(ctx, rawPassword, salt)
	if err != nil {
		return notebook.User{}, HashingError{cause: err}
	}
	user, err := r.users.CreateUser(ctx, username,
		base64.StdEncoding.EncodeToString(key),
		base64.StdEncoding.EncodeToString(salt))
	var taken notebook.UsernameTaken
	if errors.As(err, &taken) {
		// lost the race against a concurrent registration, the store's
		// unique constraint is the authority
		return notebook.User{}, taken
	} else if err != nil {
		return notebook.User{}, PersistenceError{cause: err}
	}
	return user, nil
}

// acceptablePassword enforces the composition policy: at least one
// lowercase letter, one uppercase letter, one digit and one symbol
// from passwordSymbols, with no character outside that alphabet.
func acceptablePassword(password string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}
