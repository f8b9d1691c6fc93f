package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"io"

	"github.com/avisser/notedeck/internal/logutil"
	"github.com/avisser/notedeck/notebook"
)

type (
	// Authenticator orchestrates login and logout against the user
	// store and the session store. Build one at startup and share it;
	// it has no mutable state of its own.
	Authenticator struct {
		users    UserStore
		sessions SessionStore
		derive   DeriveFn
		entropy  io.Reader
	}
)

// NewAuthenticator wires the authenticator. Passing nil for derive or
// entropy selects the production defaults (Derive and crypto/rand).
func NewAuthenticator(users UserStore, sessions SessionStore, derive DeriveFn, entropy io.Reader) *Authenticator {
	if derive == nil {
		derive = Derive
	}
	return &Authenticator{users: users, sessions: sessions, derive: derive, entropy: entropy}
}

// ProjectIdentity extracts the session-safe projection of a record.
func ProjectIdentity(user notebook.User) Identity {
	return Identity{ID: user.ID, Username: user.Username}
}

// ResolveIdentity is the inverse lookup: from a session identity back
// to the full credential record.
func (a *Authenticator) ResolveIdentity(ctx context.Context, identity Identity) (notebook.User, error) {
	return a.users.FindUserByID(ctx, identity.ID)
}

// Login verifies the credentials and, on success, binds a fresh
// session token to the identity. A missing user and a wrong password
// are logged apart but both come back as ErrInvalidCredentials: the
// caller must not be able to tell them apart.
func (a *Authenticator) Login(ctx context.Context, rawUsername, password string) (Identity, string, error) {
	log := logutil.GetOrDefault(ctx)
	username := NormalizeUsername(rawUsername)
	if username == "" || password == "" {
		return Identity{}, "", ErrInvalidCredentials
	}
	user, err := a.users.FindUserByUsername(ctx, username)
	var missing notebook.UserNotFound
	if errors.As(err, &missing) {
		log.Info().Str("username", username).Msg("Login attempt for unknown user")
		return Identity{}, "", ErrInvalidCredentials
	} else if err != nil {
		return Identity{}, "", PersistenceError{cause: err}
	}
	storedHash, err := base64.StdEncoding.DecodeString(user.HashedPassword)
	if err != nil {
		return Identity{}, "", PersistenceError{cause: err}
	}
	storedSalt, err := base64.StdEncoding.DecodeString(user.PasswordSalt)
	if err != nil {
		return Identity{}, "", PersistenceError{cause: err}
	}
	ok, err := Verify(ctx, a.derive, password, storedHash, storedSalt)
	if err != nil {
		return Identity{}, "", HashingError{cause: err}
	}
	if !ok {
		log.Info().Str("username", username).Msg("Login attempt with wrong password")
		return Identity{}, "", ErrInvalidCredentials
	}
	token, err := NewSessionToken(a.entropy)
	if err != nil {
		return Identity{}, "", HashingError{cause: err}
	}
	identity := ProjectIdentity(user)
	err = a.sessions.Bind(ctx, token, identity)
	if err != nil {
		return Identity{}, "", PersistenceError{cause: err}
	}
	err = a.users.TouchLastLogin(ctx, user.ID)
	if err != nil {
		// bookkeeping only, the login itself already succeeded
		log.Warn().Err(err).Str("username", username).Msg("Unable to record last login")
	}
	return identity, token, nil
}

// VerifyPassword re-checks the password of an already authenticated
// user, for confirmations on sensitive actions. False means mismatch;
// errors are store or derivation failures.
func (a *Authenticator) VerifyPassword(ctx context.Context, userID int64, password string) (bool, error) {
	user, err := a.users.FindUserByID(ctx, userID)
	if err != nil {
		return false, PersistenceError{cause: err}
	}
	storedHash, err := base64.StdEncoding.DecodeString(user.HashedPassword)
	if err != nil {
		return false, PersistenceError{cause: err}
	}
	storedSalt, err := base64.StdEncoding.DecodeString(user.PasswordSalt)
	if err != nil {
		return false, PersistenceError{cause: err}
	}
	ok, err := Verify(ctx, a.derive, password, storedHash, storedSalt)
	if err != nil {
		return false, HashingError{cause: err}
	}
	return ok, nil
}

// Logout destroys the session binding. Unknown or already-destroyed
// tokens are not an error: logging out twice does nothing.
func (a *Authenticator) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return a.sessions.Unbind(ctx, token)
}
