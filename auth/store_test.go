package auth

import (
	"context"
	"crypto/sha256"
	"time"

	"github.com/avisser/notedeck/notebook"
)

// fastDerive replaces the PBKDF2 stretch in tests that do not care
// about the cost of the real derivation.
func fastDerive(_ context.Context, password string, salt []byte) ([]byte, error) {
	sum := sha256.Sum256(append([]byte(password), salt...))
	return sum[:], nil
}

// memUsers is an in-memory UserStore with the same contract as
// *notebook.Store, unique usernames included.
type memUsers struct {
	seq    int64
	byName map[string]notebook.User
}

func newMemUsers() *memUsers {
	return &memUsers{byName: make(map[string]notebook.User)}
}

func (m *memUsers) FindUserByUsername(_ context.Context, username string) (notebook.User, error) {
	u, ok := m.byName[username]
	if !ok {
		return notebook.User{}, notebook.UserNotFound{Username: username}
	}
	return u, nil
}

func (m *memUsers) FindUserByID(_ context.Context, id int64) (notebook.User, error) {
	for _, u := range m.byName {
		if u.ID == id {
			return u, nil
		}
	}
	return notebook.User{}, notebook.UserNotFound{ID: id}
}

func (m *memUsers) CreateUser(_ context.Context, username, hashedPassword, passwordSalt string) (notebook.User, error) {
	if _, ok := m.byName[username]; ok {
		return notebook.User{}, notebook.UsernameTaken{Username: username}
	}
	m.seq++
	u := notebook.User{
		ID:             m.seq,
		Username:       username,
		HashedPassword: hashedPassword,
		PasswordSalt:   passwordSalt,
		CreatedAt:      time.Now().UTC(),
	}
	m.byName[username] = u
	return u, nil
}

func (m *memUsers) TouchLastLogin(_ context.Context, id int64) error {
	for name, u := range m.byName {
		if u.ID == id {
			u.LastLoginAt = time.Now().UTC()
			m.byName[name] = u
			return nil
		}
	}
	return notebook.UserNotFound{ID: id}
}
