package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/allegro/bigcache/v3"
)

type (
	// Identity is the minimal projection of a credential record that
	// is allowed to leave the auth core. It never carries the hash or
	// the salt, which bounds what a session-store compromise can leak.
	Identity struct {
		ID       int64  `json:"id"`
		Username string `json:"username"`
	}

	// SessionStore binds session tokens to identities. Expiry is the
	// store's concern: an expired binding simply resolves to nothing.
	SessionStore interface {
		Bind(ctx context.Context, token string, identity Identity) error
		Resolve(ctx context.Context, token string) (Identity, bool, error)
		Unbind(ctx context.Context, token string) error
	}

	memSessions struct {
		cache *bigcache.BigCache
	}
)

// InMemorySessionStore keeps session bindings in process memory with
// the given lifetime. Restarting the service logs everyone out, which
// is acceptable for a single-instance deployment.
func InMemorySessionStore(ttl time.Duration) (SessionStore, error) {
	cache, err := bigcache.NewBigCache(bigcache.DefaultConfig(ttl))
	if err != nil {
		return nil, fmt.Errorf("unable to create session cache, cause %w", err)
	}
	return &memSessions{cache: cache}, nil
}

func (m *memSessions) Bind(ctx context.Context, token string, identity Identity) error {
	buf, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("unable to encode session identity, cause %w", err)
	}
	return m.cache.Set(token, buf)
}

func (m *memSessions) Resolve(ctx context.Context, token string) (Identity, bool, error) {
	buf, err := m.cache.Get(token)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return Identity{}, false, nil
	} else if err != nil {
		return Identity{}, false, err
	}
	var identity Identity
	err = json.Unmarshal(buf, &identity)
	if err != nil {
		return Identity{}, false, fmt.Errorf("unable to decode session identity, cause %w", err)
	}
	return identity, true, nil
}

func (m *memSessions) Unbind(ctx context.Context, token string) error {
	err := m.cache.Delete(token)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		// already gone, logout stays idempotent
		return nil
	}
	return err
}

// NewSessionToken draws a fresh 32-byte random token. Pass nil to use
// crypto/rand.
func NewSessionToken(entropy io.Reader) (string, error) {
	if entropy == nil {
		entropy = rand.Reader
	}
	buf := make([]byte, 32)
	_, err := io.ReadFull(entropy, buf)
	if err != nil {
		return "", fmt.Errorf("unable to generate session token, cause %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
