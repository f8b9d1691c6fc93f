package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Key-derivation parameters. These are security parameters, not
// performance knobs: lowering the iteration count silently weakens
// every stored credential.
const (
	kdfIterations = 310_000
	kdfKeyLen     = 32
	saltLen       = 12
)

type (
	// DeriveFn stretches a password over a salt into a fixed-length
	// verification key. The production implementation is Derive; tests
	// inject cheaper ones.
	DeriveFn func(ctx context.Context, password string, salt []byte) ([]byte, error)
)

// Derive computes the PBKDF2-HMAC-SHA256 key for the given password
// and salt. Deterministic: same password and salt always produce the
// same key.
//
// The derivation is deliberately expensive, so it runs on its own
// goroutine while the caller blocks on the result. If the context is
// cancelled the caller is released immediately; the derivation itself
// runs to completion and is discarded.
func Derive(ctx context.Context, password string, salt []byte) ([]byte, error) {
	out := make(chan []byte, 1)
	go func() {
		out <- pbkdf2.Key([]byte(password), salt, kdfIterations, kdfKeyLen, sha256.New)
	}()
	select {
	case key := <-out:
		return key, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// NewSalt reads a fresh random salt from entropy. Pass nil to use
// crypto/rand.
func NewSalt(entropy io.Reader) ([]byte, error) {
	if entropy == nil {
		entropy = rand.Reader
	}
	salt := make([]byte, saltLen)
	_, err := io.ReadFull(entropy, salt)
	if err != nil {
		return nil, HashingError{cause: err}
	}
	return salt, nil
}
