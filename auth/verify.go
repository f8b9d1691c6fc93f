package auth

import (
	"context"
	"crypto/subtle"
)

// Verify derives a key from the candidate password and the stored salt
// and compares it against the stored key in constant time. Any
// mismatch, of length or of content, is false rather than an error:
// only a failure of the derivation itself is an error.
func Verify(ctx context.Context, derive DeriveFn, candidate string, storedHash, storedSalt []byte) (bool, error) {
	if derive == nil {
		derive = Derive
	}
	key, err := derive(ctx, candidate, storedSalt)
	if err != nil {
		return false, err
	}
	return subtle.ConstantTimeCompare(key, storedHash) == 1, nil
}
