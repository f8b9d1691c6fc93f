// Package auth implements the credential subsystem of notedeck:
// password hashing and verification, account registration and
// session-backed login state.
//
// Passwords are never stored. Registration stretches the password with
// PBKDF2 (SHA-256, 310k iterations) over a fresh random salt and keeps
// only the derived key. Login re-derives the key from the candidate
// password and compares the two in constant time.
//
// A successful login binds a minimal projection of the credential
// record (id and username, never hash or salt) to a random session
// token held by the browser as a cookie. Everything the rest of the
// application learns about the current user flows through that
// projection.
//
// There is no global registry of authentication strategies: an
// Authenticator is built once at startup with its user store and
// key-derivation function injected, and handed to the handlers that
// need it.
package auth
