package auth

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func acquireAccount(ctx context.Context, t *testing.T, users *memUsers, username, password string) {
	t.Helper()
	registrar := NewRegistrar(users, fastDerive, nil)
	_, err := registrar.Register(ctx, username, password)
	if err != nil {
		t.Fatal(err)
	}
}

func acquireSessions(t *testing.T) SessionStore {
	t.Helper()
	sessions, err := InMemorySessionStore(time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	return sessions
}

func TestLoginSuccess(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	acquireAccount(ctx, t, users, "validusr", "Str0ng!Passw0rd")
	sessions := acquireSessions(t)
	authenticator := NewAuthenticator(users, sessions, fastDerive, nil)

	identity, token, err := authenticator.Login(ctx, "  ValidUsr ", "Str0ng!Passw0rd")
	if err != nil {
		t.Fatal(err)
	}
	if identity.Username != "validusr" || identity.ID == 0 {
		t.Fatalf("unexpected identity %+v", identity)
	}
	bound, found, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if !found || bound != identity {
		t.Fatalf("token should resolve to the identity, got %+v (found %v)", bound, found)
	}
	record, err := authenticator.ResolveIdentity(ctx, identity)
	if err != nil {
		t.Fatal(err)
	}
	if record.LastLoginAt.IsZero() {
		t.Fatal("login should record the last login time")
	}
}

func TestLoginIdentityCarriesNoSecrets(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	acquireAccount(ctx, t, users, "validusr", "Str0ng!Passw0rd")
	authenticator := NewAuthenticator(users, acquireSessions(t), fastDerive, nil)

	identity, _, err := authenticator.Login(ctx, "validusr", "Str0ng!Passw0rd")
	if err != nil {
		t.Fatal(err)
	}
	buf, err := json.Marshal(identity)
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(buf, &fields); err != nil {
		t.Fatal(err)
	}
	if len(fields) != 2 {
		t.Fatalf("the serialized identity should carry exactly id and username, got %v", fields)
	}
	for _, k := range []string{"id", "username"} {
		if _, ok := fields[k]; !ok {
			t.Fatalf("serialized identity is missing %v: %v", k, fields)
		}
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	acquireAccount(ctx, t, users, "validusr", "Str0ng!Passw0rd")
	authenticator := NewAuthenticator(users, acquireSessions(t), fastDerive, nil)

	_, _, missingErr := authenticator.Login(ctx, "nosuchusr", "Str0ng!Passw0rd")
	_, _, wrongErr := authenticator.Login(ctx, "validusr", "Wr0ng!Passw0rd")
	if !errors.Is(missingErr, ErrInvalidCredentials) {
		t.Fatalf("unknown user should fail with ErrInvalidCredentials, got %v", missingErr)
	}
	if !errors.Is(wrongErr, ErrInvalidCredentials) {
		t.Fatalf("wrong password should fail with ErrInvalidCredentials, got %v", wrongErr)
	}
	missingMsg, _ := UserMessage(missingErr)
	wrongMsg, _ := UserMessage(wrongErr)
	if missingMsg != wrongMsg {
		t.Fatalf("user-facing failure messages must match: %q vs %q", missingMsg, wrongMsg)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	acquireAccount(ctx, t, users, "validusr", "Str0ng!Passw0rd")
	sessions := acquireSessions(t)
	authenticator := NewAuthenticator(users, sessions, fastDerive, nil)

	_, token, err := authenticator.Login(ctx, "validusr", "Str0ng!Passw0rd")
	if err != nil {
		t.Fatal(err)
	}
	if err := authenticator.Logout(ctx, token); err != nil {
		t.Fatal(err)
	}
	_, found, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("logout should destroy the session binding")
	}
	if err := authenticator.Logout(ctx, token); err != nil {
		t.Fatalf("second logout should be a no-op, got %v", err)
	}
	if err := authenticator.Logout(ctx, ""); err != nil {
		t.Fatalf("logout without a token should be a no-op, got %v", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	ctx := context.Background()
	users := newMemUsers()
	acquireAccount(ctx, t, users, "validusr", "Str0ng!Passw0rd")
	authenticator := NewAuthenticator(users, acquireSessions(t), fastDerive, nil)
	identity, _, err := authenticator.Login(ctx, "validusr", "Str0ng!Passw0rd")
	if err != nil {
		t.Fatal(err)
	}

	ok, err := authenticator.VerifyPassword(ctx, identity.ID, "Str0ng!Passw0rd")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("the account password should verify")
	}
	ok, err = authenticator.VerifyPassword(ctx, identity.ID, "Wr0ng!Passw0rd")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("a wrong password should not verify")
	}
}
