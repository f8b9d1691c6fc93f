package auth

import (
	"context"
	"testing"
	"time"
)

func TestSessionStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	sessions, err := InMemorySessionStore(time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	token, err := NewSessionToken(nil)
	if err != nil {
		t.Fatal(err)
	}
	identity := Identity{ID: 42, Username: "validusr"}
	if err := sessions.Bind(ctx, token, identity); err != nil {
		t.Fatal(err)
	}
	bound, found, err := sessions.Resolve(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if !found || bound != identity {
		t.Fatalf("expecting %+v, got %+v (found %v)", identity, bound, found)
	}
}

func TestSessionStoreMissAndUnbind(t *testing.T) {
	ctx := context.Background()
	sessions, err := InMemorySessionStore(time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	_, found, err := sessions.Resolve(ctx, "no-such-token")
	if err != nil {
		t.Fatal(err)
	}
	if found {
		t.Fatal("unknown tokens should not resolve")
	}
	if err := sessions.Unbind(ctx, "no-such-token"); err != nil {
		t.Fatalf("unbinding an unknown token should be a no-op, got %v", err)
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		token, err := NewSessionToken(nil)
		if err != nil {
			t.Fatal(err)
		}
		if seen[token] {
			t.Fatal("session tokens should never repeat")
		}
		seen[token] = true
	}
}
