package api

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/avisser/notedeck/auth"
	"github.com/steinfletcher/apitest"
)

func TestProtect(t *testing.T) {
	ctx := context.Background()
	sessions, err := auth.InMemorySessionStore(time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	realm := NewRealm(sessions, true)
	var count uint32
	protected := realm.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok || identity.Username != "validusr" {
			t.Errorf("protected handler should see the bound identity, got %+v (ok %v)", identity, ok)
		}
		atomic.AddUint32(&count, 1)
		http.Error(w, "OK", http.StatusOK)
	}))

	apitest.Handler(protected).
		Get("/notes").
		Expect(t).
		Status(http.StatusSeeOther).
		Header("Location", "/auth/login").
		End()

	err = sessions.Bind(ctx, "abc123", auth.Identity{ID: 1, Username: "validusr"})
	if err != nil {
		t.Fatal(err)
	}
	apitest.Handler(protected).
		Get("/notes").
		Cookies(apitest.NewCookie(SessionCookie).Value("abc123")).
		Expect(t).
		Status(http.StatusOK).
		End()

	if count != 1 {
		t.Fatal("protected handler should have been called only once")
	}
}

func TestProtectExpiredSessionLooksLikeNoSession(t *testing.T) {
	sessions, err := auth.InMemorySessionStore(time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	realm := NewRealm(sessions, true)
	protected := realm.Protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("an unbound token should never reach the handler")
	}))

	// token never bound, same as one evicted after its ttl
	apitest.Handler(protected).
		Get("/notes").
		Cookies(apitest.NewCookie(SessionCookie).Value("expired-token")).
		Expect(t).
		Status(http.StatusSeeOther).
		Header("Location", "/auth/login").
		End()
}
