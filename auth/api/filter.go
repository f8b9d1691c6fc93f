package api

import (
	"context"
	"net/http"

	"github.com/avisser/notedeck/auth"
	"github.com/avisser/notedeck/internal/logutil"
)

type (
	// Realm guards the pages that require a signed-in user. Requests
	// without a resolvable session identity are redirected to the
	// login page; the client cannot tell a missing session from an
	// expired one.
	Realm struct {
		sessions       auth.SessionStore
		insecureCookie bool
	}

	ctxKey byte
)

const (
	// SessionCookie is the name of the cookie holding the session
	// token. The token is an opaque server-side key: the cookie never
	// carries identity data itself.
	SessionCookie = "notedeck_session"

	loginPath = "/auth/login"
)

var identityKey = ctxKey(1)

func NewRealm(sessions auth.SessionStore, allowHTTPCookie bool) *Realm {
	return &Realm{sessions: sessions, insecureCookie: allowHTTPCookie}
}

// Protect admits the request only when its session cookie resolves to
// a bound identity, which is then available downstream via
// IdentityFromContext.
func (s *Realm) Protect(sensitive http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := s.resolveIdentity(r)
		if !ok {
			http.Redirect(w, r, loginPath, http.StatusSeeOther)
			return
		}
		r = r.WithContext(context.WithValue(r.Context(), identityKey, identity))
		sensitive.ServeHTTP(w, r)
	})
}

func (s *Realm) resolveIdentity(r *http.Request) (auth.Identity, bool) {
	ctx := r.Context()
	log := logutil.GetOrDefault(ctx)
	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" {
		return auth.Identity{}, false
	}
	identity, found, err := s.sessions.Resolve(ctx, cookie.Value)
	if err != nil {
		log.Error().Err(err).Msg("Unexpected error when resolving session token")
		return auth.Identity{}, false
	}
	return identity, found
}

// SetSessionCookie binds the session token to the browser. HttpOnly
// always; Secure unless the realm was built for plain-http use.
func (s *Realm) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   !s.insecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Realm) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !s.insecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionToken returns the raw token from the request cookie, if any.
func SessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func IdentityFromContext(ctx context.Context) (auth.Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return auth.Identity{}, false
	}
	return v.(auth.Identity), true
}
