// Package webui wires the server-rendered pages of notedeck: the
// notes listing and forms plus the account endpoints, everything
// behind the session gate except the /auth/* pages themselves.
package webui

import (
	"net/http"
	"strings"

	"github.com/avisser/notedeck/auth"
	authapi "github.com/avisser/notedeck/auth/api"
	"github.com/avisser/notedeck/notebook"
	"github.com/julienschmidt/httprouter"
)

type (
	handlers struct {
		store         *notebook.Store
		authenticator *auth.Authenticator
		realm         *authapi.Realm
	}
)

// AsHandler builds the complete application handler: public auth
// pages, gated notes and account pages, and the form method override
// wrapper.
func AsHandler(store *notebook.Store, registrar *auth.Registrar, authenticator *auth.Authenticator, realm *authapi.Realm) http.Handler {
	router := httprouter.New()
	authapi.NewHandlers(registrar, authenticator, realm).Mount(router)

	h := &handlers{store: store, authenticator: authenticator, realm: realm}
	gate := func(fn http.HandlerFunc) http.Handler {
		return realm.Protect(fn)
	}
	router.Handler("GET", "/", gate(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/notes", http.StatusSeeOther)
	}))
	router.Handler("GET", "/notes", gate(h.listNotes))
	router.Handler("GET", "/notes/new", gate(h.newNoteForm))
	router.Handler("GET", "/notes/edit/:id", gate(h.editNoteForm))
	router.Handler("POST", "/notes", gate(h.createNote))
	router.Handler("PUT", "/notes/:id", gate(h.updateNote))
	router.Handler("DELETE", "/notes/:id", gate(h.deleteNote))
	router.Handler("GET", "/users/settings", gate(h.settingsPage))
	router.Handler("GET", "/users/profile", gate(h.profile))
	router.Handler("GET", "/users/stats", gate(h.stats))
	router.Handler("POST", "/users/verify-password", gate(h.verifyPassword))
	router.Handler("DELETE", "/users/account", gate(h.deleteAccount))
	return MethodOverride(router)
}

// MethodOverride lets plain HTML forms reach the PUT and DELETE
// routes: a POST carrying a _method field is re-dispatched under that
// method. Only PUT and DELETE are honored.
func MethodOverride(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err == nil {
				switch r.PostForm.Get("_method") {
				case "PUT":
					r.Method = http.MethodPut
				case "DELETE":
					r.Method = http.MethodDelete
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}
