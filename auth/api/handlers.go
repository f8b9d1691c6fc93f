package api

import (
	"errors"
	"net/http"

	"github.com/avisser/notedeck/auth"
	"github.com/avisser/notedeck/internal/logutil"
	"github.com/avisser/notedeck/internal/webui/views"
	"github.com/julienschmidt/httprouter"
)

type (
	// Handlers exposes the /auth/* form endpoints: the register and
	// login pages and the three POST actions behind them.
	Handlers struct {
		registrar     *auth.Registrar
		authenticator *auth.Authenticator
		realm         *Realm
	}
)

func NewHandlers(registrar *auth.Registrar, authenticator *auth.Authenticator, realm *Realm) *Handlers {
	return &Handlers{
		registrar:     registrar,
		authenticator: authenticator,
		realm:         realm,
	}
}

// Mount attaches the auth endpoints to the router. They are the only
// pages reachable without a session.
func (h *Handlers) Mount(router *httprouter.Router) {
	router.HandlerFunc("GET", "/auth/register", h.registerPage)
	router.HandlerFunc("POST", "/auth/register", h.register)
	router.HandlerFunc("GET", "/auth/login", h.loginPage)
	router.HandlerFunc("POST", "/auth/login", h.login)
	router.HandlerFunc("POST", "/auth/logout", h.logout)
}

func (h *Handlers) registerPage(w http.ResponseWriter, r *http.Request) {
	views.Render(w, r, http.StatusOK, "register.html", views.RegisterData{Error: r.URL.Query().Get("error")})
}

func (h *Handlers) loginPage(w http.ResponseWriter, r *http.Request) {
	views.Render(w, r, http.StatusOK, "login.html", views.LoginData{Error: r.URL.Query().Get("error")})
}

func (h *Handlers) register(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	err := r.ParseForm()
	if err != nil {
		log.Warn().Err(err).Msg("Unable to parse register form")
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	_, err = h.registrar.Register(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if err != nil {
		if msg, ok := auth.UserMessage(err); ok {
			views.Render(w, r, http.StatusBadRequest, "register.html", views.RegisterData{Error: msg})
			return
		}
		log.Error().Err(err).Msg("Unable to register user")
		http.Error(w, "unable to register, try again later", http.StatusInternalServerError)
		return
	}
	// a fresh account is not signed in, the user proves the password
	// once more at the login page
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}

func (h *Handlers) login(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	err := r.ParseForm()
	if err != nil {
		log.Warn().Err(err).Msg("Unable to parse login form")
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	_, token, err := h.authenticator.Login(r.Context(), r.PostFormValue("username"), r.PostFormValue("password"))
	if errors.Is(err, auth.ErrInvalidCredentials) {
		msg, _ := auth.UserMessage(err)
		views.Render(w, r, http.StatusUnauthorized, "login.html", views.LoginData{Error: msg})
		return
	} else if err != nil {
		log.Error().Err(err).Msg("Unable to login user")
		http.Error(w, "unable to login, try again later", http.StatusInternalServerError)
		return
	}
	h.realm.SetSessionCookie(w, token)
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}

func (h *Handlers) logout(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	err := h.authenticator.Logout(r.Context(), SessionToken(r))
	if err != nil {
		// the binding may outlive its ttl, nothing actionable here
		log.Warn().Err(err).Msg("Unable to unbind session")
	}
	h.realm.ClearSessionCookie(w)
	http.Redirect(w, r, loginPath, http.StatusSeeOther)
}
