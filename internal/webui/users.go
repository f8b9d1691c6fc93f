package webui

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	authapi "github.com/avisser/notedeck/auth/api"
	"github.com/avisser/notedeck/internal/logutil"
	"github.com/avisser/notedeck/internal/webui/views"
)

type (
	profileResponse struct {
		Username    string     `json:"username"`
		CreatedAt   time.Time  `json:"createdAt"`
		LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
		NotesCount  int64      `json:"notesCount"`
	}

	statsResponse struct {
		NotesCount     int64      `json:"notesCount"`
		AccountAgeDays int64      `json:"accountAgeDays"`
		CreatedAt      time.Time  `json:"createdAt"`
		LastLoginAt    *time.Time `json:"lastLoginAt,omitempty"`
	}

	messageResponse struct {
		Message string `json:"message"`
	}
)

func (h *handlers) settingsPage(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	identity, _ := authapi.IdentityFromContext(r.Context())
	details, err := h.authenticator.ResolveIdentity(r.Context(), identity)
	if err != nil {
		log.Error().Err(err).Msg("Unable to load user details")
		http.Error(w, "unable to load settings", http.StatusInternalServerError)
		return
	}
	count, err := h.store.CountNotes(r.Context(), identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("Unable to count notes")
		http.Error(w, "unable to load settings", http.StatusInternalServerError)
		return
	}
	views.Render(w, r, http.StatusOK, "settings.html", views.SettingsData{
		User:       identity,
		Details:    details,
		NotesCount: count,
	})
}

func (h *handlers) profile(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	identity, _ := authapi.IdentityFromContext(r.Context())
	details, err := h.authenticator.ResolveIdentity(r.Context(), identity)
	if err != nil {
		log.Error().Err(err).Msg("Unable to load user details")
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "unable to load profile"})
		return
	}
	count, err := h.store.CountNotes(r.Context(), identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("Unable to count notes")
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "unable to load profile"})
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{
		Username:    details.Username,
		CreatedAt:   details.CreatedAt,
		LastLoginAt: nullableTime(details.LastLoginAt),
		NotesCount:  count,
	})
}

func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	identity, _ := authapi.IdentityFromContext(r.Context())
	details, err := h.authenticator.ResolveIdentity(r.Context(), identity)
	if err != nil {
		log.Error().Err(err).Msg("Unable to load user details")
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "unable to load statistics"})
		return
	}
	count, err := h.store.CountNotes(r.Context(), identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("Unable to count notes")
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "unable to load statistics"})
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		NotesCount:     count,
		AccountAgeDays: int64(time.Since(details.CreatedAt).Hours() / 24),
		CreatedAt:      details.CreatedAt,
		LastLoginAt:    nullableTime(details.LastLoginAt),
	})
}

func (h *handlers) verifyPassword(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	identity, _ := authapi.IdentityFromContext(r.Context())
	password, ok := passwordInput(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "password is required"})
		return
	}
	match, err := h.authenticator.VerifyPassword(r.Context(), identity.ID, password)
	if err != nil {
		log.Error().Err(err).Msg("Unable to verify password")
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "unable to verify password"})
		return
	}
	if !match {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "incorrect password"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "password verified"})
}

// deleteAccount removes the user and every note they own, after one
// more password check. The session is torn down before the response.
func (h *handlers) deleteAccount(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	identity, _ := authapi.IdentityFromContext(r.Context())
	password, ok := passwordInput(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, messageResponse{Message: "password is required"})
		return
	}
	match, err := h.authenticator.VerifyPassword(r.Context(), identity.ID, password)
	if err != nil {
		log.Error().Err(err).Msg("Unable to verify password")
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "unable to delete account"})
		return
	}
	if !match {
		writeJSON(w, http.StatusUnauthorized, messageResponse{Message: "incorrect password"})
		return
	}
	err = h.store.DeleteUser(r.Context(), identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("Unable to delete account")
		writeJSON(w, http.StatusInternalServerError, messageResponse{Message: "unable to delete account"})
		return
	}
	err = h.authenticator.Logout(r.Context(), authapi.SessionToken(r))
	if err != nil {
		log.Warn().Err(err).Msg("Unable to unbind session of deleted account")
	}
	h.realm.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "account deleted"})
}

// passwordInput reads the password from either an urlencoded form (the
// settings page) or a json body (script clients).
func passwordInput(r *http.Request) (string, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Password string `json:"password"`
		}
		err := json.NewDecoder(r.Body).Decode(&body)
		if err != nil || body.Password == "" {
			return "", false
		}
		return body.Password, true
	}
	if err := r.ParseForm(); err != nil {
		return "", false
	}
	password := r.PostFormValue("password")
	return password, password != ""
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	var buf bytes.Buffer
	err := json.NewEncoder(&buf).Encode(body)
	if err != nil {
		http.Error(w, "unable to encode response", http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "application/json; charset=utf-8")
	w.Header().Add("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
