package webui

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	authapi "github.com/avisser/notedeck/auth/api"
	"github.com/avisser/notedeck/internal/logutil"
	"github.com/avisser/notedeck/internal/webui/views"
	"github.com/avisser/notedeck/notebook"
	"github.com/julienschmidt/httprouter"
)

func (h *handlers) listNotes(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	identity, _ := authapi.IdentityFromContext(r.Context())
	notes, err := h.store.ListNotes(r.Context(), identity.ID)
	if err != nil {
		log.Error().Err(err).Msg("Unable to list notes")
		http.Error(w, "unable to load notes", http.StatusInternalServerError)
		return
	}
	views.Render(w, r, http.StatusOK, "notes.html", views.NotesData{User: identity, Notes: notes})
}

func (h *handlers) newNoteForm(w http.ResponseWriter, r *http.Request) {
	identity, _ := authapi.IdentityFromContext(r.Context())
	views.Render(w, r, http.StatusOK, "note_form.html", views.NoteFormData{User: identity})
}

func (h *handlers) editNoteForm(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	identity, _ := authapi.IdentityFromContext(r.Context())
	noteID, ok := notePathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	note, err := h.store.FindNote(r.Context(), identity.ID, noteID)
	var missing notebook.NoteNotFound
	if errors.As(err, &missing) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		log.Error().Err(err).Msg("Unable to load note")
		http.Error(w, "unable to load note", http.StatusInternalServerError)
		return
	}
	views.Render(w, r, http.StatusOK, "note_form.html", views.NoteFormData{User: identity, Note: note, Edit: true})
}

func (h *handlers) createNote(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	identity, _ := authapi.IdentityFromContext(r.Context())
	title, content, ok := noteFormInput(r)
	if !ok {
		http.Error(w, "title and content are required", http.StatusBadRequest)
		return
	}
	_, err := h.store.CreateNote(r.Context(), identity.ID, title, content)
	if err != nil {
		log.Error().Err(err).Msg("Unable to create note")
		http.Error(w, "unable to create note", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}

func (h *handlers) updateNote(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	identity, _ := authapi.IdentityFromContext(r.Context())
	noteID, ok := notePathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	title, content, ok := noteFormInput(r)
	if !ok {
		http.Error(w, "title and content are required", http.StatusBadRequest)
		return
	}
	err := h.store.UpdateNote(r.Context(), identity.ID, noteID, title, content)
	var missing notebook.NoteNotFound
	if errors.As(err, &missing) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		log.Error().Err(err).Msg("Unable to update note")
		http.Error(w, "unable to update note", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}

func (h *handlers) deleteNote(w http.ResponseWriter, r *http.Request) {
	log, r := logutil.WithRequest(r)
	identity, _ := authapi.IdentityFromContext(r.Context())
	noteID, ok := notePathID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	err := h.store.DeleteNote(r.Context(), identity.ID, noteID)
	var missing notebook.NoteNotFound
	if errors.As(err, &missing) {
		http.NotFound(w, r)
		return
	} else if err != nil {
		log.Error().Err(err).Msg("Unable to delete note")
		http.Error(w, "unable to delete note", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/notes", http.StatusSeeOther)
}

func notePathID(r *http.Request) (int64, bool) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func noteFormInput(r *http.Request) (title, content string, ok bool) {
	if err := r.ParseForm(); err != nil {
		return "", "", false
	}
	title = strings.TrimSpace(r.PostFormValue("title"))
	content = strings.TrimSpace(r.PostFormValue("content"))
	if title == "" || content == "" {
		return "", "", false
	}
	return title, content, true
}
