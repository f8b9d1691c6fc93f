// Package views renders the server-side HTML pages. Rendering is
// deliberately dumb: every page is a standalone template fed by its
// own data struct, no shared layout machinery.
package views

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/avisser/notedeck/auth"
	"github.com/avisser/notedeck/internal/logutil"
	"github.com/avisser/notedeck/notebook"
)

//go:embed templates/*.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "templates/*.html"))

type (
	LoginData struct {
		Error string
	}

	RegisterData struct {
		Error string
	}

	NotesData struct {
		User  auth.Identity
		Notes []notebook.Note
	}

	// NoteFormData renders both the create form (zero Note) and the
	// edit form (existing Note).
	NoteFormData struct {
		User auth.Identity
		Note notebook.Note
		Edit bool
	}

	SettingsData struct {
		User       auth.Identity
		Details    notebook.User
		NotesCount int64
	}
)

// Render buffers the page before writing so a template failure can
// still turn into a clean 500 instead of a half-written body.
func Render(w http.ResponseWriter, r *http.Request, status int, name string, data interface{}) {
	var buf bytes.Buffer
	err := pages.ExecuteTemplate(&buf, name, data)
	if err != nil {
		log := logutil.GetOrDefault(r.Context())
		log.Error().Err(err).Str("template", name).Msg("Unable to render page")
		http.Error(w, "unable to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
