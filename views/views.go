// Package views is the view renderer: a view name plus a data context in,
// HTML out. Templates are embedded so the binary is self-contained.
package views

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gravitational/trace"

	"go-campgrounds/models"
)

//go:embed templates/*.html templates/users/*.html templates/campgrounds/*.html
var files embed.FS

var pages = []string{
	"home",
	"error",
	"users/register",
	"users/login",
	"campgrounds/index",
	"campgrounds/new",
	"campgrounds/show",
	"campgrounds/edit",
}

// Data is the context every template executes with.
type Data struct {
	CurrentUser *models.User
	Success     []string
	Error       []string
	Content     interface{}
}

// Renderer holds the parsed template set.
type Renderer struct {
	templates map[string]*template.Template
}

// New parses the embedded templates.
func New() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.ParseFS(files, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, trace.Wrap(err)
		}
		r.templates[page] = t
	}
	return r, nil
}

// Render writes the named view with the given status code.
func (r *Renderer) Render(w http.ResponseWriter, name string, status int, data Data) error {
	t, ok := r.templates[name]
	if !ok {
		return trace.NotFound("no template named %q", name)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return trace.Wrap(t.ExecuteTemplate(w, "layout", data))
}
