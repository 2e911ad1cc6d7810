package controllers

import (
	"net/http"

	"go-campgrounds/views"
)

// PageController serves the static-ish pages
type PageController struct {
	Renderer *views.Renderer
}

// NewPageController creates a new PageController
func NewPageController(renderer *views.Renderer) *PageController {
	return &PageController{Renderer: renderer}
}

// Home renders the landing page.
func (pc *PageController) Home(w http.ResponseWriter, r *http.Request) error {
	return render(pc.Renderer, w, r, "home", http.StatusOK, nil)
}
