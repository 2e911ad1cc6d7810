package controllers

import (
	"net/http"

	"github.com/gravitational/trace"

	"go-campgrounds/middleware"
	"go-campgrounds/models"
	"go-campgrounds/views"
)

// render executes a view with the base context every page needs: the current
// user and the flashed messages, which are consumed here.
func render(rd *views.Renderer, w http.ResponseWriter, r *http.Request, name string, status int, content interface{}) error {
	data := views.Data{
		CurrentUser: middleware.CurrentUser(r),
		Content:     content,
	}
	if state := middleware.SessionFrom(r); state != nil {
		flashes, err := state.PopFlashes(r.Context())
		if err != nil {
			return trace.Wrap(err)
		}
		for _, f := range flashes {
			if f.Kind == models.FlashSuccess {
				data.Success = append(data.Success, f.Message)
			} else {
				data.Error = append(data.Error, f.Message)
			}
		}
	}
	return trace.Wrap(rd.Render(w, name, status, data))
}
