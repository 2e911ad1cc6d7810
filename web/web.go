// Package web adapts error-returning handlers onto net/http and is the one
// place errors are converted into responses.
package web

import (
	"net/http"

	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"

	"go-campgrounds/middleware"
	"go-campgrounds/models"
	"go-campgrounds/views"
)

// Handler is an HTTP handler that reports failure instead of writing it.
type Handler func(http.ResponseWriter, *http.Request) error

// ErrorPage is the error view's content.
type ErrorPage struct {
	Status  int
	Message string
}

// Adapter converts a Handler's error into the response the user sees:
// client errors become a flash plus a redirect, everything else is logged
// and rendered as a generic error page.
type Adapter struct {
	Logger   *logrus.Logger
	Renderer *views.Renderer
}

// H wraps a Handler for registration on the router.
func (a *Adapter) H(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		err := h(w, r)
		if err == nil {
			return
		}
		switch {
		case trace.IsNotFound(err):
			a.flashRedirect(w, r, trace.UserMessage(err), "/campgrounds", http.StatusFound)
		case trace.IsAccessDenied(err):
			a.flashRedirect(w, r, trace.UserMessage(err), a.backTo(r, "/campgrounds"), http.StatusFound)
		case trace.IsBadParameter(err), trace.IsAlreadyExists(err):
			a.flashRedirect(w, r, trace.UserMessage(err), a.backTo(r, "/campgrounds"), http.StatusSeeOther)
		default:
			a.Logger.WithError(err).WithFields(logrus.Fields{
				"method": r.Method,
				"path":   r.URL.Path,
			}).Error("request failed")
			a.RenderError(w, r, http.StatusInternalServerError, "Oh No, Something Went Wrong!")
		}
	})
}

// RenderError writes the error view. The message stays generic for server
// errors so internals never leak.
func (a *Adapter) RenderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	if err := a.Renderer.Render(w, "error", status, views.Data{
		CurrentUser: middleware.CurrentUser(r),
		Content:     ErrorPage{Status: status, Message: message},
	}); err != nil {
		a.Logger.WithError(err).Error("rendering error view failed")
	}
}

func (a *Adapter) flashRedirect(w http.ResponseWriter, r *http.Request, message, location string, status int) {
	if state := middleware.SessionFrom(r); state != nil {
		if err := state.AddFlash(r.Context(), models.FlashError, message); err != nil {
			a.Logger.WithError(err).Error("saving flash failed")
		}
	}
	http.Redirect(w, r, location, status)
}

// backTo sends form errors back to the page the form came from.
func (a *Adapter) backTo(r *http.Request, fallback string) string {
	if ref := r.Header.Get("Referer"); ref != "" {
		return ref
	}
	return fallback
}
