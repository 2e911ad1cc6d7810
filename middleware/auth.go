package middleware

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-campgrounds/models"
	"go-campgrounds/store"
)

// Auth gates mutating routes: RequireLogin checks that a session identity
// exists, the author wrappers check that it owns the target entity. The
// checks run in that order, and each short-circuits with a redirect.
type Auth struct {
	Campgrounds store.Campgrounds
	Reviews     store.Reviews
	Logger      *logrus.Logger
}

// RequireLogin redirects anonymous callers to the login page, remembering
// where they were headed. The login page and the root are never remembered,
// so login can't redirect back into itself.
func (a *Auth) RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if CurrentUser(r) != nil {
			next.ServeHTTP(w, r)
			return
		}
		state := SessionFrom(r)
		dest := r.URL.RequestURI()
		if dest != "/login" && dest != "/" {
			if err := state.SetReturnTo(r.Context(), dest); err != nil {
				a.Logger.WithError(err).Error("saving return-to destination failed")
			}
		}
		if err := state.AddFlash(r.Context(), models.FlashError, "You must be signed in first"); err != nil {
			a.Logger.WithError(err).Error("saving flash failed")
		}
		http.Redirect(w, r, "/login", http.StatusFound)
	})
}

// CampgroundAuthor allows the request through only when the authenticated
// user is the campground's author. A missing campground is reported as not
// found before ownership is considered.
func (a *Auth) CampgroundAuthor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
		if err != nil {
			a.reject(w, r, "Cannot find that campground!", "/campgrounds")
			return
		}
		cg, err := a.Campgrounds.Find(r.Context(), id)
		if trace.IsNotFound(err) {
			a.reject(w, r, "Cannot find that campground!", "/campgrounds")
			return
		}
		if err != nil {
			a.Logger.WithError(err).Error("loading campground for ownership check failed")
			http.Error(w, "Oh No, Something Went Wrong!", http.StatusInternalServerError)
			return
		}
		if cg.Author != user.ID {
			a.reject(w, r, "You do not have permission to do that!", "/campgrounds/"+id.Hex())
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ReviewAuthor is the review analogue of CampgroundAuthor.
func (a *Auth) ReviewAuthor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := CurrentUser(r)
		vars := mux.Vars(r)
		detail := "/campgrounds/" + vars["id"]
		reviewID, err := primitive.ObjectIDFromHex(vars["reviewId"])
		if err != nil {
			a.reject(w, r, "Cannot find that review!", detail)
			return
		}
		rev, err := a.Reviews.Find(r.Context(), reviewID)
		if trace.IsNotFound(err) {
			a.reject(w, r, "Cannot find that review!", detail)
			return
		}
		if err != nil {
			a.Logger.WithError(err).Error("loading review for ownership check failed")
			http.Error(w, "Oh No, Something Went Wrong!", http.StatusInternalServerError)
			return
		}
		if rev.Author != user.ID {
			a.reject(w, r, "You do not have permission to do that!", detail)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Auth) reject(w http.ResponseWriter, r *http.Request, message, location string) {
	if err := SessionFrom(r).AddFlash(r.Context(), models.FlashError, message); err != nil {
		a.Logger.WithError(err).Error("saving flash failed")
	}
	http.Redirect(w, r, location, http.StatusFound)
}
