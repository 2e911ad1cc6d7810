package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"go-campgrounds/controllers"
	"go-campgrounds/middleware"
	"go-campgrounds/web"
)

// RegisterRoutes sets up all the routes for the application. Gated routes
// compose authentication before ownership before the handler, so each check
// short-circuits alone.
func RegisterRoutes(
	router *mux.Router,
	a *web.Adapter,
	auth *middleware.Auth,
	pages *controllers.PageController,
	users *controllers.UserController,
	campgrounds *controllers.CampgroundController,
	reviews *controllers.ReviewController,
) {
	// Public routes
	router.Handle("/", a.H(pages.Home)).Methods("GET")
	router.Handle("/register", a.H(users.RenderRegister)).Methods("GET")
	router.Handle("/register", a.H(users.Register)).Methods("POST")
	router.Handle("/login", a.H(users.RenderLogin)).Methods("GET")
	router.Handle("/login", a.H(users.Login)).Methods("POST")
	router.Handle("/logout", auth.RequireLogin(a.H(users.Logout))).Methods("GET")

	// Campground routes
	router.Handle("/campgrounds", a.H(campgrounds.Index)).Methods("GET")
	router.Handle("/campgrounds/new", auth.RequireLogin(a.H(campgrounds.RenderNew))).Methods("GET")
	router.Handle("/campgrounds", auth.RequireLogin(a.H(campgrounds.Create))).Methods("POST")
	router.Handle("/campgrounds/{id}", a.H(campgrounds.Show)).Methods("GET")
	router.Handle("/campgrounds/{id}/edit",
		auth.RequireLogin(auth.CampgroundAuthor(a.H(campgrounds.RenderEdit)))).Methods("GET")
	router.Handle("/campgrounds/{id}",
		auth.RequireLogin(auth.CampgroundAuthor(a.H(campgrounds.Update)))).Methods("PUT")
	router.Handle("/campgrounds/{id}",
		auth.RequireLogin(auth.CampgroundAuthor(a.H(campgrounds.Delete)))).Methods("DELETE")

	// Review routes
	router.Handle("/campgrounds/{id}/reviews", auth.RequireLogin(a.H(reviews.Create))).Methods("POST")
	router.Handle("/campgrounds/{id}/reviews/{reviewId}",
		auth.RequireLogin(auth.ReviewAuthor(a.H(reviews.Delete)))).Methods("DELETE")

	// Everything unmatched is a 404 error page
	notFound := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		a.RenderError(w, r, http.StatusNotFound, "Page Not Found")
	})
	router.NotFoundHandler = notFound
	router.MethodNotAllowedHandler = notFound
}
