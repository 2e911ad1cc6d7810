package controllers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-campgrounds/forms"
	"go-campgrounds/middleware"
	"go-campgrounds/models"
	"go-campgrounds/store"
	"go-campgrounds/views"
)

// CampgroundController handles campground-related requests
type CampgroundController struct {
	Campgrounds store.Campgrounds
	Renderer    *views.Renderer
	Logger      *logrus.Logger
}

// NewCampgroundController creates a new CampgroundController
func NewCampgroundController(campgrounds store.Campgrounds, renderer *views.Renderer, logger *logrus.Logger) *CampgroundController {
	return &CampgroundController{Campgrounds: campgrounds, Renderer: renderer, Logger: logger}
}

// Index lists all campgrounds. No auth required.
func (cc *CampgroundController) Index(w http.ResponseWriter, r *http.Request) error {
	campgrounds, err := cc.Campgrounds.List(r.Context())
	if err != nil {
		return trace.Wrap(err)
	}
	return render(cc.Renderer, w, r, "campgrounds/index", http.StatusOK, campgrounds)
}

// RenderNew shows the creation form.
func (cc *CampgroundController) RenderNew(w http.ResponseWriter, r *http.Request) error {
	return render(cc.Renderer, w, r, "campgrounds/new", http.StatusOK, nil)
}

// Create persists a new campground. The author is always the session
// identity, never anything in the body.
func (cc *CampgroundController) Create(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return trace.BadParameter("invalid form body")
	}
	f, err := forms.DecodeCampground(r.PostForm)
	if err != nil {
		return trace.Wrap(err)
	}

	user := middleware.CurrentUser(r)
	cg := &models.Campground{
		Title:       f.Title,
		Price:       *f.Price,
		Description: f.Description,
		Location:    f.Location,
		Images:      f.Images(),
		Author:      user.ID,
		Geometry:    models.NewPoint(*f.Longitude, *f.Latitude),
	}
	id, err := cc.Campgrounds.Insert(r.Context(), cg)
	if err != nil {
		return trace.Wrap(err)
	}

	if err := middleware.SessionFrom(r).AddFlash(r.Context(), models.FlashSuccess, "Successfully made a new campground!"); err != nil {
		return trace.Wrap(err)
	}
	http.Redirect(w, r, "/campgrounds/"+id.Hex(), http.StatusFound)
	return nil
}

// Show renders the detail page with resolved author and reviews.
func (cc *CampgroundController) Show(w http.ResponseWriter, r *http.Request) error {
	id, err := campgroundID(r)
	if err != nil {
		return trace.Wrap(err)
	}
	detail, err := cc.Campgrounds.Get(r.Context(), id)
	if err != nil {
		return trace.Wrap(err)
	}
	return render(cc.Renderer, w, r, "campgrounds/show", http.StatusOK, detail)
}

// RenderEdit shows the edit form. Ownership was checked by the route.
func (cc *CampgroundController) RenderEdit(w http.ResponseWriter, r *http.Request) error {
	id, err := campgroundID(r)
	if err != nil {
		return trace.Wrap(err)
	}
	cg, err := cc.Campgrounds.Find(r.Context(), id)
	if err != nil {
		return trace.Wrap(err)
	}
	return render(cc.Renderer, w, r, "campgrounds/edit", http.StatusOK, cg)
}

// Update replaces the mutable fields. Ownership was checked by the route.
func (cc *CampgroundController) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := campgroundID(r)
	if err != nil {
		return trace.Wrap(err)
	}
	if err := r.ParseForm(); err != nil {
		return trace.BadParameter("invalid form body")
	}
	f, err := forms.DecodeCampground(r.PostForm)
	if err != nil {
		return trace.Wrap(err)
	}
	if err := cc.Campgrounds.Update(r.Context(), id, f.Update()); err != nil {
		return trace.Wrap(err)
	}

	if err := middleware.SessionFrom(r).AddFlash(r.Context(), models.FlashSuccess, "Successfully updated campground!"); err != nil {
		return trace.Wrap(err)
	}
	http.Redirect(w, r, "/campgrounds/"+id.Hex(), http.StatusFound)
	return nil
}

// Delete removes the campground and cascades to its reviews. Ownership was
// checked by the route.
func (cc *CampgroundController) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := campgroundID(r)
	if err != nil {
		return trace.Wrap(err)
	}
	if err := cc.Campgrounds.Delete(r.Context(), id); err != nil {
		return trace.Wrap(err)
	}

	if err := middleware.SessionFrom(r).AddFlash(r.Context(), models.FlashSuccess, "Successfully deleted campground"); err != nil {
		return trace.Wrap(err)
	}
	http.Redirect(w, r, "/campgrounds", http.StatusFound)
	return nil
}

func campgroundID(r *http.Request) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		return primitive.NilObjectID, trace.NotFound("Cannot find that campground!")
	}
	return id, nil
}
