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
)

// ReviewController handles review-related requests
type ReviewController struct {
	Reviews store.Reviews
	Logger  *logrus.Logger
}

// NewReviewController creates a new ReviewController
func NewReviewController(reviews store.Reviews, logger *logrus.Logger) *ReviewController {
	return &ReviewController{Reviews: reviews, Logger: logger}
}

// Create adds a review to an existing campground. The author is always the
// session identity.
func (rc *ReviewController) Create(w http.ResponseWriter, r *http.Request) error {
	campgroundID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		return trace.NotFound("Cannot find that campground!")
	}
	if err := r.ParseForm(); err != nil {
		return trace.BadParameter("invalid form body")
	}
	f, err := forms.DecodeReview(r.PostForm)
	if err != nil {
		return trace.Wrap(err)
	}

	user := middleware.CurrentUser(r)
	rev := &models.Review{
		Body:   f.Body,
		Rating: f.Rating,
		Author: user.ID,
	}
	if _, err := rc.Reviews.Insert(r.Context(), campgroundID, rev); err != nil {
		return trace.Wrap(err)
	}

	if err := middleware.SessionFrom(r).AddFlash(r.Context(), models.FlashSuccess, "Created new review!"); err != nil {
		return trace.Wrap(err)
	}
	http.Redirect(w, r, "/campgrounds/"+campgroundID.Hex(), http.StatusFound)
	return nil
}

// Delete removes a review and its reference on the parent campground.
// Ownership was checked by the route.
func (rc *ReviewController) Delete(w http.ResponseWriter, r *http.Request) error {
	vars := mux.Vars(r)
	campgroundID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		return trace.NotFound("Cannot find that campground!")
	}
	reviewID, err := primitive.ObjectIDFromHex(vars["reviewId"])
	if err != nil {
		return trace.NotFound("Cannot find that review!")
	}

	if err := rc.Reviews.Delete(r.Context(), campgroundID, reviewID); err != nil {
		return trace.Wrap(err)
	}

	if err := middleware.SessionFrom(r).AddFlash(r.Context(), models.FlashSuccess, "Successfully deleted review"); err != nil {
		return trace.Wrap(err)
	}
	http.Redirect(w, r, "/campgrounds/"+campgroundID.Hex(), http.StatusFound)
	return nil
}
