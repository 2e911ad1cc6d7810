package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-campgrounds/models"
)

// Campgrounds is the campground half of the entity store. Delete cascades to
// the reviews the campground references.
type Campgrounds interface {
	List(ctx context.Context) ([]models.Campground, error)
	Insert(ctx context.Context, cg *models.Campground) (primitive.ObjectID, error)
	// Find returns the raw document, used for ownership checks.
	Find(ctx context.Context, id primitive.ObjectID) (*models.Campground, error)
	// Get returns the campground with its author and reviews resolved.
	Get(ctx context.Context, id primitive.ObjectID) (*models.CampgroundDetail, error)
	Update(ctx context.Context, id primitive.ObjectID, upd models.CampgroundUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Reviews maintains review documents together with the reference list on the
// owning campground.
type Reviews interface {
	Insert(ctx context.Context, campgroundID primitive.ObjectID, rev *models.Review) (primitive.ObjectID, error)
	Find(ctx context.Context, id primitive.ObjectID) (*models.Review, error)
	Delete(ctx context.Context, campgroundID, reviewID primitive.ObjectID) error
}

// Users stores accounts. Insert fails with an AlreadyExists error on a
// duplicate email.
type Users interface {
	Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Sessions persists server-side session state.
type Sessions interface {
	Find(ctx context.Context, id primitive.ObjectID) (*models.Session, error)
	Save(ctx context.Context, s *models.Session) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}
