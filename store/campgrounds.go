package store

import (
	"context"
	"time"

	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-campgrounds/models"
)

// MongoCampgrounds implements Campgrounds on MongoDB. It also holds the
// reviews and users collections: delete cascades into reviews, and Get
// resolves author references.
type MongoCampgrounds struct {
	Collection *mongo.Collection
	Reviews    *mongo.Collection
	Users      *mongo.Collection
	Logger     *logrus.Logger
}

// NewMongoCampgrounds creates a Campgrounds store backed by the given database.
func NewMongoCampgrounds(db *mongo.Database, logger *logrus.Logger) *MongoCampgrounds {
	return &MongoCampgrounds{
		Collection: db.Collection("campgrounds"),
		Reviews:    db.Collection("reviews"),
		Users:      db.Collection("users"),
		Logger:     logger,
	}
}

func (s *MongoCampgrounds) List(ctx context.Context) ([]models.Campground, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cursor, err := s.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	defer cursor.Close(ctx)

	var campgrounds []models.Campground
	if err := cursor.All(ctx, &campgrounds); err != nil {
		return nil, trace.Wrap(err)
	}
	return campgrounds, nil
}

func (s *MongoCampgrounds) Insert(ctx context.Context, cg *models.Campground) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if cg.Images == nil {
		cg.Images = []models.Image{}
	}
	cg.Reviews = []primitive.ObjectID{}
	result, err := s.Collection.InsertOne(ctx, cg)
	if err != nil {
		return primitive.NilObjectID, trace.Wrap(err)
	}
	id := result.InsertedID.(primitive.ObjectID)
	cg.ID = id
	return id, nil
}

func (s *MongoCampgrounds) Find(ctx context.Context, id primitive.ObjectID) (*models.Campground, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cg models.Campground
	err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&cg)
	if err == mongo.ErrNoDocuments {
		return nil, trace.NotFound("campground %s not found", id.Hex())
	}
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &cg, nil
}

func (s *MongoCampgrounds) Get(ctx context.Context, id primitive.ObjectID) (*models.CampgroundDetail, error) {
	cg, err := s.Find(ctx, id)
	if err != nil {
		return nil, trace.Wrap(err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	detail := &models.CampgroundDetail{Campground: *cg}

	var author models.User
	if err := s.Users.FindOne(ctx, bson.M{"_id": cg.Author}).Decode(&author); err == nil {
		detail.Author = &author
	} else if err != mongo.ErrNoDocuments {
		return nil, trace.Wrap(err)
	}

	if len(cg.Reviews) == 0 {
		return detail, nil
	}

	cursor, err := s.Reviews.Find(ctx, bson.M{"_id": bson.M{"$in": cg.Reviews}})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, trace.Wrap(err)
	}

	authorIDs := make([]primitive.ObjectID, 0, len(reviews))
	for _, rev := range reviews {
		authorIDs = append(authorIDs, rev.Author)
	}
	authors := make(map[primitive.ObjectID]*models.User)
	userCursor, err := s.Users.Find(ctx, bson.M{"_id": bson.M{"$in": authorIDs}})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	defer userCursor.Close(ctx)
	var users []models.User
	if err := userCursor.All(ctx, &users); err != nil {
		return nil, trace.Wrap(err)
	}
	for i := range users {
		authors[users[i].ID] = &users[i]
	}

	for _, rev := range reviews {
		detail.Reviews = append(detail.Reviews, models.ReviewDetail{
			Review: rev,
			Author: authors[rev.Author],
		})
	}
	return detail, nil
}

func (s *MongoCampgrounds) Update(ctx context.Context, id primitive.ObjectID, upd models.CampgroundUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// author, _id and reviews are never touched here
	update := bson.M{
		"$set": bson.M{
			"title":       upd.Title,
			"price":       upd.Price,
			"description": upd.Description,
			"location":    upd.Location,
			"geometry":    upd.Geometry,
		},
	}
	if len(upd.AddImages) > 0 {
		update["$push"] = bson.M{"images": bson.M{"$each": upd.AddImages}}
	}

	result, err := s.Collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return trace.Wrap(err)
	}
	if result.MatchedCount == 0 {
		return trace.NotFound("campground %s not found", id.Hex())
	}

	if len(upd.DeleteImages) > 0 {
		pull := bson.M{"$pull": bson.M{"images": bson.M{"filename": bson.M{"$in": upd.DeleteImages}}}}
		if _, err := s.Collection.UpdateOne(ctx, bson.M{"_id": id}, pull); err != nil {
			return trace.Wrap(err)
		}
	}
	return nil
}

// Delete removes the campground and every review its list references. The
// review cleanup runs after the parent delete; a failure there is surfaced,
// not swallowed.
func (s *MongoCampgrounds) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var cg models.Campground
	err := s.Collection.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&cg)
	if err == mongo.ErrNoDocuments {
		return trace.NotFound("campground %s not found", id.Hex())
	}
	if err != nil {
		return trace.Wrap(err)
	}

	if len(cg.Reviews) == 0 {
		return nil
	}
	if _, err := s.Reviews.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": cg.Reviews}}); err != nil {
		s.Logger.WithFields(logrus.Fields{
			"campground": id.Hex(),
			"reviews":    len(cg.Reviews),
		}).WithError(err).Error("cascade delete of reviews failed")
		return trace.Wrap(err)
	}
	return nil
}
