package store

import (
	"context"
	"time"

	"github.com/gravitational/trace"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"go-campgrounds/models"
)

// MongoReviews implements Reviews on MongoDB. It holds the campgrounds
// collection as well, to keep the parent's reference list in step.
type MongoReviews struct {
	Collection  *mongo.Collection
	Campgrounds *mongo.Collection
}

// NewMongoReviews creates a Reviews store backed by the given database.
func NewMongoReviews(db *mongo.Database) *MongoReviews {
	return &MongoReviews{
		Collection:  db.Collection("reviews"),
		Campgrounds: db.Collection("campgrounds"),
	}
}

func (s *MongoReviews) Insert(ctx context.Context, campgroundID primitive.ObjectID, rev *models.Review) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	// the parent must exist before the review is created
	count, err := s.Campgrounds.CountDocuments(ctx, bson.M{"_id": campgroundID})
	if err != nil {
		return primitive.NilObjectID, trace.Wrap(err)
	}
	if count == 0 {
		return primitive.NilObjectID, trace.NotFound("campground %s not found", campgroundID.Hex())
	}

	result, err := s.Collection.InsertOne(ctx, rev)
	if err != nil {
		return primitive.NilObjectID, trace.Wrap(err)
	}
	id := result.InsertedID.(primitive.ObjectID)
	rev.ID = id

	push := bson.M{"$push": bson.M{"reviews": id}}
	if _, err := s.Campgrounds.UpdateOne(ctx, bson.M{"_id": campgroundID}, push); err != nil {
		return primitive.NilObjectID, trace.Wrap(err)
	}
	return id, nil
}

func (s *MongoReviews) Find(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var rev models.Review
	err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rev)
	if err == mongo.ErrNoDocuments {
		return nil, trace.NotFound("review %s not found", id.Hex())
	}
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &rev, nil
}

// Delete removes the review and pulls its reference from the parent
// campground. The pull runs first so the list never points at a review that
// is already gone.
func (s *MongoReviews) Delete(ctx context.Context, campgroundID, reviewID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pull := bson.M{"$pull": bson.M{"reviews": reviewID}}
	if _, err := s.Campgrounds.UpdateOne(ctx, bson.M{"_id": campgroundID}, pull); err != nil {
		return trace.Wrap(err)
	}

	result, err := s.Collection.DeleteOne(ctx, bson.M{"_id": reviewID})
	if err != nil {
		return trace.Wrap(err)
	}
	if result.DeletedCount == 0 {
		return trace.NotFound("review %s not found", reviewID.Hex())
	}
	return nil
}
