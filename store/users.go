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

// MongoUsers implements Users on MongoDB.
type MongoUsers struct {
	Collection *mongo.Collection
}

// NewMongoUsers creates a Users store backed by the given database.
func NewMongoUsers(db *mongo.Database) *MongoUsers {
	return &MongoUsers{Collection: db.Collection("users")}
}

func (s *MongoUsers) Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := s.Collection.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, trace.AlreadyExists("a user with that email already exists")
	}
	if err != nil {
		return primitive.NilObjectID, trace.Wrap(err)
	}
	id := result.InsertedID.(primitive.ObjectID)
	u.ID = id
	return id, nil
}

func (s *MongoUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u models.User
	err := s.Collection.FindOne(ctx, bson.M{"username": username}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, trace.NotFound("user %q not found", username)
	}
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &u, nil
}

func (s *MongoUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var u models.User
	err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, trace.NotFound("user %s not found", id.Hex())
	}
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &u, nil
}
