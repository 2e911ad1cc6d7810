package store

import (
	"context"
	"time"

	"github.com/gravitational/trace"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-campgrounds/models"
)

// MongoSessions implements Sessions on MongoDB. Expired documents are also
// reaped by the TTL index created in EnsureIndexes.
type MongoSessions struct {
	Collection *mongo.Collection
}

// NewMongoSessions creates a Sessions store backed by the given database.
func NewMongoSessions(db *mongo.Database) *MongoSessions {
	return &MongoSessions{Collection: db.Collection("sessions")}
}

func (s *MongoSessions) Find(ctx context.Context, id primitive.ObjectID) (*models.Session, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var sess models.Session
	err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&sess)
	if err == mongo.ErrNoDocuments {
		return nil, trace.NotFound("session %s not found", id.Hex())
	}
	if err != nil {
		return nil, trace.Wrap(err)
	}
	return &sess, nil
}

func (s *MongoSessions) Save(ctx context.Context, sess *models.Session) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if sess.ID.IsZero() {
		sess.ID = primitive.NewObjectID()
	}
	if sess.Flash == nil {
		sess.Flash = []models.Flash{}
	}
	opts := options.Replace().SetUpsert(true)
	_, err := s.Collection.ReplaceOne(ctx, bson.M{"_id": sess.ID}, sess, opts)
	return trace.Wrap(err)
}

func (s *MongoSessions) Delete(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := s.Collection.DeleteOne(ctx, bson.M{"_id": id})
	return trace.Wrap(err)
}
