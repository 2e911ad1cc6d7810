package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review represents a review left on a campground
type Review struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Body   string             `bson:"body" json:"body"`
	Rating int                `bson:"rating" json:"rating"`
	Author primitive.ObjectID `bson:"author" json:"author"`
}

// ReviewDetail is a review with its author resolved.
type ReviewDetail struct {
	Review
	Author *User
}
