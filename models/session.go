package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Flash kinds shown to the user on the next rendered page.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Flash is one queued flash message.
type Flash struct {
	Kind    string `bson:"kind" json:"kind"`
	Message string `bson:"message" json:"message"`
}

// Session is the server-side session state tied to a signed cookie. The
// cookie carries only the session ID; everything else lives here.
type Session struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	User      *primitive.ObjectID `bson:"user,omitempty" json:"user,omitempty"`
	ReturnTo  string              `bson:"return_to,omitempty" json:"return_to,omitempty"`
	Flash     []Flash             `bson:"flash" json:"flash"`
	ExpiresAt time.Time           `bson:"expires_at" json:"expires_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}
