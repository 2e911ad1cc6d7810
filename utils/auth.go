package utils

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gravitational/trace"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionLifetime is how long a session cookie and its server-side state
// stay valid.
const SessionLifetime = 7 * 24 * time.Hour

// SessionClaims is what the signed session cookie carries: only the ID of
// the server-side session document.
type SessionClaims struct {
	SessionID string `json:"sid"`
	jwt.StandardClaims
}

// SignSessionID produces the signed cookie value for a session document.
func SignSessionID(sessionID primitive.ObjectID, secret []byte) (string, error) {
	claims := &SessionClaims{
		SessionID: sessionID.Hex(),
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(SessionLifetime).Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", trace.Wrap(err)
	}
	return signed, nil
}

// ParseSessionID verifies a cookie value and returns the session document ID.
func ParseSessionID(value string, secret []byte) (primitive.ObjectID, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, trace.BadParameter("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || !token.Valid {
		return primitive.NilObjectID, trace.BadParameter("invalid session cookie")
	}
	id, err := primitive.ObjectIDFromHex(claims.SessionID)
	if err != nil {
		return primitive.NilObjectID, trace.BadParameter("invalid session id")
	}
	return id, nil
}
