package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-campgrounds/models"
	"go-campgrounds/store"
	"go-campgrounds/utils"
)

// CookieName is the session cookie's name.
const CookieName = "session"

type contextKey string

const (
	sessionContextKey = contextKey("session")
	userContextKey    = contextKey("user")
)

// State is the per-request session state. Mutations write through to the
// session store so nothing survives only in process memory.
type State struct {
	store     store.Sessions
	secret    []byte
	w         http.ResponseWriter
	sess      *models.Session
	cookieSet bool
}

// SessionManager loads session state from the signed cookie and threads it
// through the request context.
type SessionManager struct {
	Sessions store.Sessions
	Users    store.Users
	Secret   []byte
	Logger   *logrus.Logger
}

// Middleware wraps the whole router: every request gets a session State and,
// when the session carries an identity, the current user.
func (m *SessionManager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := &State{store: m.Sessions, secret: m.Secret, w: w}

		if cookie, err := r.Cookie(CookieName); err == nil {
			if id, err := utils.ParseSessionID(cookie.Value, m.Secret); err == nil {
				if sess, err := m.Sessions.Find(r.Context(), id); err == nil && !sess.Expired() {
					state.sess = sess
					state.cookieSet = true
				}
			}
		}
		if state.sess == nil {
			state.sess = &models.Session{ExpiresAt: time.Now().Add(utils.SessionLifetime)}
		}

		ctx := context.WithValue(r.Context(), sessionContextKey, state)
		if state.sess.User != nil {
			user, err := m.Users.FindByID(ctx, *state.sess.User)
			if err == nil {
				ctx = context.WithValue(ctx, userContextKey, user)
			} else if !trace.IsNotFound(err) {
				m.Logger.WithError(err).Error("loading session user failed")
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SessionFrom returns the request's session state.
func SessionFrom(r *http.Request) *State {
	state, _ := r.Context().Value(sessionContextKey).(*State)
	return state
}

// CurrentUser returns the authenticated user, or nil.
func CurrentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// UserID returns the session identity, or nil.
func (s *State) UserID() *primitive.ObjectID {
	return s.sess.User
}

// SetUser establishes the session identity (login).
func (s *State) SetUser(ctx context.Context, id primitive.ObjectID) error {
	s.sess.User = &id
	return s.persist(ctx)
}

// ClearUser drops the session identity. Clearing an already-anonymous
// session is not an error.
func (s *State) ClearUser(ctx context.Context) error {
	if s.sess.User == nil {
		return nil
	}
	s.sess.User = nil
	return s.persist(ctx)
}

// SetReturnTo remembers the destination to land on after login.
func (s *State) SetReturnTo(ctx context.Context, dest string) error {
	s.sess.ReturnTo = dest
	return s.persist(ctx)
}

// ConsumeReturnTo returns the remembered destination and clears the slot.
func (s *State) ConsumeReturnTo(ctx context.Context) (string, error) {
	dest := s.sess.ReturnTo
	if dest == "" {
		return "", nil
	}
	s.sess.ReturnTo = ""
	return dest, s.persist(ctx)
}

// AddFlash queues a flash message for the next rendered page.
func (s *State) AddFlash(ctx context.Context, kind, message string) error {
	s.sess.Flash = append(s.sess.Flash, models.Flash{Kind: kind, Message: message})
	return s.persist(ctx)
}

// PopFlashes returns the queued flash messages and clears them.
func (s *State) PopFlashes(ctx context.Context) ([]models.Flash, error) {
	if len(s.sess.Flash) == 0 {
		return nil, nil
	}
	flashes := s.sess.Flash
	s.sess.Flash = nil
	return flashes, s.persist(ctx)
}

func (s *State) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.sess); err != nil {
		return trace.Wrap(err)
	}
	if s.cookieSet {
		return nil
	}
	value, err := utils.SignSessionID(s.sess.ID, s.secret)
	if err != nil {
		return trace.Wrap(err)
	}
	http.SetCookie(s.w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Expires:  s.sess.ExpiresAt,
	})
	s.cookieSet = true
	return nil
}
