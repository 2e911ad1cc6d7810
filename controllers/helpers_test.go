package controllers_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-campgrounds/controllers"
	"go-campgrounds/middleware"
	"go-campgrounds/models"
	"go-campgrounds/routes"
	"go-campgrounds/utils"
	"go-campgrounds/views"
	"go-campgrounds/web"
)

// memDB backs in-memory implementations of the store interfaces so handler
// tests run against the real router without a database.
type memDB struct {
	mu          sync.Mutex
	campgrounds map[primitive.ObjectID]models.Campground
	reviews     map[primitive.ObjectID]models.Review
	users       map[primitive.ObjectID]models.User
	sessions    map[primitive.ObjectID]models.Session
}

func newMemDB() *memDB {
	return &memDB{
		campgrounds: make(map[primitive.ObjectID]models.Campground),
		reviews:     make(map[primitive.ObjectID]models.Review),
		users:       make(map[primitive.ObjectID]models.User),
		sessions:    make(map[primitive.ObjectID]models.Session),
	}
}

type memCampgrounds struct{ db *memDB }

func (s *memCampgrounds) List(ctx context.Context) ([]models.Campground, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	out := make([]models.Campground, 0, len(s.db.campgrounds))
	for _, cg := range s.db.campgrounds {
		out = append(out, cg)
	}
	return out, nil
}

func (s *memCampgrounds) Insert(ctx context.Context, cg *models.Campground) (primitive.ObjectID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cg.ID = primitive.NewObjectID()
	if cg.Images == nil {
		cg.Images = []models.Image{}
	}
	cg.Reviews = []primitive.ObjectID{}
	s.db.campgrounds[cg.ID] = *cg
	return cg.ID, nil
}

func (s *memCampgrounds) Find(ctx context.Context, id primitive.ObjectID) (*models.Campground, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cg, ok := s.db.campgrounds[id]
	if !ok {
		return nil, trace.NotFound("campground %s not found", id.Hex())
	}
	return &cg, nil
}

func (s *memCampgrounds) Get(ctx context.Context, id primitive.ObjectID) (*models.CampgroundDetail, error) {
	cg, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	detail := &models.CampgroundDetail{Campground: *cg}
	if author, ok := s.db.users[cg.Author]; ok {
		detail.Author = &author
	}
	for _, revID := range cg.Reviews {
		rev, ok := s.db.reviews[revID]
		if !ok {
			continue
		}
		rd := models.ReviewDetail{Review: rev}
		if author, ok := s.db.users[rev.Author]; ok {
			rd.Author = &author
		}
		detail.Reviews = append(detail.Reviews, rd)
	}
	return detail, nil
}

func (s *memCampgrounds) Update(ctx context.Context, id primitive.ObjectID, upd models.CampgroundUpdate) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cg, ok := s.db.campgrounds[id]
	if !ok {
		return trace.NotFound("campground %s not found", id.Hex())
	}
	cg.Title = upd.Title
	cg.Price = upd.Price
	cg.Description = upd.Description
	cg.Location = upd.Location
	cg.Geometry = upd.Geometry
	cg.Images = append(cg.Images, upd.AddImages...)
	if len(upd.DeleteImages) > 0 {
		kept := cg.Images[:0]
		for _, img := range cg.Images {
			remove := false
			for _, name := range upd.DeleteImages {
				if img.Filename == name {
					remove = true
					break
				}
			}
			if !remove {
				kept = append(kept, img)
			}
		}
		cg.Images = kept
	}
	s.db.campgrounds[id] = cg
	return nil
}

func (s *memCampgrounds) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cg, ok := s.db.campgrounds[id]
	if !ok {
		return trace.NotFound("campground %s not found", id.Hex())
	}
	delete(s.db.campgrounds, id)
	for _, revID := range cg.Reviews {
		delete(s.db.reviews, revID)
	}
	return nil
}

type memReviews struct{ db *memDB }

func (s *memReviews) Insert(ctx context.Context, campgroundID primitive.ObjectID, rev *models.Review) (primitive.ObjectID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	cg, ok := s.db.campgrounds[campgroundID]
	if !ok {
		return primitive.NilObjectID, trace.NotFound("campground %s not found", campgroundID.Hex())
	}
	rev.ID = primitive.NewObjectID()
	s.db.reviews[rev.ID] = *rev
	cg.Reviews = append(cg.Reviews, rev.ID)
	s.db.campgrounds[campgroundID] = cg
	return rev.ID, nil
}

func (s *memReviews) Find(ctx context.Context, id primitive.ObjectID) (*models.Review, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	rev, ok := s.db.reviews[id]
	if !ok {
		return nil, trace.NotFound("review %s not found", id.Hex())
	}
	return &rev, nil
}

func (s *memReviews) Delete(ctx context.Context, campgroundID, reviewID primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if _, ok := s.db.reviews[reviewID]; !ok {
		return trace.NotFound("review %s not found", reviewID.Hex())
	}
	delete(s.db.reviews, reviewID)
	if cg, ok := s.db.campgrounds[campgroundID]; ok {
		kept := cg.Reviews[:0]
		for _, id := range cg.Reviews {
			if id != reviewID {
				kept = append(kept, id)
			}
		}
		cg.Reviews = kept
		s.db.campgrounds[campgroundID] = cg
	}
	return nil
}

type memUsers struct{ db *memDB }

func (s *memUsers) Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, existing := range s.db.users {
		if existing.Email == u.Email {
			return primitive.NilObjectID, trace.AlreadyExists("a user with that email already exists")
		}
	}
	u.ID = primitive.NewObjectID()
	s.db.users[u.ID] = *u
	return u.ID, nil
}

func (s *memUsers) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	for _, u := range s.db.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, trace.NotFound("user %q not found", username)
}

func (s *memUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	u, ok := s.db.users[id]
	if !ok {
		return nil, trace.NotFound("user %s not found", id.Hex())
	}
	return &u, nil
}

type memSessions struct{ db *memDB }

func (s *memSessions) Find(ctx context.Context, id primitive.ObjectID) (*models.Session, error) {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	sess, ok := s.db.sessions[id]
	if !ok {
		return nil, trace.NotFound("session %s not found", id.Hex())
	}
	return &sess, nil
}

func (s *memSessions) Save(ctx context.Context, sess *models.Session) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	if sess.ID.IsZero() {
		sess.ID = primitive.NewObjectID()
	}
	s.db.sessions[sess.ID] = *sess
	return nil
}

func (s *memSessions) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()
	delete(s.db.sessions, id)
	return nil
}

type testApp struct {
	handler http.Handler
	db      *memDB
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db := newMemDB()
	campgrounds := &memCampgrounds{db: db}
	reviews := &memReviews{db: db}
	users := &memUsers{db: db}
	sessions := &memSessions{db: db}

	renderer, err := views.New()
	if err != nil {
		t.Fatalf("parsing templates: %v", err)
	}
	adapter := &web.Adapter{Logger: logger, Renderer: renderer}

	router := mux.NewRouter()
	routes.RegisterRoutes(router, adapter,
		&middleware.Auth{Campgrounds: campgrounds, Reviews: reviews, Logger: logger},
		controllers.NewPageController(renderer),
		controllers.NewUserController(users, utils.NewEmailService("", ""), renderer, logger),
		controllers.NewCampgroundController(campgrounds, renderer, logger),
		controllers.NewReviewController(reviews, logger),
	)

	sm := &middleware.SessionManager{
		Sessions: sessions,
		Users:    users,
		Secret:   []byte("test-secret"),
		Logger:   logger,
	}
	return &testApp{
		handler: sm.Middleware(middleware.MethodOverride(router)),
		db:      db,
	}
}

func (app *testApp) do(t *testing.T, method, target string, form url.Values, cookies []*http.Cookie) *http.Response {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.handler.ServeHTTP(rec, req)
	return rec.Result()
}

// register creates an account and returns the session cookies that keep the
// caller logged in.
func (app *testApp) register(t *testing.T, email, username, password string) []*http.Cookie {
	t.Helper()
	resp := app.do(t, "POST", "/register", url.Values{
		"email":    {email},
		"username": {username},
		"password": {password},
	}, nil)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("register %s: got status %d", username, resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/campgrounds" {
		t.Fatalf("register %s: redirected to %s", username, loc)
	}
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatalf("register %s: no session cookie set", username)
	}
	return cookies
}

func campgroundForm() url.Values {
	return url.Values{
		"title":       {"Ridge View"},
		"price":       {"25"},
		"description": {"Quiet spot"},
		"location":    {"Denver, CO"},
		"longitude":   {"-104.9"},
		"latitude":    {"39.7"},
	}
}

// createCampground submits the form and returns the new campground's ID,
// parsed from the redirect target.
func (app *testApp) createCampground(t *testing.T, cookies []*http.Cookie, form url.Values) primitive.ObjectID {
	t.Helper()
	resp := app.do(t, "POST", "/campgrounds", form, cookies)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("create campground: got status %d", resp.StatusCode)
	}
	loc := resp.Header.Get("Location")
	hex := strings.TrimPrefix(loc, "/campgrounds/")
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("create campground: redirected to %s", loc)
	}
	return id
}

// createReview submits a review and returns its ID, looked up in the store.
func (app *testApp) createReview(t *testing.T, cookies []*http.Cookie, campgroundID primitive.ObjectID, body string) primitive.ObjectID {
	t.Helper()
	resp := app.do(t, "POST", "/campgrounds/"+campgroundID.Hex()+"/reviews", url.Values{
		"body":   {body},
		"rating": {"5"},
	}, cookies)
	if resp.StatusCode != http.StatusFound {
		t.Fatalf("create review: got status %d", resp.StatusCode)
	}
	app.db.mu.Lock()
	defer app.db.mu.Unlock()
	for id, rev := range app.db.reviews {
		if rev.Body == body {
			return id
		}
	}
	t.Fatalf("create review: %q not stored", body)
	return primitive.NilObjectID
}

// hasFlash reports whether any session has the given message queued.
func (app *testApp) hasFlash(message string) bool {
	app.db.mu.Lock()
	defer app.db.mu.Unlock()
	for _, sess := range app.db.sessions {
		for _, f := range sess.Flash {
			if strings.Contains(f.Message, message) {
				return true
			}
		}
	}
	return false
}
