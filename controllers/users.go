package controllers

import (
	"net/http"

	"github.com/gravitational/trace"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"go-campgrounds/forms"
	"go-campgrounds/middleware"
	"go-campgrounds/models"
	"go-campgrounds/store"
	"go-campgrounds/utils"
	"go-campgrounds/views"
)

// UserController handles registration, login and logout
type UserController struct {
	Users    store.Users
	Email    *utils.EmailService
	Renderer *views.Renderer
	Logger   *logrus.Logger
}

// NewUserController creates a new UserController
func NewUserController(users store.Users, email *utils.EmailService, renderer *views.Renderer, logger *logrus.Logger) *UserController {
	return &UserController{Users: users, Email: email, Renderer: renderer, Logger: logger}
}

// RenderRegister shows the registration form.
func (uc *UserController) RenderRegister(w http.ResponseWriter, r *http.Request) error {
	return render(uc.Renderer, w, r, "users/register", http.StatusOK, nil)
}

// Register creates the account, logs the new user in and sends them to the
// listing page. A duplicate email creates nothing.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return trace.BadParameter("invalid form body")
	}
	f, err := forms.DecodeRegister(r.PostForm)
	if err != nil {
		return trace.Wrap(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), bcrypt.DefaultCost)
	if err != nil {
		return trace.Wrap(err)
	}
	user := &models.User{
		Email:    f.Email,
		Username: f.Username,
		Password: string(hash),
	}
	id, err := uc.Users.Insert(r.Context(), user)
	if err != nil {
		return trace.Wrap(err)
	}

	state := middleware.SessionFrom(r)
	if err := state.SetUser(r.Context(), id); err != nil {
		return trace.Wrap(err)
	}
	if err := state.AddFlash(r.Context(), models.FlashSuccess, "Welcome to Campgrounds!"); err != nil {
		return trace.Wrap(err)
	}

	// best effort: a failed welcome email never fails the registration
	if err := uc.Email.SendWelcomeEmail(user.Email, user.Username); err != nil {
		uc.Logger.WithError(err).WithField("email", user.Email).Warn("sending welcome email failed")
	}

	http.Redirect(w, r, "/campgrounds", http.StatusFound)
	return nil
}

// RenderLogin shows the login form.
func (uc *UserController) RenderLogin(w http.ResponseWriter, r *http.Request) error {
	return render(uc.Renderer, w, r, "users/login", http.StatusOK, nil)
}

// Login verifies the credentials and returns the caller to the remembered
// destination. Unknown username and wrong password report the same error.
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return trace.BadParameter("invalid form body")
	}
	f, err := forms.DecodeLogin(r.PostForm)
	if err != nil {
		return trace.Wrap(err)
	}

	user, err := uc.Users.FindByUsername(r.Context(), f.Username)
	if trace.IsNotFound(err) {
		return trace.AccessDenied("Invalid username or password")
	}
	if err != nil {
		return trace.Wrap(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(f.Password)) != nil {
		return trace.AccessDenied("Invalid username or password")
	}

	state := middleware.SessionFrom(r)
	if err := state.SetUser(r.Context(), user.ID); err != nil {
		return trace.Wrap(err)
	}
	if err := state.AddFlash(r.Context(), models.FlashSuccess, "Welcome back!"); err != nil {
		return trace.Wrap(err)
	}

	dest, err := state.ConsumeReturnTo(r.Context())
	if err != nil {
		return trace.Wrap(err)
	}
	if dest == "" {
		dest = "/campgrounds"
	}
	http.Redirect(w, r, dest, http.StatusFound)
	return nil
}

// Logout clears the session identity. Logging out twice is not an error.
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) error {
	state := middleware.SessionFrom(r)
	if err := state.ClearUser(r.Context()); err != nil {
		return trace.Wrap(err)
	}
	if err := state.AddFlash(r.Context(), models.FlashSuccess, "Good Bye!"); err != nil {
		return trace.Wrap(err)
	}
	http.Redirect(w, r, "/campgrounds", http.StatusFound)
	return nil
}
