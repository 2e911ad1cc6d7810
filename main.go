package main

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"go-campgrounds/config"
	"go-campgrounds/controllers"
	"go-campgrounds/middleware"
	"go-campgrounds/routes"
	"go-campgrounds/store"
	"go-campgrounds/utils"
	"go-campgrounds/views"
	"go-campgrounds/web"
)

func main() {
	cfg := config.Load()
	logger := utils.NewLogger(cfg.Env)

	// Connect to MongoDB
	client, err := utils.ConnectDB(cfg.DBURL)
	if err != nil {
		logger.WithError(err).Fatal("connecting to database failed")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.WithError(err).Error("disconnecting from database failed")
		}
	}()
	db := client.Database(cfg.DBName)
	if err := store.EnsureIndexes(context.Background(), db); err != nil {
		logger.WithError(err).Fatal("creating indexes failed")
	}

	// Stores
	campgrounds := store.NewMongoCampgrounds(db, logger)
	reviews := store.NewMongoReviews(db)
	users := store.NewMongoUsers(db)
	sessions := store.NewMongoSessions(db)

	// Views and error boundary
	renderer, err := views.New()
	if err != nil {
		logger.WithError(err).Fatal("parsing templates failed")
	}
	adapter := &web.Adapter{Logger: logger, Renderer: renderer}

	// Controllers
	emailService := utils.NewEmailService(cfg.SendGridAPIKey, cfg.FromEmail)
	pageController := controllers.NewPageController(renderer)
	userController := controllers.NewUserController(users, emailService, renderer, logger)
	campgroundController := controllers.NewCampgroundController(campgrounds, renderer, logger)
	reviewController := controllers.NewReviewController(reviews, logger)

	// Router and middleware
	router := mux.NewRouter()
	routes.RegisterRoutes(router, adapter, &middleware.Auth{
		Campgrounds: campgrounds,
		Reviews:     reviews,
		Logger:      logger,
	}, pageController, userController, campgroundController, reviewController)

	sessionManager := &middleware.SessionManager{
		Sessions: sessions,
		Users:    users,
		Secret:   []byte(cfg.SessionSecret),
		Logger:   logger,
	}
	handler := sessionManager.Middleware(middleware.MethodOverride(router))

	logger.WithField("port", cfg.Port).Info("server listening")
	if err := http.ListenAndServe(":"+cfg.Port, handler); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
