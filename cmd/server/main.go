// Command server runs the classifieds HTTP API.
//
// @title        Classifieds API
// @version      1.0
// @description  Classifieds marketplace: accounts, sessions, posts and categories.
// @BasePath     /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marketplace/classifieds/internal/api"
	"github.com/marketplace/classifieds/internal/api/handler"
	"github.com/marketplace/classifieds/internal/api/middleware"
	"github.com/marketplace/classifieds/internal/core/service"
	"github.com/marketplace/classifieds/internal/infrastructure/config"
	mongodb "github.com/marketplace/classifieds/internal/infrastructure/db/mongo"
	redisdb "github.com/marketplace/classifieds/internal/infrastructure/db/redis"
	"github.com/marketplace/classifieds/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Configuration
	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.Init(logger.Options{Level: "error"})
		bootLog.Fatal().Err(err).Msg("configuration")
	}

	// 2. Logger
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "classifieds",
	})

	// 3. MongoDB
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connect")
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(dctx)
	}()
	log.Info().Str("db", cfg.Mongo.Database).Msg("mongo connected")

	// 4. Redis
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect")
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")

	// 5. Repositories
	users := mongodb.NewUserRepository(db)
	categories := mongodb.NewCategoryRepository(db)
	posts := mongodb.NewPostRepository(db)
	if err := mongodb.EnsureIndexes(ctx, users, categories, posts); err != nil {
		log.Fatal().Err(err).Msg("mongo indexes")
	}
	sessionStore := redisdb.NewSessionStore(rdb)

	// 6. Services
	authService := service.NewAuthService(users, service.NewBcryptHasher(service.PasswordCost), cfg.AdminPassphrase, logger.Component("auth"))
	sessionService := service.NewSessionService(sessionStore, users, cfg.Session.TTL, logger.Component("session"))
	listingService := service.NewListingService(posts, categories,
		service.PostPolicy{OwnerOnlyUpdates: cfg.Posts.OwnerOnlyUpdates}, logger.Component("listing"))
	if cfg.AdminPassphrase == "" {
		log.Warn().Msg("ADMIN_PASSPHRASE is empty; admin access is disabled")
	}

	// 7. Router & HTTP server
	router := api.NewRouter(api.Deps{
		Auth:     authService,
		Sessions: sessionService,
		Listings: listingService,
		Cookie:   middleware.NewSessionCookie(cfg.Session.CookieName, cfg.Session.Secret, cfg.Session.TTL, cfg.Session.Secure),
		Checks: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		},
		Logger: logger.Component("http"),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Str("port", cfg.Port).Msg("listen")
		}
	}()

	// 8. Graceful shutdown
	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
		return
	}
	log.Info().Msg("server stopped")
}
