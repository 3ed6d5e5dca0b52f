// @title        Blog API
// @version      1.0
// @description  Role based blog platform with JWT authentication.

// @securityDefinitions.apikey BearerAuth
// @in   header
// @name Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/rbacblog/blog-api/docs"
	"github.com/rbacblog/blog-api/internal/api"
	"github.com/rbacblog/blog-api/internal/api/handler"
	"github.com/rbacblog/blog-api/internal/api/middleware"
	"github.com/rbacblog/blog-api/internal/core/service"
	"github.com/rbacblog/blog-api/internal/infrastructure/config"
	"github.com/rbacblog/blog-api/internal/infrastructure/db/mongo"
	"github.com/rbacblog/blog-api/internal/infrastructure/db/redis"
	"github.com/rbacblog/blog-api/internal/infrastructure/queue"
	"github.com/rbacblog/blog-api/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	redisClient, err := redis.Connect(ctx, redis.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer redisClient.Close()

	userRepo := mongo.NewUserRepository(db)
	postRepo := mongo.NewPostRepository(db)
	auditRepo := mongo.NewAuditRepository(db)

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("user index creation failed")
	}
	if err := postRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("post index creation failed")
	}

	auditService := service.NewAuditService(auditRepo, log)
	auditQueue := queue.NewDispatcher(cfg.AuditWorkers, auditService, log)
	auditQueue.Start(ctx)

	revocations := redis.NewRevocationList(redisClient)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(userRepo, tokenService, revocations, auditQueue, log)
	postService := service.NewPostService(postRepo, auditQueue, log)

	authenticator := middleware.NewAuthenticator(tokenService, userRepo, revocations, log)

	e := api.NewRouter(api.Dependencies{
		Logger:        log,
		Auth:          handler.NewAuthHandler(authService),
		Posts:         handler.NewPostHandler(postService),
		Health:        handler.NewHealthHandler(),
		Readiness:     handler.NewReadinessHandler(db, redisClient),
		Authenticator: authenticator,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
