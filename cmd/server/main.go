package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"linkhub/internal/config"
	"linkhub/internal/handlers"
	"linkhub/internal/middleware"
	"linkhub/internal/pkg"
	"linkhub/internal/repository"
	"linkhub/internal/services"
	"linkhub/internal/worker"

	"golang.org/x/sync/errgroup"
)

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	cfg := config.Cfg

	logger := pkg.NewLogger(pkg.ParseLogLevel(cfg.Log.Level))

	mongodb, err := repository.Connect(cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", map[string]interface{}{
			"error": err.Error(),
		})
	}
	defer func() {
		if err := mongodb.Disconnect(); err != nil {
			logger.Error("failed to disconnect from MongoDB", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	redisClient, err := middleware.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		// Redis only backs caching and rate limiting, both optional
		logger.Warn("redis unavailable, caching and rate limiting disabled", map[string]interface{}{
			"error": err.Error(),
		})
		redisClient = nil
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	repos := repository.NewRepositories(mongodb)

	locationService := services.NewLocationService(cfg.Geo.Endpoint, cfg.Geo.Timeout)
	viewService := services.NewViewService(repos, locationService, cfg.Analytics.AnchorHour, logger)

	var documentCache services.DocumentCache
	if redisClient != nil {
		documentCache = redisClient
	}
	profileService := services.NewProfileService(cfg.Profiles.DataDir, documentCache, cfg.Profiles.CacheTTL, logger)

	jwtManager := pkg.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.Issuer)
	validator := pkg.NewValidator()

	var rateLimitClient middleware.RedisClient
	if redisClient != nil {
		rateLimitClient = redisClient
	}

	deps := handlers.RouterDeps{
		ProfileHandler: handlers.NewProfileHandler(profileService, viewService, validator, logger),
		StatsHandler:   handlers.NewStatsHandler(viewService, validator),
		Session:        middleware.NewSessionMiddleware(jwtManager, logger),
		RateLimit:      middleware.NewRateLimitMiddleware(rateLimitClient, cfg.RateLimit.Requests, cfg.RateLimit.Window, logger),
		Logging:        middleware.NewLoggingMiddleware(logger, "/health"),
		Recovery:       middleware.NewRecoveryMiddleware(logger),
		CORS:           middleware.NewCORSMiddleware(nil),
	}

	router := handlers.SetupRouter(cfg.Server.Mode, deps)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	statsWorker := worker.NewStatsWorker(repos, cfg.Analytics.AnchorHour, time.Hour, logger)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("server listening", map[string]interface{}{
			"addr": server.Addr,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		statsWorker.Start(gctx)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited with error", map[string]interface{}{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	logger.Info("server stopped")
}
