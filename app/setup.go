package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/api"
	"github.com/learnhub-platform/learnhub-api/config"
	"github.com/learnhub-platform/learnhub-api/database"
	upload_handlers "github.com/learnhub-platform/learnhub-api/handlers/upload"
	"github.com/learnhub-platform/learnhub-api/router"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/services/cron"
	"github.com/learnhub-platform/learnhub-api/services/inference"
	"github.com/learnhub-platform/learnhub-api/services/storage"
	"github.com/learnhub-platform/learnhub-api/utils/auth"
	"github.com/learnhub-platform/learnhub-api/utils/cache"
)

const shutdownTimeout = 10 * time.Second

func SetupAndRunServer() error {
	// Load ENV
	if err := config.LoadENV(); err != nil {
		return err
	}

	env, err := config.Get()
	if err != nil {
		return err
	}

	store, err := database.StartGORM(env)
	if err != nil {
		log.Error("Check whether Postgres is running and the DB_* variables are correct")
		return err
	}

	if err := store.Init(); err != nil {
		log.Error("Failed to initialize database tables")
		return err
	}

	if env.SEED_DEFAULT_USERS {
		if _, err := database.NewSeeder(store.DB()).SeedDefaultUsers(context.Background()); err != nil {
			log.Warnf("Failed to seed default users: %v", err)
		}
	}

	// Redis is optional; without it brute force protection and analytics caching are off.
	redisCache, err := cache.NewRedisCache(env.REDIS_URL)
	if err != nil {
		log.Warnf("Redis connection failed: %v", err)
		redisCache = nil
	}

	inferenceClient := inference.NewClient(inference.Config{
		APIKey:  env.AI_API_KEY,
		BaseURL: env.AI_BASE_URL,
		Model:   env.AI_MODEL,
		Timeout: env.AI_TIMEOUT,
	})
	if !inferenceClient.Configured() {
		log.Warn("AI_API_KEY not set: AI content generation is disabled")
	}

	var objects upload_handlers.ObjectStore
	if env.SpacesConfigured() {
		spaces, err := storage.NewSpacesStore(storage.Config{
			AccessKey: env.SPACES_ACCESS_KEY,
			SecretKey: env.SPACES_SECRET_KEY,
			Bucket:    env.SPACES_BUCKET,
			Region:    env.SPACES_REGION,
			Endpoint:  env.SPACES_ENDPOINT,
			CDNURL:    env.SPACES_CDN_URL,
		})
		if err != nil {
			log.Warnf("Object storage disabled: %v", err)
		} else {
			objects = spaces
		}
	}

	var cronManager *cron.CronManager
	if env.CRON_ENABLED {
		cronManager = cron.NewCronManager(
			store.DB(),
			services.NewAnalyticsService(store.DB(), redisCache),
			auth.NewBlacklistService(store.DB()),
		)
		if err := cronManager.Start(); err != nil {
			// Don't fail the app, just log the warning
			log.Warnf("Failed to start cron jobs: %v", err)
			cronManager = nil
		}
	}

	defer func() {
		if cronManager != nil {
			cronManager.Stop()
		}
		if redisCache != nil {
			_ = redisCache.Close()
		}
		_ = store.Close()
	}()

	server := api.NewAPIServer(fmt.Sprintf(":%d", env.PORT))

	if err := router.SetupRoutes(server.GetEngine(), router.Dependencies{
		Store:     store,
		Env:       env,
		Cache:     redisCache,
		Inference: inferenceClient,
		Objects:   objects,
	}); err != nil {
		return err
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("Shutting down server...")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Errorf("Server shutdown failed: %v", err)
		}
	}()

	return server.Run()
}
