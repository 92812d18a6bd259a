// Command migrate creates or updates every table without starting the server.
package main

import (
	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/config"
	"github.com/learnhub-platform/learnhub-api/database"
	"github.com/learnhub-platform/learnhub-api/model"
	"gorm.io/gorm"
)

func main() {
	if err := config.LoadENV(); err != nil {
		log.Fatalf("Failed to load environment variables: %v", err)
	}
	env, err := config.Get()
	if err != nil {
		log.Fatalf("Failed to read configuration: %v", err)
	}

	store, err := database.StartGORM(env)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer store.Close()

	if err := store.Init(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	if err := store.HealthCheck(); err != nil {
		log.Fatalf("Database health check failed: %v", err)
	}

	for _, m := range model.All() {
		stmt := &gorm.Statement{DB: store.DB()}
		if err := stmt.Parse(m); err != nil {
			log.Warnf("  - %T: %v", m, err)
			continue
		}
		log.Infof("  - %s", stmt.Schema.Table)
	}
	log.Info("All migrations completed successfully")
}
