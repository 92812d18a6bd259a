package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/database"
)

// HandleCheckHealth reports liveness and whether the database answers.
func HandleCheckHealth(c *fiber.Ctx, store database.Storage) error {
	db := "up"
	if err := store.HealthCheck(); err != nil {
		db = "down"
	}
	return c.JSON(fiber.Map{"status": "ok", "database": db})
}
