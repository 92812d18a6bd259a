package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminAudit records successful admin mutations of a resource. Non-admin callers
// pass through untouched.
func AdminAudit(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok || user.Role != model.RoleAdmin {
			return c.Next()
		}

		// Copy everything needed before c is released back to the pool.
		entry := model.AdminAuditLog{
			AdminID:   user.ID,
			Action:    action,
			Resource:  resource,
			IPAddress: c.IP(),
			UserAgent: string(c.Request().Header.UserAgent()),
		}
		if id, err := strconv.ParseUint(c.Params("id"), 10, 64); err == nil {
			entry.ResourceID = uint(id)
		}
		if body := c.Body(); len(body) > 0 && json.Valid(body) {
			entry.NewValue = datatypes.JSON(append([]byte(nil), body...))
		}

		err := c.Next()
		if err != nil || c.Response().StatusCode() >= fiber.StatusBadRequest {
			return err
		}

		go func() {
			if err := db.Create(&entry).Error; err != nil {
				log.Errorf("[AUDIT] failed to write %s on %s/%d: %v", action, resource, entry.ResourceID, err)
			}
		}()

		return nil
	}
}
