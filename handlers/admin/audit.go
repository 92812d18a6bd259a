package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/database"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/query"
	"github.com/learnhub-platform/learnhub-api/utils/response"
)

// ListAuditLogs returns admin audit entries newest first.
// GET /api/admin/audit-logs?page=&limit=&action=&resource=&adminId=
func ListAuditLogs(c *fiber.Ctx, store database.Storage) error {
	page := query.FromRequest(c)

	q := store.DB().WithContext(c.UserContext()).Model(&model.AdminAuditLog{})
	if action := c.Query("action"); action != "" {
		q = q.Where("action = ?", action)
	}
	if resource := c.Query("resource"); resource != "" {
		q = q.Where("resource = ?", resource)
	}
	if adminID, ok := query.UintParam(c, "adminId"); ok {
		q = q.Where("admin_id = ?", adminID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count audit logs")
	}

	logs := []model.AdminAuditLog{}
	if err := q.Order("created_at DESC, id DESC").Offset(page.Offset()).Limit(page.Limit).Find(&logs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch audit logs")
	}

	return response.Success(c, fiber.Map{
		"logs":       logs,
		"pagination": page.Meta(total),
	})
}

// GetAuditLog returns one audit entry.
// GET /api/admin/audit-logs/:id
func GetAuditLog(c *fiber.Ctx, store database.Storage) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid log ID")
	}

	var entry model.AdminAuditLog
	if err := store.DB().WithContext(c.UserContext()).First(&entry, id).Error; err != nil {
		if database.IsNotFound(err) {
			return response.NotFound(c, "Audit log not found")
		}
		return response.InternalServerError(c, "Failed to fetch audit log")
	}
	return response.Success(c, entry)
}
