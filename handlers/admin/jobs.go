package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/database"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/query"
	"github.com/learnhub-platform/learnhub-api/utils/response"
)

// ListCronJobLogs returns scheduled job runs, latest first.
// GET /api/admin/cron-jobs?page=&limit=&jobName=&status=
func ListCronJobLogs(c *fiber.Ctx, store database.Storage) error {
	page := query.FromRequest(c)

	q := store.DB().WithContext(c.UserContext()).Model(&model.CronJobLog{})
	if name := c.Query("jobName"); name != "" {
		q = q.Where("job_name = ?", name)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count job runs")
	}

	runs := []model.CronJobLog{}
	if err := q.Order("started_at DESC, id DESC").Offset(page.Offset()).Limit(page.Limit).Find(&runs).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch job runs")
	}

	return response.Success(c, fiber.Map{
		"runs":       runs,
		"pagination": page.Meta(total),
	})
}
