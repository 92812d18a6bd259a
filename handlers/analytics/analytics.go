package analytics

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/handlers"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/utils/middleware"
	"github.com/learnhub-platform/learnhub-api/utils/response"
)

// AnalyticsHandler handles analytics and reporting requests
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// GetOverview handles GET /api/analytics/overview
func (h *AnalyticsHandler) GetOverview(c *fiber.Ctx) error {
	overview, err := h.analyticsService.Overview(c.UserContext())
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch analytics overview")
	}
	return response.Success(c, overview)
}

// ExportOverview handles GET /api/analytics/overview/export
func (h *AnalyticsHandler) ExportOverview(c *fiber.Ctx) error {
	overview, err := h.analyticsService.Overview(c.UserContext())
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch analytics overview")
	}

	now := time.Now().UTC()
	data, err := services.ExportOverviewXLSX(overview, now)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to export analytics overview")
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="analytics-overview-%s.xlsx"`, now.Format("2006-01-02")))
	return c.Send(data)
}

// GetTeacherAnalytics handles GET /api/analytics/teacher/:id
func (h *AnalyticsHandler) GetTeacherAnalytics(c *fiber.Ctx) error {
	teacherID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid teacher ID")
	}

	stats, err := h.analyticsService.TeacherStats(c.UserContext(), middleware.GetActor(c), teacherID)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch teacher analytics")
	}
	return response.Success(c, stats)
}
