package course

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/handlers"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/utils/middleware"
	"github.com/learnhub-platform/learnhub-api/utils/response"
	"github.com/learnhub-platform/learnhub-api/utils/validation"
)

// CourseHandler handles course-related requests
type CourseHandler struct {
	catalog   *services.CatalogService
	analytics *services.AnalyticsService
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler. analytics may be nil.
func NewCourseHandler(catalog *services.CatalogService, analytics *services.AnalyticsService) *CourseHandler {
	return &CourseHandler{
		catalog:   catalog,
		analytics: analytics,
		validator: validation.NewValidator(),
	}
}

type CreateCourseRequest struct {
	Title        string  `json:"title" validate:"required,min=1,max=255"`
	Description  string  `json:"description" validate:"required,min=1"`
	Category     string  `json:"category" validate:"required,course_category"`
	TeacherID    *uint   `json:"teacherId"`
	Price        float64 `json:"price" validate:"gte=0"`
	IsFree       *bool   `json:"isFree"`
	ThumbnailURL *string `json:"thumbnailUrl"`
	Status       *string `json:"status" validate:"omitempty,course_status"`
}

type UpdateCourseRequest struct {
	Title        *string  `json:"title" validate:"omitempty,min=1,max=255"`
	Description  *string  `json:"description" validate:"omitempty,min=1"`
	Category     *string  `json:"category" validate:"omitempty,course_category"`
	Price        *float64 `json:"price" validate:"omitempty,gte=0"`
	IsFree       *bool    `json:"isFree"`
	ThumbnailURL *string  `json:"thumbnailUrl"`
	Status       *string  `json:"status" validate:"omitempty,course_status"`
}

func statusPtr(s *string) *model.CourseStatus {
	if s == nil {
		return nil
	}
	st := model.CourseStatus(*s)
	return &st
}

// ListCourses handles GET /api/courses
func (h *CourseHandler) ListCourses(c *fiber.Ctx) error {
	actor := middleware.GetActor(c)
	status := c.Query("status")
	// non-staff are always served published courses
	if actor.IsStaff() && status != "" && !validation.IsCourseStatus(status) {
		return response.BadRequest(c, "Invalid status filter")
	}

	courses, err := h.catalog.ListCourses(c.UserContext(), actor, status)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch courses")
	}
	return response.Success(c, courses)
}

// GetCourse handles GET /api/courses/:id
func (h *CourseHandler) GetCourse(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.catalog.GetCourse(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch course")
	}
	return response.Success(c, course)
}

// ListTeacherCourses handles GET /api/teachers/:id/courses
func (h *CourseHandler) ListTeacherCourses(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid teacher ID")
	}

	courses, err := h.catalog.ListTeacherCourses(c.UserContext(), middleware.GetActor(c), id)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch courses")
	}
	return response.Success(c, courses)
}

// CreateCourse handles POST /api/courses
func (h *CourseHandler) CreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	course, err := h.catalog.CreateCourse(c.UserContext(), middleware.GetActor(c), services.CourseInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		TeacherID:    req.TeacherID,
		Price:        req.Price,
		IsFree:       req.IsFree,
		ThumbnailURL: req.ThumbnailURL,
		Status:       statusPtr(req.Status),
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to create course")
	}

	h.invalidateAnalytics(c)
	return response.Created(c, course)
}

// UpdateCourse handles PUT /api/courses/:id
func (h *CourseHandler) UpdateCourse(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	var req UpdateCourseRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	course, err := h.catalog.UpdateCourse(c.UserContext(), middleware.GetActor(c), id, services.CourseUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Price:        req.Price,
		IsFree:       req.IsFree,
		ThumbnailURL: req.ThumbnailURL,
		Status:       statusPtr(req.Status),
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to update course")
	}

	h.invalidateAnalytics(c)
	return response.Success(c, course)
}

// DeleteCourse handles DELETE /api/courses/:id
func (h *CourseHandler) DeleteCourse(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	if err := h.catalog.DeleteCourse(c.UserContext(), middleware.GetActor(c), id); err != nil {
		return handlers.ServiceError(c, err, "Failed to delete course")
	}

	h.invalidateAnalytics(c)
	return response.NoContent(c)
}

func (h *CourseHandler) invalidateAnalytics(c *fiber.Ctx) {
	if h.analytics != nil {
		h.analytics.InvalidateOverview(c.UserContext())
	}
}
