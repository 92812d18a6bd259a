package lesson

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/handlers"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/utils/middleware"
	"github.com/learnhub-platform/learnhub-api/utils/response"
	"github.com/learnhub-platform/learnhub-api/utils/validation"
)

type LessonHandler struct {
	catalog   *services.CatalogService
	validator *validation.Validator
}

func NewLessonHandler(catalog *services.CatalogService) *LessonHandler {
	return &LessonHandler{
		catalog:   catalog,
		validator: validation.NewValidator(),
	}
}

type CreateLessonRequest struct {
	Title       string `json:"title" validate:"required,min=1,max=255"`
	CourseID    uint   `json:"courseId" validate:"required"`
	ContentType string `json:"contentType" validate:"required,content_type"`
	ContentURL  string `json:"contentUrl" validate:"required"`
	Order       int    `json:"order" validate:"gte=0"`
}

type UpdateLessonRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	ContentType *string `json:"contentType" validate:"omitempty,content_type"`
	ContentURL  *string `json:"contentUrl" validate:"omitempty,min=1"`
	Order       *int    `json:"order" validate:"omitempty,gte=0"`
}

// ListLessons handles GET /api/courses/:id/lessons
func (h *LessonHandler) ListLessons(c *fiber.Ctx) error {
	courseID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	lessons, err := h.catalog.ListLessons(c.UserContext(), middleware.GetActor(c), courseID)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch lessons")
	}
	return response.Success(c, lessons)
}

// CreateLesson handles POST /api/lessons
func (h *LessonHandler) CreateLesson(c *fiber.Ctx) error {
	var req CreateLessonRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	lesson, err := h.catalog.CreateLesson(c.UserContext(), middleware.GetActor(c), services.LessonInput{
		Title:       req.Title,
		CourseID:    req.CourseID,
		ContentType: model.ContentType(req.ContentType),
		ContentURL:  req.ContentURL,
		Order:       req.Order,
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to create lesson")
	}
	return response.Created(c, lesson)
}

// UpdateLesson handles PUT /api/lessons/:id
func (h *LessonHandler) UpdateLesson(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid lesson ID")
	}

	var req UpdateLessonRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	update := services.LessonUpdate{
		Title:      req.Title,
		ContentURL: req.ContentURL,
		Order:      req.Order,
	}
	if req.ContentType != nil {
		ct := model.ContentType(*req.ContentType)
		update.ContentType = &ct
	}

	lesson, err := h.catalog.UpdateLesson(c.UserContext(), middleware.GetActor(c), id, update)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to update lesson")
	}
	return response.Success(c, lesson)
}

// DeleteLesson handles DELETE /api/lessons/:id
func (h *LessonHandler) DeleteLesson(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid lesson ID")
	}

	if err := h.catalog.DeleteLesson(c.UserContext(), middleware.GetActor(c), id); err != nil {
		return handlers.ServiceError(c, err, "Failed to delete lesson")
	}
	return response.NoContent(c)
}
