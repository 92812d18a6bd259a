package enrollment

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/handlers"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/utils/middleware"
	"github.com/learnhub-platform/learnhub-api/utils/response"
)

type CreateProgressRequest struct {
	StudentID uint `json:"studentId" validate:"required"`
	LessonID  uint `json:"lessonId" validate:"required"`
	Completed bool `json:"completed"`
}

type UpdateProgressRequest struct {
	Completed *bool `json:"completed"`
}

// CreateProgress handles POST /api/progress
func (h *EnrollmentHandler) CreateProgress(c *fiber.Ctx) error {
	var req CreateProgressRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	progress, err := h.progress.Record(c.UserContext(), middleware.GetActor(c), services.ProgressInput{
		StudentID: req.StudentID,
		LessonID:  req.LessonID,
		Completed: req.Completed,
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to record progress")
	}

	h.invalidateAnalytics(c)
	return response.Created(c, progress)
}

// UpdateProgress handles PUT /api/progress/:id
func (h *EnrollmentHandler) UpdateProgress(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid progress ID")
	}

	var req UpdateProgressRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	progress, err := h.progress.Update(c.UserContext(), middleware.GetActor(c), id, req.Completed)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to update progress")
	}

	h.invalidateAnalytics(c)
	return response.Success(c, progress)
}

// ListStudentProgress handles GET /api/students/:id/progress
func (h *EnrollmentHandler) ListStudentProgress(c *fiber.Ctx) error {
	studentID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	rows, err := h.progress.ListForStudent(c.UserContext(), middleware.GetActor(c), studentID)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch progress")
	}
	return response.Success(c, rows)
}
