package enrollment

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/handlers"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/utils/middleware"
	"github.com/learnhub-platform/learnhub-api/utils/response"
	"github.com/learnhub-platform/learnhub-api/utils/validation"
)

// EnrollmentHandler serves enrollments and lesson progress.
type EnrollmentHandler struct {
	enrollments *services.EnrollmentService
	progress    *services.ProgressService
	analytics   *services.AnalyticsService
	validator   *validation.Validator
}

// NewEnrollmentHandler creates the handler. analytics may be nil.
func NewEnrollmentHandler(enrollments *services.EnrollmentService, progress *services.ProgressService, analytics *services.AnalyticsService) *EnrollmentHandler {
	return &EnrollmentHandler{
		enrollments: enrollments,
		progress:    progress,
		analytics:   analytics,
		validator:   validation.NewValidator(),
	}
}

type CreateEnrollmentRequest struct {
	StudentID            uint  `json:"studentId" validate:"required"`
	CourseID             uint  `json:"courseId" validate:"required"`
	Completed            *bool `json:"completed"`
	CompletionPercentage *int  `json:"completionPercentage" validate:"omitempty,gte=0,lte=100"`
}

type UpdateEnrollmentRequest struct {
	Completed            *bool `json:"completed"`
	CompletionPercentage *int  `json:"completionPercentage" validate:"omitempty,gte=0,lte=100"`
}

// CreateEnrollment handles POST /api/enrollments
func (h *EnrollmentHandler) CreateEnrollment(c *fiber.Ctx) error {
	var req CreateEnrollmentRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	enrollment, err := h.enrollments.Enroll(c.UserContext(), middleware.GetActor(c), services.EnrollmentInput{
		StudentID:            req.StudentID,
		CourseID:             req.CourseID,
		Completed:            req.Completed,
		CompletionPercentage: req.CompletionPercentage,
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to enroll in course")
	}

	h.invalidateAnalytics(c)
	return response.Created(c, enrollment)
}

// ListStudentEnrollments handles GET /api/students/:id/enrollments
func (h *EnrollmentHandler) ListStudentEnrollments(c *fiber.Ctx) error {
	studentID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid student ID")
	}

	enrollments, err := h.enrollments.ListForStudent(c.UserContext(), middleware.GetActor(c), studentID)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch enrollments")
	}
	return response.Success(c, enrollments)
}

// UpdateEnrollment handles PUT /api/enrollments/:id
func (h *EnrollmentHandler) UpdateEnrollment(c *fiber.Ctx) error {
	id, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid enrollment ID")
	}

	var req UpdateEnrollmentRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	enrollment, err := h.enrollments.Update(c.UserContext(), middleware.GetActor(c), id, services.EnrollmentUpdate{
		Completed:            req.Completed,
		CompletionPercentage: req.CompletionPercentage,
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to update enrollment")
	}

	h.invalidateAnalytics(c)
	return response.Success(c, enrollment)
}

func (h *EnrollmentHandler) invalidateAnalytics(c *fiber.Ctx) {
	if h.analytics != nil {
		h.analytics.InvalidateOverview(c.UserContext())
	}
}
