package review

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/handlers"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/utils/middleware"
	"github.com/learnhub-platform/learnhub-api/utils/response"
	"github.com/learnhub-platform/learnhub-api/utils/validation"
)

type ReviewHandler struct {
	reviews   *services.ReviewService
	validator *validation.Validator
}

func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviews:   reviews,
		validator: validation.NewValidator(),
	}
}

// CreateReviewRequest leaves rating unbounded; only its presence is checked.
type CreateReviewRequest struct {
	StudentID uint    `json:"studentId" validate:"required"`
	CourseID  uint    `json:"courseId" validate:"required"`
	Rating    *int    `json:"rating" validate:"required"`
	Comment   *string `json:"comment"`
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(c *fiber.Ctx) error {
	var req CreateReviewRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	review, err := h.reviews.Create(c.UserContext(), middleware.GetActor(c), services.ReviewInput{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Rating:    *req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to create review")
	}
	return response.Created(c, review)
}

// ListCourseReviews handles GET /api/courses/:id/reviews
func (h *ReviewHandler) ListCourseReviews(c *fiber.Ctx) error {
	courseID, err := handlers.ParamID(c, "id")
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	reviews, err := h.reviews.ListForCourse(c.UserContext(), courseID)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch reviews")
	}
	return response.Success(c, reviews)
}
