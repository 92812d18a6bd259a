package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/handlers"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/utils/middleware"
	"github.com/learnhub-platform/learnhub-api/utils/response"
)

// UpdateProfileRequest only carries the fields a user may change about themselves.
type UpdateProfileRequest struct {
	FirstName     *string `json:"firstName" validate:"omitempty,min=1"`
	LastName      *string `json:"lastName" validate:"omitempty,min=1"`
	Bio           *string `json:"bio"`
	ProfilePicURL *string `json:"profilePicUrl"`
}

// GetProfile handles GET /api/user
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	return response.Success(c, user)
}

// UpdateProfile handles PUT /api/user
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req UpdateProfileRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	updated, err := h.users.UpdateProfile(c.UserContext(), user.ID, services.ProfileUpdate{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Bio:           req.Bio,
		ProfilePicURL: req.ProfilePicURL,
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to update profile")
	}
	return response.Success(c, updated)
}
