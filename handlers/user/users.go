package user

import (
	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/handlers"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/utils/response"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch users")
	}
	return response.Success(c, users)
}

// ListUsersByRole handles GET /api/users/role/:role
func (h *UserHandler) ListUsersByRole(c *fiber.Ctx) error {
	role := model.Role(c.Params("role"))
	if !role.IsValid() {
		return response.BadRequest(c, "Invalid role")
	}

	users, err := h.users.ListByRole(c.UserContext(), role)
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to fetch users")
	}
	return response.Success(c, users)
}
