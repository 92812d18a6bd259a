package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/handlers"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/utils/response"
)

// LoginRequest accepts a username or an email in Username.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	ip := c.IP()

	user, err := h.users.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) && h.bruteForceProtection != nil {
			h.bruteForceProtection.RecordFailedAttempt(c.UserContext(), ip)
		}
		return handlers.ServiceError(c, err, "Login failed")
	}

	if h.bruteForceProtection != nil {
		h.bruteForceProtection.RecordSuccessfulAttempt(c.UserContext(), ip)
	}

	session, err := h.startSession(c, user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}
	return response.Success(c, session)
}
