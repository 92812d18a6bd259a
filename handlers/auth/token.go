package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/handlers"
	"github.com/learnhub-platform/learnhub-api/utils/middleware"
	"github.com/learnhub-platform/learnhub-api/utils/response"
)

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshToken handles POST /api/token/refresh. The presented refresh token
// is revoked once the new pair is issued.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	claims, err := h.jwtManager.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return response.Unauthorized(c, "Invalid or expired refresh token")
	}

	revoked, err := h.blacklistService.IsTokenRevoked(c.UserContext(), claims.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to check token status")
	}
	if revoked {
		return response.Unauthorized(c, "Token has been revoked")
	}

	user, err := h.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		return response.Unauthorized(c, "User not found")
	}
	if user.TokenVersion != claims.TokenVersion {
		return response.Unauthorized(c, "Token has been invalidated")
	}

	expiresAt := time.Now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	if err := h.blacklistService.RevokeToken(c.UserContext(), claims.ID, user.ID, expiresAt, "token_refresh"); err != nil {
		return response.InternalServerError(c, "Failed to rotate refresh token")
	}

	session, err := h.startSession(c, user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}
	return response.Success(c, session)
}

// Logout handles POST /api/logout by revoking the presenting token.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}
	claims, ok := middleware.GetClaims(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	expiresAt := time.Now().Add(h.jwtManager.AccessExpiry())
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	if err := h.blacklistService.RevokeToken(c.UserContext(), claims.ID, user.ID, expiresAt, "logout"); err != nil {
		log.Errorf("[AUTH] failed to revoke token for user %d: %v", user.ID, err)
		return response.InternalServerError(c, "Failed to logout")
	}

	middleware.ClearSessionCookie(c, h.secureCookie)
	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}
