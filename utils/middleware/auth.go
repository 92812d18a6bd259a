package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/auth"
	"github.com/learnhub-platform/learnhub-api/utils/policy"
	"github.com/learnhub-platform/learnhub-api/utils/response"
	"gorm.io/gorm"
)

// SessionCookieName carries the access token for browser clients.
const SessionCookieName = "learnhub_session"

const (
	localUser      = "user"
	localClaims    = "claims"
	localAuthError = "auth_error"
)

// AuthMiddleware resolves the caller from a bearer token or the session cookie.
type AuthMiddleware struct {
	jwtManager       *auth.JWTManager
	blacklistService *auth.BlacklistService
	db               *gorm.DB
}

func NewAuthMiddleware(jwtManager *auth.JWTManager, blacklistService *auth.BlacklistService, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:       jwtManager,
		blacklistService: blacklistService,
		db:               db,
	}
}

// Identify attaches the caller to the request when a valid token is present.
// It never rejects; Required turns a missing identity into 401.
func (m *AuthMiddleware) Identify() fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := tokenFromRequest(c)
		if token == "" {
			return c.Next()
		}

		user, claims, msg := m.resolve(c, token)
		if user == nil {
			c.Locals(localAuthError, msg)
			return c.Next()
		}

		c.Locals(localUser, user)
		c.Locals(localClaims, claims)
		return c.Next()
	}
}

// Required rejects requests without a resolved caller.
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := GetUser(c); ok {
			return c.Next()
		}
		msg, _ := c.Locals(localAuthError).(string)
		if msg == "" {
			msg = "Not authenticated"
		}
		return response.Unauthorized(c, msg)
	}
}

func (m *AuthMiddleware) resolve(c *fiber.Ctx, token string) (*model.User, *auth.Claims, string) {
	claims, err := m.jwtManager.ValidateToken(token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, nil, "Token has expired"
		}
		return nil, nil, "Invalid token"
	}

	if claims.TokenType != auth.TokenTypeAccess {
		return nil, nil, "Invalid token type"
	}

	revoked, err := m.blacklistService.IsTokenRevoked(c.UserContext(), claims.ID)
	if err != nil || revoked {
		return nil, nil, "Token has been revoked"
	}

	var user model.User
	if err := m.db.WithContext(c.UserContext()).First(&user, claims.UserID).Error; err != nil {
		return nil, nil, "User not found"
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, nil, "Token has been invalidated"
	}

	return &user, claims, ""
}

func tokenFromRequest(c *fiber.Ctx) string {
	if header := c.Get(fiber.HeaderAuthorization); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.Cookies(SessionCookieName)
}

// SetSessionCookie stores the access token in an HttpOnly cookie.
func SetSessionCookie(c *fiber.Ctx, token string, expiresAt time.Time, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func ClearSessionCookie(c *fiber.Ctx, secure bool) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// GetUser returns the resolved caller.
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	u, ok := c.Locals(localUser).(*model.User)
	return u, ok && u != nil
}

// GetClaims returns the claims of the token that authenticated the request.
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals(localClaims).(*auth.Claims)
	return claims, ok && claims != nil
}

// GetActor returns the caller as a policy actor (zero value when anonymous).
func GetActor(c *fiber.Ctx) policy.Actor {
	u, ok := GetUser(c)
	if !ok {
		return policy.Actor{}
	}
	return policy.Actor{ID: u.ID, Role: u.Role}
}
