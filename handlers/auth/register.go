package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/handlers"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/services"
	authutil "github.com/learnhub-platform/learnhub-api/utils/auth"
	"github.com/learnhub-platform/learnhub-api/utils/middleware"
	"github.com/learnhub-platform/learnhub-api/utils/response"
	"github.com/learnhub-platform/learnhub-api/utils/validation"
)

// AuthHandler serves registration, login, logout, refresh and the current user.
type AuthHandler struct {
	users                *services.UserService
	jwtManager           *authutil.JWTManager
	blacklistService     *authutil.BlacklistService
	bruteForceProtection *middleware.BruteForceProtection
	validator            *validation.Validator
	secureCookie         bool
}

// NewAuthHandler creates the handler. bruteForceProtection may be nil when Redis is unavailable.
func NewAuthHandler(users *services.UserService, jwtManager *authutil.JWTManager, blacklistService *authutil.BlacklistService, bruteForceProtection *middleware.BruteForceProtection, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		users:                users,
		jwtManager:           jwtManager,
		blacklistService:     blacklistService,
		bruteForceProtection: bruteForceProtection,
		validator:            validation.NewValidator(),
		secureCookie:         secureCookie,
	}
}

type RegisterRequest struct {
	Username      string  `json:"username" validate:"required,min=3"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required,min=6"`
	FirstName     string  `json:"firstName" validate:"required,min=1"`
	LastName      string  `json:"lastName" validate:"required,min=1"`
	Role          string  `json:"role" validate:"omitempty,role"`
	Bio           *string `json:"bio"`
	ProfilePicURL *string `json:"profilePicUrl"`
}

// SessionResponse is returned by register, login and refresh.
type SessionResponse struct {
	User         *model.User `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int         `json:"expiresIn"`
}

// Register handles POST /api/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if ok, err := handlers.Bind(c, h.validator, &req); !ok {
		return err
	}

	user, err := h.users.Register(c.UserContext(), services.RegisterInput{
		Username:      req.Username,
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Role:          model.Role(req.Role),
		Bio:           req.Bio,
		ProfilePicURL: req.ProfilePicURL,
	})
	if err != nil {
		return handlers.ServiceError(c, err, "Failed to create user")
	}

	log.Infof("[AUTH] registered user %d (%s)", user.ID, user.Role)

	session, err := h.startSession(c, user)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate tokens")
	}
	return response.Created(c, session)
}

// startSession issues a token pair and sets the session cookie.
func (h *AuthHandler) startSession(c *fiber.Ctx, user *model.User) (*SessionResponse, error) {
	pair, err := h.jwtManager.GeneratePair(user.ID, user.Email, string(user.Role), user.TokenVersion)
	if err != nil {
		return nil, err
	}

	middleware.SetSessionCookie(c, pair.AccessToken, pair.AccessExpiresAt, h.secureCookie)

	return &SessionResponse{
		User:         user,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int(h.jwtManager.AccessExpiry().Seconds()),
	}, nil
}
