package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/learnhub-platform/learnhub-api/database"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/auth"
	"github.com/learnhub-platform/learnhub-api/utils/validation"
	"gorm.io/gorm"
)

// UserService owns account creation, credential checks and profile reads.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type RegisterInput struct {
	Username      string
	Email         string
	Password      string
	FirstName     string
	LastName      string
	Role          model.Role
	Bio           *string
	ProfilePicURL *string
}

type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	Bio           *string
	ProfilePicURL *string
}

// DefaultAvatarURL builds the generated avatar used when no picture is supplied.
func DefaultAvatarURL(u *model.User) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(u.FullName()) + "&background=3B82F6&color=fff"
}

// Register creates a user. Email and username (case-insensitive) must be unused.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	db := s.db.WithContext(ctx)

	email := validation.SanitizeString(in.Email)
	username := validation.SanitizeString(in.Username)

	var count int64
	if err := db.Model(&model.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	if err := db.Model(&model.User{}).Where("username_key = ?", strings.ToLower(username)).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	role := in.Role
	if role == "" {
		role = model.RoleStudent
	}

	user := &model.User{
		Username:      username,
		Email:         email,
		PasswordHash:  hash,
		FirstName:     validation.SanitizeString(in.FirstName),
		LastName:      validation.SanitizeString(in.LastName),
		Role:          role,
		Bio:           validation.SanitizeOptional(in.Bio),
		ProfilePicURL: validation.SanitizeOptional(in.ProfilePicURL),
	}
	if user.ProfilePicURL == nil {
		avatar := DefaultAvatarURL(user)
		user.ProfilePicURL = &avatar
	}

	if err := db.Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			// Lost a race with a concurrent registration; report which key collided.
			if s.emailExists(ctx, email) {
				return nil, ErrEmailTaken
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (s *UserService) emailExists(ctx context.Context, email string) bool {
	var count int64
	s.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email).Count(&count)
	return count > 0
}

// Authenticate resolves identifier as an email when it contains "@", otherwise as a
// case-insensitive username, and checks the password. Every failure is ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, identifier, password string) (*model.User, error) {
	identifier = strings.TrimSpace(identifier)

	query := s.db.WithContext(ctx)
	if strings.Contains(identifier, "@") {
		query = query.Where("email = ?", identifier)
	} else {
		query = query.Where("username_key = ?", strings.ToLower(identifier))
	}

	var user model.User
	if err := query.First(&user).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	var user model.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if database.IsNotFound(err) {
			return nil, notFound("User")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields. Role, email and username are not editable here.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, in ProfileUpdate) (*model.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = validation.SanitizeString(*in.FirstName)
	}
	if in.LastName != nil {
		updates["last_name"] = validation.SanitizeString(*in.LastName)
	}
	if in.Bio != nil {
		updates["bio"] = validation.SanitizeOptional(in.Bio)
	}
	if in.ProfilePicURL != nil {
		updates["profile_pic_url"] = validation.SanitizeOptional(in.ProfilePicURL)
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.GetByID(ctx, id)
}

// List returns every user ordered by id.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *UserService) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}
	var users []model.User
	if err := s.db.WithContext(ctx).Where("role = ?", role).Order("id ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}
