package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/model"
	"github.com/learnhub-platform/learnhub-api/utils/auth"
	"gorm.io/gorm"
)

// DefaultUser is a bootstrap account created on an empty install.
type DefaultUser struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      model.Role
	Bio       string
}

// DefaultUsers are the demo accounts, one per role.
var DefaultUsers = []DefaultUser{
	{
		Username:  "admin",
		Email:     "admin@dentallearnhub.com",
		Password:  "admin123",
		FirstName: "Admin",
		LastName:  "User",
		Role:      model.RoleAdmin,
		Bio:       "Platform administrator",
	},
	{
		Username:  "teacher",
		Email:     "teacher@dentallearnhub.com",
		Password:  "teacher123",
		FirstName: "Dr. Vikram",
		LastName:  "Singh",
		Role:      model.RoleTeacher,
		Bio:       "BDS, MDS (Oral & Maxillofacial Surgery) from King George's Medical University",
	},
	{
		Username:  "student",
		Email:     "student@dentallearnhub.com",
		Password:  "student123",
		FirstName: "Rahul",
		LastName:  "Sharma",
		Role:      model.RoleStudent,
		Bio:       "BDS student at Manipal College of Dental Sciences",
	},
}

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedDefaultUsers creates any missing bootstrap account, matched by username.
// It returns how many accounts were created.
func (s *Seeder) SeedDefaultUsers(ctx context.Context) (int, error) {
	created := 0
	for _, du := range DefaultUsers {
		ok, err := s.seedUser(ctx, du)
		if err != nil {
			return created, fmt.Errorf("failed to seed user %q: %w", du.Username, err)
		}
		if ok {
			created++
		}
	}
	return created, nil
}

func (s *Seeder) seedUser(ctx context.Context, du DefaultUser) (bool, error) {
	db := s.db.WithContext(ctx)

	var existing model.User
	err := db.Where("username_key = ?", strings.ToLower(du.Username)).First(&existing).Error
	if err == nil {
		log.Debugf("Default user %s already exists, skipping", du.Username)
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}

	hash, err := auth.HashPassword(du.Password)
	if err != nil {
		return false, err
	}

	bio := du.Bio
	avatar := "https://ui-avatars.com/api/?name=" +
		strings.ReplaceAll(strings.TrimPrefix(du.FirstName, "Dr. ")+" "+du.LastName, " ", "+") +
		"&background=32CD32&color=fff"

	user := &model.User{
		Username:      du.Username,
		Email:         du.Email,
		PasswordHash:  hash,
		FirstName:     du.FirstName,
		LastName:      du.LastName,
		Role:          du.Role,
		Bio:           &bio,
		ProfilePicURL: &avatar,
	}
	if err := db.Create(user).Error; err != nil {
		if IsUniqueViolation(err) {
			// another instance seeded it concurrently
			return false, nil
		}
		return false, err
	}

	log.Infof("Default %s user %s created", du.Role, du.Username)
	return true, nil
}
