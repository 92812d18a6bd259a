package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Roles lists every valid role.
var Roles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsStaff is true for teachers and admins.
func (r Role) IsStaff() bool {
	return r == RoleTeacher || r == RoleAdmin
}

// User represents a registered account.
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Email         string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Username      string    `gorm:"type:varchar(100);not null" json:"username"`
	UsernameKey   string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"-"` // lower-cased username
	PasswordHash  string    `gorm:"not null" json:"-"`
	FirstName     string    `gorm:"type:varchar(100);not null" json:"firstName"`
	LastName      string    `gorm:"type:varchar(100);not null" json:"lastName"`
	Role          Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	Bio           *string   `gorm:"type:text" json:"bio"`
	ProfilePicURL *string   `gorm:"type:text" json:"profilePicUrl"`
	TokenVersion  int       `gorm:"default:0" json:"-"` // Increment to invalidate all user tokens
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BeforeSave keeps the case-insensitive uniqueness key in step with Username.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.UsernameKey = strings.ToLower(strings.TrimSpace(u.Username))
	if u.Role == "" {
		u.Role = RoleStudent
	}
	return nil
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
