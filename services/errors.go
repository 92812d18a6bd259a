package services

import "errors"

var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("permission denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrAlreadyEnrolled    = errors.New("already enrolled in this course")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUpstream           = errors.New("upstream service failed")
	ErrNotConfigured      = errors.New("service not configured")
)

// NotFoundError names the missing entity so handlers can say "Course not found".
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func notFound(entity string) error {
	return &NotFoundError{Entity: entity}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
