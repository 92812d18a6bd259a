package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/learnhub-platform/learnhub-api/services"
	"github.com/learnhub-platform/learnhub-api/utils/response"
	"github.com/learnhub-platform/learnhub-api/utils/validation"
)

// Bind decodes the JSON body into dst and validates it. When it returns
// false the error response has already been written and err is its result.
func Bind(c *fiber.Ctx, v *validation.Validator, dst interface{}) (bool, error) {
	if err := c.BodyParser(dst); err != nil {
		return false, response.BadRequest(c, "Invalid request body")
	}
	if err := v.ValidateStruct(dst); err != nil {
		return false, response.ValidationError(c, validation.FormatValidationErrors(err))
	}
	return true, nil
}

// ParamID parses a positive integer path parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

// ServiceError renders an error returned by the services layer. fallback is
// the message used for anything that is not a known domain error.
func ServiceError(c *fiber.Ctx, err error, fallback string) error {
	var nf *services.NotFoundError
	switch {
	case errors.As(err, &nf):
		return response.NotFound(c, nf.Error())
	case errors.Is(err, services.ErrNotFound):
		return response.NotFound(c, "")
	case errors.Is(err, services.ErrForbidden):
		return response.Forbidden(c, "Permission denied")
	case errors.Is(err, services.ErrAlreadyEnrolled):
		return response.Error(c, fiber.StatusBadRequest, "Already enrolled in this course", "ALREADY_ENROLLED")
	case errors.Is(err, services.ErrEmailTaken):
		return response.Conflict(c, "Email already in use")
	case errors.Is(err, services.ErrUsernameTaken):
		return response.Conflict(c, "Username already exists")
	case errors.Is(err, services.ErrInvalidCredentials):
		return response.Unauthorized(c, "Invalid credentials")
	case errors.Is(err, services.ErrInvalidInput):
		msg := strings.TrimPrefix(err.Error(), services.ErrInvalidInput.Error()+": ")
		return response.BadRequest(c, msg)
	case errors.Is(err, services.ErrNotConfigured):
		return response.ServiceUnavailable(c, "")
	}

	log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	return response.InternalServerError(c, fallback)
}
