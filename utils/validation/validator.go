package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/learnhub-platform/learnhub-api/model"
)

// Validator wraps the go-playground validator with the domain tags
// role, course_category, course_status and content_type registered.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name so clients see "firstName", not "FirstName".
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		return model.Role(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("course_category", func(fl validator.FieldLevel) bool {
		return IsCourseCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("course_status", func(fl validator.FieldLevel) bool {
		return IsCourseStatus(fl.Field().String())
	})
	_ = v.RegisterValidation("content_type", func(fl validator.FieldLevel) bool {
		s := model.ContentType(fl.Field().String())
		for _, ct := range model.ContentTypes {
			if s == ct {
				return true
			}
		}
		return false
	})

	return &Validator{validate: v}
}

// ValidateStruct validates a struct using struct tags
func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

func IsCourseCategory(s string) bool {
	for _, c := range model.CourseCategories {
		if s == c {
			return true
		}
	}
	return false
}

func IsCourseStatus(s string) bool {
	for _, st := range model.CourseStatuses {
		if model.CourseStatus(s) == st {
			return true
		}
	}
	return false
}

// FormatValidationErrors converts validation errors to field -> message.
func FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		if err != nil {
			out["body"] = err.Error()
		}
		return out
	}

	for _, e := range validationErrs {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out[field] = fmt.Sprintf("%s is required", field)
		case "email":
			out[field] = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			if e.Kind() == reflect.String {
				out[field] = fmt.Sprintf("%s must be at least %s characters", field, e.Param())
			} else {
				out[field] = fmt.Sprintf("%s must be at least %s", field, e.Param())
			}
		case "max":
			if e.Kind() == reflect.String {
				out[field] = fmt.Sprintf("%s must be at most %s characters", field, e.Param())
			} else {
				out[field] = fmt.Sprintf("%s must be at most %s", field, e.Param())
			}
		case "gte":
			out[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, e.Param())
		case "lte":
			out[field] = fmt.Sprintf("%s must be less than or equal to %s", field, e.Param())
		case "role":
			out[field] = fmt.Sprintf("%s must be one of student, teacher, admin", field)
		case "course_category":
			out[field] = fmt.Sprintf("%s must be one of: %s", field, strings.Join(model.CourseCategories, ", "))
		case "course_status":
			out[field] = fmt.Sprintf("%s must be one of draft, published, archived", field)
		case "content_type":
			out[field] = fmt.Sprintf("%s must be one of video, pdf, presentation, quiz, assignment, ai_generated", field)
		case "url":
			out[field] = fmt.Sprintf("%s must be a valid URL", field)
		default:
			out[field] = fmt.Sprintf("%s is invalid", field)
		}
	}

	return out
}

// SanitizeString removes null bytes and surrounding whitespace.
func SanitizeString(s string) string {
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}

// SanitizeOptional applies SanitizeString to a pointer, mapping blank to nil.
func SanitizeOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := SanitizeString(*s)
	if v == "" {
		return nil
	}
	return &v
}
