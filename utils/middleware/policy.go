package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/learnhub-platform/learnhub-api/utils/policy"
	"github.com/learnhub-platform/learnhub-api/utils/response"
)

// Guard enforces policy.Table for one operation. Identify must run first.
func (m *AuthMiddleware) Guard(op policy.Operation) fiber.Handler {
	capability := policy.Lookup(op)
	required := m.Required()

	return func(c *fiber.Ctx) error {
		if capability.Kind == policy.Public {
			return c.Next()
		}

		if _, ok := GetUser(c); !ok {
			return required(c)
		}
		actor := GetActor(c)

		if !capability.Allows(actor.Role) {
			return response.Forbidden(c, "Insufficient permissions")
		}

		if capability.Kind == policy.SelfOrStaff && !actor.IsStaff() {
			studentID, ok := subjectStudentID(c, capability.Subject)
			// A body without studentId is left for request validation to reject.
			if ok && !policy.CanActForStudent(actor, studentID) {
				return response.Forbidden(c, "Permission denied")
			}
		}

		return c.Next()
	}
}

func subjectStudentID(c *fiber.Ctx, subject policy.Subject) (uint, bool) {
	switch subject {
	case policy.SubjectPath:
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			// unparseable ids can never match the caller
			return 0, true
		}
		return uint(id), true
	case policy.SubjectBody:
		var body struct {
			StudentID *uint `json:"studentId"`
		}
		if err := json.Unmarshal(c.Body(), &body); err != nil || body.StudentID == nil {
			return 0, false
		}
		return *body.StudentID, true
	}
	return 0, false
}
