package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "kelasku_backend/internals/helpers"
)

// RequireTeacher rejects requests whose token does not carry a
// teacher (or admin) role. Student endpoints mount RequireStudent.
func RequireTeacher() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !helper.IsTeacher(c) {
			return fiber.NewError(fiber.StatusForbidden, "Teacher only")
		}
		return c.Next()
	}
}

func RequireStudent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !helper.IsStudent(c) {
			return fiber.NewError(fiber.StatusForbidden, "Student only")
		}
		return c.Next()
	}
}
