package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Locals keys hydrated by the auth middleware.
const (
	LocUserID        = "user_id"
	LocUserRole      = "user_role"
	LocStudentNumber = "student_number"
)

func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User ID not found in token")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid user ID in token")
	}
	return id, nil
}

func GetUserRole(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocUserRole).(string); ok {
		return v
	}
	return ""
}

func IsTeacher(c *fiber.Ctx) bool {
	role := GetUserRole(c)
	return role == "teacher" || role == "admin"
}

func IsStudent(c *fiber.Ctx) bool {
	return GetUserRole(c) == "student"
}
