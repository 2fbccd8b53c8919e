package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	dto "kelasku_backend/internals/features/school/grades/dto"
	service "kelasku_backend/internals/features/school/grades/service"
	helper "kelasku_backend/internals/helpers"
)

type GradesController struct {
	Service   *service.EvaluationService
	Validator *validator.Validate
}

func NewGradesController(svc *service.EvaluationService) *GradesController {
	return &GradesController{
		Service:   svc,
		Validator: validator.New(),
	}
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Params(name)))
}

// GET /classes/:class_id/evaluation
func (ctl *GradesController) ClassEvaluation(c *fiber.Ctx) error {
	classID, err := parseUUIDParam(c, "class_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	result, err := ctl.Service.ClassEvaluation(c.UserContext(), teacherID, classID)
	if err != nil {
		if errors.Is(err, service.ErrClassroomNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Classroom not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", result)
}

// GET /classes/:class_id/points
func (ctl *GradesController) ClassPoints(c *fiber.Ctx) error {
	classID, err := parseUUIDParam(c, "class_id")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	result, err := ctl.Service.ClassPointsSummary(c.UserContext(), teacherID, classID)
	if err != nil {
		if errors.Is(err, service.ErrClassroomNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Classroom not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", result)
}

// POST /classes/:class_id/attendance-rate
//
// Response shape is the legacy contract: {success, message|error}.
func (ctl *GradesController) UpdateAttendanceRate(c *fiber.Ctx) error {
	classID, err := parseUUIDParam(c, "class_id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid class ID",
		})
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "Unauthorized",
		})
	}

	var req dto.UpdateAttendanceRateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   "Invalid request body",
		})
	}

	err = ctl.Service.UpdateAttendanceRate(c.UserContext(), teacherID, classID, req)
	if err != nil {
		switch {
		case service.IsValidation(err):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		case errors.Is(err, service.ErrClassroomNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Classroom not found",
			})
		case errors.Is(err, service.ErrStudentNotEnrolled):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"error":   "Student is not enrolled in this classroom",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Attendance rate saved",
	})
}
