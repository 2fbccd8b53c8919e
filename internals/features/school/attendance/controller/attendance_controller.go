package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kelasku_backend/internals/features/school/attendance/dto"
	model "kelasku_backend/internals/features/school/attendance/model"
	service "kelasku_backend/internals/features/school/attendance/service"
	helper "kelasku_backend/internals/helpers"
)

type AttendanceController struct {
	DB        *gorm.DB
	Scan      *service.ScanService
	Validator *validator.Validate
}

func NewAttendanceController(db *gorm.DB, scan *service.ScanService) *AttendanceController {
	return &AttendanceController{
		DB:        db,
		Scan:      scan,
		Validator: validator.New(),
	}
}

type scanRequest struct {
	QRCodeID uuid.UUID  `json:"qr_code_id" validate:"required"`
	ClassID  *uuid.UUID `json:"class_id"`
}

// POST /attendance/scan
func (ctl *AttendanceController) RecordScan(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req scanRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	result, err := ctl.Scan.RecordScan(c.UserContext(), teacherID, req.QRCodeID, req.ClassID)
	if err != nil {
		if errors.Is(err, service.ErrQRCodeNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "QR code not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonOK(c, "Scan recorded", result)
}

// GET /classes/:class_id/qr-codes
//
// Lists the roster of a classroom with each student's QR code id,
// creating codes for students that do not have one yet.
func (ctl *AttendanceController) ClassQRCodes(c *fiber.Ctx) error {
	classID, err := uuid.Parse(strings.TrimSpace(c.Params("class_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var owned int64
	if err := ctl.DB.WithContext(c.UserContext()).
		Table("class_teachers").
		Where("class_teacher_class_room_id = ? AND class_teacher_user_id = ?", classID, teacherID).
		Count(&owned).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if owned == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Classroom not found")
	}

	type rosterRow struct {
		StudentID     uuid.UUID
		StudentNumber string
		FullName      string
		QRCodeID      *uuid.UUID
		ScanCount     int
		ClassPoints   int
	}
	var rows []rosterRow
	err = ctl.DB.WithContext(c.UserContext()).
		Table("users").
		Select(`users.user_id AS student_id,
			COALESCE(users.user_student_number, '') AS student_number,
			users.user_full_name AS full_name,
			student_qr_codes.student_qr_code_id AS qr_code_id,
			(SELECT COUNT(*) FROM qr_code_scans WHERE qr_code_scans.qr_code_scan_qr_code_id = student_qr_codes.student_qr_code_id) AS scan_count,
			COALESCE(student_class_points.student_class_point_points, 0) AS class_points`).
		Joins("JOIN class_students ON class_students.class_student_user_id = users.user_id AND class_students.class_student_class_room_id = ?", classID).
		Joins("LEFT JOIN student_qr_codes ON student_qr_codes.student_qr_code_student_id = users.user_id AND student_qr_codes.student_qr_code_is_active = TRUE").
		Joins("LEFT JOIN student_class_points ON student_class_points.student_class_point_student_id = users.user_id AND student_class_points.student_class_point_class_room_id = ?", classID).
		Where("users.user_deleted_at IS NULL").
		Order("users.user_student_number ASC").
		Scan(&rows).Error
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.ClassQRCodeEntry, 0, len(rows))
	for _, r := range rows {
		entry := dto.ClassQRCodeEntry{
			StudentID:     r.StudentID,
			StudentNumber: r.StudentNumber,
			FullName:      r.FullName,
			ScanCount:     r.ScanCount,
			ClassPoints:   r.ClassPoints,
		}
		if r.QRCodeID != nil {
			entry.QRCodeID = *r.QRCodeID
		} else {
			code := model.StudentQRCodeModel{StudentID: r.StudentID, IsActive: true}
			if err := ctl.DB.WithContext(c.UserContext()).Create(&code).Error; err != nil {
				return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
			}
			entry.QRCodeID = code.ID
		}
		out = append(out, entry)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /my-qr-code
//
// Returns the calling student's own QR code with scan history, creating
// the code on first access.
func (ctl *AttendanceController) MyQRCode(c *fiber.Ctx) error {
	studentID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var code model.StudentQRCodeModel
	err = ctl.DB.WithContext(c.UserContext()).
		Where("student_qr_code_student_id = ? AND student_qr_code_is_active = TRUE", studentID).
		Take(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		code = model.StudentQRCodeModel{StudentID: studentID, IsActive: true}
		err = ctl.DB.WithContext(c.UserContext()).Create(&code).Error
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var scans []dto.ScanHistoryEntry
	if err := ctl.DB.WithContext(c.UserContext()).
		Table("qr_code_scans").
		Select(`qr_code_scans.qr_code_scan_id AS scan_id,
			qr_code_scans.qr_code_scan_scanned_by AS scanned_by,
			users.user_full_name AS scanned_by_name,
			qr_code_scans.qr_code_scan_lesson_session_id AS lesson_session_id,
			qr_code_scans.qr_code_scan_points_awarded AS points_awarded,
			qr_code_scans.qr_code_scan_scanned_at AS scanned_at`).
		Joins("JOIN users ON users.user_id = qr_code_scans.qr_code_scan_scanned_by").
		Where("qr_code_scans.qr_code_scan_qr_code_id = ?", code.ID).
		Order("qr_code_scans.qr_code_scan_scanned_at DESC").
		Limit(50).
		Scan(&scans).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	total := 0
	for _, s := range scans {
		total += s.PointsAwarded
	}

	return helper.JsonOK(c, "ok", dto.StudentQRCodeResponse{
		QRCodeID:    code.ID,
		StudentID:   code.StudentID,
		IsActive:    code.IsActive,
		LastUsedAt:  code.LastUsedAt,
		TotalPoints: total,
		Scans:       scans,
	})
}
