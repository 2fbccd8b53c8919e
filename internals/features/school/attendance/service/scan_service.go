package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dto "kelasku_backend/internals/features/school/attendance/dto"
	model "kelasku_backend/internals/features/school/attendance/model"
	sessionModel "kelasku_backend/internals/features/school/sessions/model"
	userModel "kelasku_backend/internals/features/users/user/model"
)

var ErrQRCodeNotFound = errors.New("qr code not found or inactive")

const scanPoints = 1

type ScanService struct {
	DB *gorm.DB
}

func NewScanService(db *gorm.DB) *ScanService {
	return &ScanService{DB: db}
}

// RecordScan processes one teacher scan of a student QR code: it logs
// the scan event, then increments the per-session and per-class point
// counters. Everything runs in a single transaction so the two
// counters cannot drift apart on a crash between updates.
func (s *ScanService) RecordScan(ctx context.Context, teacherID, qrCodeID uuid.UUID, classID *uuid.UUID) (*dto.ScanResult, error) {
	var result *dto.ScanResult

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var qr model.StudentQRCodeModel
		err := tx.
			Where("student_qr_code_id = ? AND student_qr_code_is_active = TRUE", qrCodeID).
			Take(&qr).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQRCodeNotFound
		}
		if err != nil {
			return err
		}

		var student userModel.UserModel
		if err := tx.Where("user_id = ?", qr.StudentID).Take(&student).Error; err != nil {
			return err
		}

		// Optional target classroom, only honored when the scanning
		// teacher owns it.
		var targetClassID *uuid.UUID
		if classID != nil {
			var n int64
			if err := tx.Table("class_teachers").
				Where("class_teacher_class_room_id = ? AND class_teacher_user_id = ?", *classID, teacherID).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				targetClassID = classID
			}
		}

		session, err := s.currentSession(tx, teacherID, targetClassID)
		if err != nil {
			return err
		}

		scan := model.QRCodeScanModel{
			QRCodeID:      qr.ID,
			ScannedBy:     teacherID,
			PointsAwarded: scanPoints,
		}
		if session != nil {
			scan.LessonSessionID = &session.ID
		}
		if err := tx.Create(&scan).Error; err != nil {
			return err
		}

		updateClassID := targetClassID
		if session != nil {
			updateClassID = &session.ClassRoomID
		}

		if session != nil {
			if err := incrementLessonPoints(tx, session.ID, qr.StudentID, scanPoints); err != nil {
				return err
			}
		}
		classPoints := 0
		if updateClassID != nil {
			total, err := incrementClassPoints(tx, *updateClassID, qr.StudentID, scanPoints)
			if err != nil {
				return err
			}
			classPoints = total
		}

		now := time.Now()
		if err := tx.Model(&model.StudentQRCodeModel{}).
			Where("student_qr_code_id = ?", qr.ID).
			Update("student_qr_code_last_used_at", now).Error; err != nil {
			return err
		}

		result = &dto.ScanResult{
			StudentID:     qr.StudentID,
			StudentName:   student.FullName,
			ClassRoomID:   updateClassID,
			PointsAwarded: scanPoints,
			ClassPoints:   classPoints,
			PointsAdded:   updateClassID != nil,
			ScannedAt:     now,
		}
		if session != nil {
			result.LessonSessionID = &session.ID
			result.SessionNumber = &session.SessionNumber
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// currentSession picks today's session: the latest created one of the
// target classroom, or of any classroom the teacher owns when no
// target was given. Nil when no session runs today.
func (s *ScanService) currentSession(tx *gorm.DB, teacherID uuid.UUID, classID *uuid.UUID) (*sessionModel.LessonSessionModel, error) {
	q := tx.Model(&sessionModel.LessonSessionModel{}).
		Where("lesson_session_date = CURRENT_DATE")
	if classID != nil {
		q = q.Where("lesson_session_class_room_id = ?", *classID)
	} else {
		q = q.Where("lesson_session_class_room_id IN (SELECT class_teacher_class_room_id FROM class_teachers WHERE class_teacher_user_id = ?)", teacherID)
	}

	var sess sessionModel.LessonSessionModel
	err := q.Order("lesson_session_created_at DESC").First(&sess).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sess, nil
}

func incrementLessonPoints(tx *gorm.DB, sessionID, studentID uuid.UUID, delta int) error {
	var row model.StudentLessonPointsModel
	err := tx.
		Where("student_lesson_point_lesson_session_id = ? AND student_lesson_point_student_id = ?", sessionID, studentID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return tx.Create(&model.StudentLessonPointsModel{
			LessonSessionID: sessionID,
			StudentID:       studentID,
			Points:          delta,
		}).Error
	}
	if err != nil {
		return err
	}
	return tx.Model(&model.StudentLessonPointsModel{}).
		Where("student_lesson_point_id = ?", row.ID).
		Update("student_lesson_point_points", gorm.Expr("student_lesson_point_points + ?", delta)).Error
}

func incrementClassPoints(tx *gorm.DB, classID, studentID uuid.UUID, delta int) (int, error) {
	var row model.StudentClassPointsModel
	err := tx.
		Where("student_class_point_class_room_id = ? AND student_class_point_student_id = ?", classID, studentID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = model.StudentClassPointsModel{
			ClassRoomID: classID,
			StudentID:   studentID,
			Points:      delta,
		}
		if err := tx.Create(&row).Error; err != nil {
			return 0, err
		}
		return delta, nil
	}
	if err != nil {
		return 0, err
	}
	if err := tx.Model(&model.StudentClassPointsModel{}).
		Where("student_class_point_id = ?", row.ID).
		Update("student_class_point_points", gorm.Expr("student_class_point_points + ?", delta)).Error; err != nil {
		return 0, err
	}
	return row.Points + delta, nil
}
