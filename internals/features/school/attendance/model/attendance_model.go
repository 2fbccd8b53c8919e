package model

import (
	"time"

	"github.com/google/uuid"
)

// StudentQRCodeModel maps `student_qr_codes`. The primary key doubles
// as the scannable code id printed into the QR image (image rendering
// itself lives outside this service).
type StudentQRCodeModel struct {
	ID uuid.UUID `json:"student_qr_code_id" gorm:"column:student_qr_code_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	StudentID uuid.UUID `json:"student_qr_code_student_id" gorm:"column:student_qr_code_student_id;type:uuid;not null;uniqueIndex:uq_student_qr_codes_student"`

	IsActive   bool       `json:"student_qr_code_is_active" gorm:"column:student_qr_code_is_active;not null;default:true"`
	LastUsedAt *time.Time `json:"student_qr_code_last_used_at" gorm:"column:student_qr_code_last_used_at"`

	CreatedAt time.Time `json:"student_qr_code_created_at" gorm:"column:student_qr_code_created_at;not null;autoCreateTime"`
}

func (StudentQRCodeModel) TableName() string { return "student_qr_codes" }

// QRCodeScanModel maps `qr_code_scans`: one row per scan event.
type QRCodeScanModel struct {
	ID uuid.UUID `json:"qr_code_scan_id" gorm:"column:qr_code_scan_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	QRCodeID        uuid.UUID  `json:"qr_code_scan_qr_code_id" gorm:"column:qr_code_scan_qr_code_id;type:uuid;not null;index:idx_qr_code_scans_code"`
	ScannedBy       uuid.UUID  `json:"qr_code_scan_scanned_by" gorm:"column:qr_code_scan_scanned_by;type:uuid;not null;index:idx_qr_code_scans_scanner"`
	LessonSessionID *uuid.UUID `json:"qr_code_scan_lesson_session_id" gorm:"column:qr_code_scan_lesson_session_id;type:uuid;index:idx_qr_code_scans_session"`

	PointsAwarded int `json:"qr_code_scan_points_awarded" gorm:"column:qr_code_scan_points_awarded;not null;default:1"`

	ScannedAt time.Time `json:"qr_code_scan_scanned_at" gorm:"column:qr_code_scan_scanned_at;not null;autoCreateTime"`
}

func (QRCodeScanModel) TableName() string { return "qr_code_scans" }

// StudentLessonPointsModel maps `student_lesson_points`: accumulated
// scan points per (student, lesson session). At most one row per pair.
type StudentLessonPointsModel struct {
	ID uuid.UUID `json:"student_lesson_point_id" gorm:"column:student_lesson_point_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	LessonSessionID uuid.UUID `json:"student_lesson_point_lesson_session_id" gorm:"column:student_lesson_point_lesson_session_id;type:uuid;not null;uniqueIndex:uq_student_lesson_points_pair,priority:1"`
	StudentID       uuid.UUID `json:"student_lesson_point_student_id" gorm:"column:student_lesson_point_student_id;type:uuid;not null;uniqueIndex:uq_student_lesson_points_pair,priority:2"`

	Points int `json:"student_lesson_point_points" gorm:"column:student_lesson_point_points;not null;default:0"`

	CreatedAt time.Time `json:"student_lesson_point_created_at" gorm:"column:student_lesson_point_created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"student_lesson_point_updated_at" gorm:"column:student_lesson_point_updated_at;not null;autoUpdateTime"`
}

func (StudentLessonPointsModel) TableName() string { return "student_lesson_points" }

// StudentClassPointsModel maps `student_class_points`: the stored
// per-classroom summary. `points` excludes attendance points; a
// legacy shape that stored the total is corrected at read time by the
// grades service. Rows are created lazily on the first point-affecting
// event and updated in place.
type StudentClassPointsModel struct {
	ID uuid.UUID `json:"student_class_point_id" gorm:"column:student_class_point_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	ClassRoomID uuid.UUID `json:"student_class_point_class_room_id" gorm:"column:student_class_point_class_room_id;type:uuid;not null;uniqueIndex:uq_student_class_points_pair,priority:1"`
	StudentID   uuid.UUID `json:"student_class_point_student_id" gorm:"column:student_class_point_student_id;type:uuid;not null;uniqueIndex:uq_student_class_points_pair,priority:2"`

	Points           int     `json:"student_class_point_points" gorm:"column:student_class_point_points;not null;default:0"`
	AttendanceRate   float64 `json:"student_class_point_attendance_rate" gorm:"column:student_class_point_attendance_rate;type:numeric(5,2);not null;default:0"`
	AttendancePoints int     `json:"student_class_point_attendance_points" gorm:"column:student_class_point_attendance_points;not null;default:0"`

	CreatedAt time.Time `json:"student_class_point_created_at" gorm:"column:student_class_point_created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"student_class_point_updated_at" gorm:"column:student_class_point_updated_at;not null;autoUpdateTime"`
}

func (StudentClassPointsModel) TableName() string { return "student_class_points" }
