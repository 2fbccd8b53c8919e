package dto

import (
	"time"

	"github.com/google/uuid"
)

/* ===== Responses ===== */

// ScanResult is returned to the scanning teacher right after a QR
// attendance scan.
type ScanResult struct {
	StudentID       uuid.UUID  `json:"student_id"`
	StudentName     string     `json:"student_name"`
	LessonSessionID *uuid.UUID `json:"lesson_session_id"`
	SessionNumber   *int       `json:"session_number"`
	ClassRoomID     *uuid.UUID `json:"class_room_id"`
	PointsAwarded   int        `json:"points_awarded"`
	ClassPoints     int        `json:"class_points"`
	PointsAdded     bool       `json:"points_added"`
	ScannedAt       time.Time  `json:"scanned_at"`
}

type ScanHistoryEntry struct {
	ScanID          uuid.UUID  `json:"qr_code_scan_id"`
	ScannedBy       uuid.UUID  `json:"scanned_by"`
	ScannedByName   string     `json:"scanned_by_name"`
	LessonSessionID *uuid.UUID `json:"lesson_session_id"`
	PointsAwarded   int        `json:"points_awarded"`
	ScannedAt       time.Time  `json:"scanned_at"`
}

type StudentQRCodeResponse struct {
	QRCodeID    uuid.UUID          `json:"student_qr_code_id"`
	StudentID   uuid.UUID          `json:"student_id"`
	IsActive    bool               `json:"is_active"`
	LastUsedAt  *time.Time         `json:"last_used_at"`
	TotalPoints int                `json:"total_points"`
	Scans       []ScanHistoryEntry `json:"scans"`
}

// ClassQRCodeEntry is one roster row of the per-class QR listing.
type ClassQRCodeEntry struct {
	StudentID     uuid.UUID `json:"student_id"`
	StudentNumber string    `json:"student_number"`
	FullName      string    `json:"full_name"`
	QRCodeID      uuid.UUID `json:"student_qr_code_id"`
	ScanCount     int       `json:"scan_count"`
	ClassPoints   int       `json:"class_points"`
}
