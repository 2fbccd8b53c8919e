package dto

import (
	"time"

	"github.com/google/uuid"

	repository "kelasku_backend/internals/features/school/grades/repository"
)

/* ===== Requests ===== */

// UpdateAttendanceRateRequest is the JSON body of
// POST /classes/:class_id/attendance-rate.
type UpdateAttendanceRateRequest struct {
	StudentID        *uuid.UUID `json:"student_id" validate:"required"`
	AttendanceRate   *float64   `json:"attendance_rate" validate:"required"`
	AttendancePoints int        `json:"attendance_points" validate:"omitempty,gte=0"`
}

/* ===== Evaluation view (per-class) ===== */

// SessionBreakdown is one student's resolved sub-scores for one
// lesson session. The note fields record why a sub-score was
// substituted with zero after a lookup failure, so the substitution
// policy stays visible instead of being swallowed.
type SessionBreakdown struct {
	QRPoints          int       `json:"qr_points"`
	QuizScore         int       `json:"quiz_score"`
	PeerScore         int       `json:"peer_score"`
	TotalScore        int       `json:"total_score"`
	Date              time.Time `json:"date"`
	HasQuiz           bool      `json:"has_quiz"`
	HasPeerEvaluation bool      `json:"has_peer_evaluation"`
	QuizScoreNote     string    `json:"quiz_score_note,omitempty"`
	PeerScoreNote     string    `json:"peer_score_note,omitempty"`
}

// StudentEvaluation is one roster row of the class evaluation table.
// SessionData is keyed by the human-readable session label ("第N回").
type StudentEvaluation struct {
	Student            repository.StudentInfo      `json:"student"`
	TotalPoints        int                         `json:"total_points"`
	TotalPeerScore     int                         `json:"total_peer_score"`
	TotalQuizScore     int                         `json:"total_quiz_score"`
	TotalCombinedScore int                         `json:"total_combined_score"`
	AttendancePoints   int                         `json:"attendance_points"`
	AttendanceRate     float64                     `json:"attendance_rate"`
	MultipliedPoints   int                         `json:"multiplied_points"`
	Multiplier         int                         `json:"multiplier"`
	SessionData        map[string]SessionBreakdown `json:"session_data"`
	SessionCount       int                         `json:"session_count"`
	AveragePoints      float64                     `json:"average_points"`
	ClassPoints        int                         `json:"class_points"`
	StudentPoints      int                         `json:"student_points"`
	QRPoints           int                         `json:"qr_points"`
}

// ClassEvaluation is the full aggregation result handed to the
// rendering collaborator.
type ClassEvaluation struct {
	Classroom           repository.ClassroomInfo     `json:"classroom"`
	StudentEvaluations  []StudentEvaluation          `json:"student_evaluations"`
	SessionList         []string                     `json:"session_list"`
	Sessions            []repository.SessionInfo     `json:"sessions"`
	SessionPeerAverages map[uuid.UUID]*float64       `json:"session_peer_averages"`
	TotalSessions       int                          `json:"total_sessions"`
}

/* ===== Points summary view (simpler variant) ===== */

type StudentGrade struct {
	Student       repository.StudentInfo         `json:"student"`
	TotalPoints   int                            `json:"total_points"`
	AveragePoints float64                        `json:"average_points"`
	SessionCount  int                            `json:"session_count"`
	LessonPoints  []repository.LessonPointRecord `json:"lesson_points"`
	GradeLevel    string                         `json:"grade_level"`
	GradeColor    string                         `json:"grade_color"`
	OverallPoints int                            `json:"overall_points"`
	ClassPoints   *int                           `json:"class_points"`
}

type ClassStats struct {
	TotalStudents int     `json:"total_students"`
	ClassAverage  float64 `json:"class_average"`
	MaxAverage    float64 `json:"max_average"`
	MinAverage    float64 `json:"min_average"`
}

type ClassPointsSummary struct {
	Classroom     repository.ClassroomInfo `json:"classroom"`
	StudentGrades []StudentGrade           `json:"student_grades"`
	Stats         ClassStats               `json:"class_stats"`
}
