package dto

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* ===== Requests ===== */

type CreateQuizRequest struct {
	Name          string         `json:"quiz_name" validate:"required,max=120"`
	MaxScore      int            `json:"quiz_max_score" validate:"required,gt=0"`
	GradingMethod string         `json:"quiz_grading_method" validate:"required,oneof=manual quick rubric"`
	QuickButtons  datatypes.JSON `json:"quiz_quick_buttons" validate:"omitempty"`
}

type ScoreEntryRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Score     int       `json:"score"`
}

type SaveScoresRequest struct {
	Scores []ScoreEntryRequest `json:"scores" validate:"required,min=1,dive"`
}

/* ===== Responses ===== */

type QuizResponse struct {
	ID              uuid.UUID      `json:"quiz_id"`
	LessonSessionID uuid.UUID      `json:"quiz_lesson_session_id"`
	Name            string         `json:"quiz_name"`
	MaxScore        int            `json:"quiz_max_score"`
	GradingMethod   string         `json:"quiz_grading_method"`
	QuickButtons    datatypes.JSON `json:"quiz_quick_buttons"`
	CreatedAt       time.Time      `json:"quiz_created_at"`
}

type ScoreResponse struct {
	StudentID     uuid.UUID `json:"student_id"`
	StudentNumber string    `json:"student_number"`
	FullName      string    `json:"full_name"`
	Score         *int      `json:"score"` // nil when not graded yet
	IsGraded      bool      `json:"is_graded"`
}

type QuizStats struct {
	Count          int     `json:"count"`
	Average        float64 `json:"average"`
	Max            int     `json:"max"`
	Min            int     `json:"min"`
	TotalStudents  int     `json:"total_students"`
	GradedStudents int     `json:"graded_students"`
}

type QuizResultsResponse struct {
	Quiz   QuizResponse    `json:"quiz"`
	Scores []ScoreResponse `json:"scores"`
	Stats  *QuizStats      `json:"stats"`
}
