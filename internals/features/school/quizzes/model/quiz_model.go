package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizModel maps the `quizzes` table. One lesson session normally has
// one quiz; readers that must pick one do so by created_at, then id.
type QuizModel struct {
	ID uuid.UUID `json:"quiz_id" gorm:"column:quiz_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	LessonSessionID uuid.UUID `json:"quiz_lesson_session_id" gorm:"column:quiz_lesson_session_id;type:uuid;not null;index:idx_quizzes_session"`

	Name          string `json:"quiz_name" gorm:"column:quiz_name;type:varchar(120);not null"`
	MaxScore      int    `json:"quiz_max_score" gorm:"column:quiz_max_score;not null;default:100"`
	GradingMethod string `json:"quiz_grading_method" gorm:"column:quiz_grading_method;type:varchar(32);not null;default:manual"`

	// Per-quiz quick grading buttons for the grading screen, e.g.
	// {"full":100,"half":50,"zero":0}.
	QuickButtons datatypes.JSON `json:"quiz_quick_buttons" gorm:"column:quiz_quick_buttons;type:jsonb"`

	CreatedAt time.Time `json:"quiz_created_at" gorm:"column:quiz_created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"quiz_updated_at" gorm:"column:quiz_updated_at;not null;autoUpdateTime"`
}

func (QuizModel) TableName() string { return "quizzes" }

// QuizScoreModel maps `quiz_scores`. Rows are an append-only
// correction log: re-grading cancels the old row and inserts a new
// one; at most one non-cancelled row exists per (quiz, student).
// Cancelled rows are kept for audit and never physically deleted.
type QuizScoreModel struct {
	ID uuid.UUID `json:"quiz_score_id" gorm:"column:quiz_score_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	QuizID    uuid.UUID `json:"quiz_score_quiz_id" gorm:"column:quiz_score_quiz_id;type:uuid;not null;index:idx_quiz_scores_quiz_student,priority:1"`
	StudentID uuid.UUID `json:"quiz_score_student_id" gorm:"column:quiz_score_student_id;type:uuid;not null;index:idx_quiz_scores_quiz_student,priority:2"`

	Score       int       `json:"quiz_score_value" gorm:"column:quiz_score_value;not null"`
	IsCancelled bool      `json:"quiz_score_is_cancelled" gorm:"column:quiz_score_is_cancelled;not null;default:false;index:idx_quiz_scores_quiz_student,priority:3"`
	GradedBy    uuid.UUID `json:"quiz_score_graded_by" gorm:"column:quiz_score_graded_by;type:uuid;not null"`

	CreatedAt time.Time `json:"quiz_score_created_at" gorm:"column:quiz_score_created_at;not null;autoCreateTime"`
}

func (QuizScoreModel) TableName() string { return "quiz_scores" }
