package dto

import (
	"time"

	"github.com/google/uuid"
)

/* ===== Requests ===== */

// CreateSessionRequest opens a numbered session in a classroom. When
// SessionNumber is omitted the next free number is assigned.
type CreateSessionRequest struct {
	SessionNumber *int   `json:"session_number" validate:"omitempty,min=1"`
	Date          string `json:"date" validate:"required,datetime=2006-01-02"`
	Topic         string `json:"topic" validate:"max=255"`
}

type UpdateSessionRequest struct {
	Date  *string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Topic *string `json:"topic" validate:"omitempty,max=255"`
}

/* ===== Responses ===== */

type SessionResponse struct {
	ID                   uuid.UUID `json:"lesson_session_id"`
	ClassRoomID          uuid.UUID `json:"class_room_id"`
	SessionNumber        int       `json:"session_number"`
	Label                string    `json:"label"`
	Date                 string    `json:"date"`
	Topic                string    `json:"topic"`
	HasQuiz              bool      `json:"has_quiz"`
	HasPeerEvaluation    bool      `json:"has_peer_evaluation"`
	PeerEvaluationClosed bool      `json:"peer_evaluation_closed"`
	CreatedAt            time.Time `json:"created_at"`
}

// SessionDetailResponse adds the per-session activity counts shown on
// the session page.
type SessionDetailResponse struct {
	SessionResponse
	QuizCount     int `json:"quiz_count"`
	GroupCount    int `json:"group_count"`
	ScannedCount  int `json:"scanned_count"`
	EvaluatedBy   int `json:"evaluated_by"`
	TotalStudents int `json:"total_students"`
}
