package dto

import (
	"time"

	"github.com/google/uuid"
)

/* ===== Requests ===== */

type CreateClassRequest struct {
	Name        string `json:"name" validate:"required,max=120"`
	Description string `json:"description" validate:"max=2000"`
}

type UpdateClassRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// EnrollStudentsRequest adds students to a classroom roster. Already
// enrolled students are skipped, not rejected.
type EnrollStudentsRequest struct {
	StudentIDs []uuid.UUID `json:"student_ids" validate:"required,min=1"`
}

/* ===== Responses ===== */

type ClassResponse struct {
	ID           uuid.UUID `json:"class_room_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	StudentCount int       `json:"student_count"`
	SessionCount int       `json:"session_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type RosterEntry struct {
	StudentID     uuid.UUID `json:"student_id"`
	StudentNumber string    `json:"student_number"`
	FullName      string    `json:"full_name"`
	EnrolledAt    time.Time `json:"enrolled_at"`
}
