package model

import (
	"time"

	"github.com/google/uuid"
)

// LessonSessionModel maps the `lesson_sessions` table. The session
// number is the ordering key everywhere, never the creation timestamp.
type LessonSessionModel struct {
	ID uuid.UUID `json:"lesson_session_id" gorm:"column:lesson_session_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	ClassRoomID uuid.UUID `json:"lesson_session_class_room_id" gorm:"column:lesson_session_class_room_id;type:uuid;not null;uniqueIndex:uq_lesson_sessions_class_number,priority:1;index:idx_lesson_sessions_class"`

	SessionNumber int       `json:"lesson_session_number" gorm:"column:lesson_session_number;not null;uniqueIndex:uq_lesson_sessions_class_number,priority:2"`
	Date          time.Time `json:"lesson_session_date" gorm:"column:lesson_session_date;type:date;not null;index:idx_lesson_sessions_date"`
	Topic         string    `json:"lesson_session_topic" gorm:"column:lesson_session_topic;type:varchar(255)"`

	HasQuiz              bool `json:"lesson_session_has_quiz" gorm:"column:lesson_session_has_quiz;not null;default:false"`
	HasPeerEvaluation    bool `json:"lesson_session_has_peer_evaluation" gorm:"column:lesson_session_has_peer_evaluation;not null;default:false"`
	PeerEvaluationClosed bool `json:"lesson_session_peer_evaluation_closed" gorm:"column:lesson_session_peer_evaluation_closed;not null;default:false"`

	CreatedAt time.Time `json:"lesson_session_created_at" gorm:"column:lesson_session_created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"lesson_session_updated_at" gorm:"column:lesson_session_updated_at;not null;autoUpdateTime"`
}

func (LessonSessionModel) TableName() string { return "lesson_sessions" }
