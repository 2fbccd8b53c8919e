package model

import (
	"time"

	"github.com/google/uuid"
)

// PeerEvaluationModel maps `peer_evaluations`: one evaluating group's
// vote for a lesson session, addressed by a public evaluator token.
type PeerEvaluationModel struct {
	ID uuid.UUID `json:"peer_evaluation_id" gorm:"column:peer_evaluation_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	LessonSessionID uuid.UUID `json:"peer_evaluation_lesson_session_id" gorm:"column:peer_evaluation_lesson_session_id;type:uuid;not null;index:idx_peer_evaluations_session"`

	EvaluatorToken   uuid.UUID  `json:"peer_evaluation_evaluator_token" gorm:"column:peer_evaluation_evaluator_token;type:uuid;not null;uniqueIndex:uq_peer_evaluations_token"`
	EvaluatorGroupID *uuid.UUID `json:"peer_evaluation_evaluator_group_id" gorm:"column:peer_evaluation_evaluator_group_id;type:uuid;index:idx_peer_evaluations_evaluator"`

	// Placement columns stay NULL until the group submits through its
	// token link.
	FirstPlaceGroupID  *uuid.UUID `json:"peer_evaluation_first_place_group_id" gorm:"column:peer_evaluation_first_place_group_id;type:uuid;index:idx_peer_evaluations_first"`
	SecondPlaceGroupID *uuid.UUID `json:"peer_evaluation_second_place_group_id" gorm:"column:peer_evaluation_second_place_group_id;type:uuid;index:idx_peer_evaluations_second"`

	FirstPlaceReason  string `json:"peer_evaluation_first_place_reason" gorm:"column:peer_evaluation_first_place_reason;type:text"`
	SecondPlaceReason string `json:"peer_evaluation_second_place_reason" gorm:"column:peer_evaluation_second_place_reason;type:text"`
	GeneralComment    string `json:"peer_evaluation_general_comment" gorm:"column:peer_evaluation_general_comment;type:text"`

	SubmittedAt *time.Time `json:"peer_evaluation_submitted_at" gorm:"column:peer_evaluation_submitted_at"`

	CreatedAt time.Time `json:"peer_evaluation_created_at" gorm:"column:peer_evaluation_created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"peer_evaluation_updated_at" gorm:"column:peer_evaluation_updated_at;not null;autoUpdateTime"`
}

func (PeerEvaluationModel) TableName() string { return "peer_evaluations" }

// ContributionEvaluationModel maps `contribution_evaluations`:
// per-member contribution score tied to a peer evaluation.
type ContributionEvaluationModel struct {
	ID uuid.UUID `json:"contribution_evaluation_id" gorm:"column:contribution_evaluation_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	PeerEvaluationID uuid.UUID `json:"contribution_evaluation_peer_evaluation_id" gorm:"column:contribution_evaluation_peer_evaluation_id;type:uuid;not null;uniqueIndex:uq_contribution_evaluations_pair,priority:1"`
	EvaluateeID      uuid.UUID `json:"contribution_evaluation_evaluatee_id" gorm:"column:contribution_evaluation_evaluatee_id;type:uuid;not null;uniqueIndex:uq_contribution_evaluations_pair,priority:2"`

	Score int `json:"contribution_evaluation_score" gorm:"column:contribution_evaluation_score;not null"`

	CreatedAt time.Time `json:"contribution_evaluation_created_at" gorm:"column:contribution_evaluation_created_at;not null;autoCreateTime"`
	UpdatedAt time.Time `json:"contribution_evaluation_updated_at" gorm:"column:contribution_evaluation_updated_at;not null;autoUpdateTime"`
}

func (ContributionEvaluationModel) TableName() string { return "contribution_evaluations" }
