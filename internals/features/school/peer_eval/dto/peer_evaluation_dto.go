package dto

import (
	"time"

	"github.com/google/uuid"
)

/* ===== Requests ===== */

type ContributionEntryRequest struct {
	EvaluateeID uuid.UUID `json:"evaluatee_id" validate:"required"`
	Score       int       `json:"score" validate:"min=1,max=5"`
}

// SubmitEvaluationRequest is the public token-form payload.
type SubmitEvaluationRequest struct {
	FirstPlaceGroupID  uuid.UUID `json:"first_place_group_id" validate:"required"`
	SecondPlaceGroupID uuid.UUID `json:"second_place_group_id" validate:"required"`
	FirstPlaceReason   string    `json:"first_place_reason" validate:"max=2000"`
	SecondPlaceReason  string    `json:"second_place_reason" validate:"max=2000"`
	GeneralComment     string    `json:"general_comment" validate:"max=2000"`

	Contributions []ContributionEntryRequest `json:"contributions" validate:"dive"`
}

/* ===== Responses ===== */

type GroupOption struct {
	GroupID     uuid.UUID `json:"group_id"`
	GroupNumber int       `json:"group_number"`
	GroupName   string    `json:"group_name"`
}

type MemberOption struct {
	StudentID     uuid.UUID `json:"student_id"`
	StudentNumber string    `json:"student_number"`
	FullName      string    `json:"full_name"`
}

// EvaluationFormResponse feeds the public submission form behind a
// token link.
type EvaluationFormResponse struct {
	Token          uuid.UUID      `json:"token"`
	SessionID      uuid.UUID      `json:"lesson_session_id"`
	SessionNumber  int            `json:"session_number"`
	SessionTopic   string         `json:"session_topic"`
	Closed         bool           `json:"closed"`
	Submitted      bool           `json:"submitted"`
	EvaluatorGroup *GroupOption   `json:"evaluator_group"`
	Candidates     []GroupOption  `json:"candidates"`
	OwnMembers     []MemberOption `json:"own_members"`
}

// EvaluationLinkEntry is one row of the teacher's link listing.
type EvaluationLinkEntry struct {
	GroupID     uuid.UUID  `json:"group_id"`
	GroupNumber int        `json:"group_number"`
	GroupName   string     `json:"group_name"`
	Token       uuid.UUID  `json:"token"`
	Submitted   bool       `json:"submitted"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// GroupStat is one ranked row of the session results. TotalScore is
// first-place votes weighted twice plus second-place votes.
type GroupStat struct {
	GroupID          uuid.UUID `json:"group_id"`
	GroupNumber      int       `json:"group_number"`
	GroupName        string    `json:"group_name"`
	FirstPlaceVotes  int       `json:"first_place_votes"`
	SecondPlaceVotes int       `json:"second_place_votes"`
	TotalScore       int       `json:"total_score"`
	Rank             int       `json:"rank"`
}

type EvaluationComment struct {
	GroupNumber       int    `json:"group_number"`
	FirstPlaceReason  string `json:"first_place_reason"`
	SecondPlaceReason string `json:"second_place_reason"`
	GeneralComment    string `json:"general_comment"`
}

type EvaluationResultsResponse struct {
	SessionID      uuid.UUID           `json:"lesson_session_id"`
	SessionNumber  int                 `json:"session_number"`
	Closed         bool                `json:"closed"`
	SubmittedCount int                 `json:"submitted_count"`
	TotalGroups    int                 `json:"total_groups"`
	Groups         []GroupStat         `json:"groups"`
	Comments       []EvaluationComment `json:"comments"`
}
