package dto

import "github.com/google/uuid"

/* ===== Requests ===== */

type GroupDefinition struct {
	GroupNumber int         `json:"group_number" validate:"min=1"`
	GroupName   string      `json:"group_name" validate:"max=120"`
	MemberIDs   []uuid.UUID `json:"member_ids" validate:"required,min=1"`
}

// ReplaceGroupsRequest swaps the whole group layout of a session in
// one call; the previous layout is discarded.
type ReplaceGroupsRequest struct {
	Groups []GroupDefinition `json:"groups" validate:"required,min=1,dive"`
}

/* ===== Responses ===== */

type GroupMemberResponse struct {
	StudentID     uuid.UUID `json:"student_id"`
	StudentNumber string    `json:"student_number"`
	FullName      string    `json:"full_name"`
}

type GroupResponse struct {
	GroupID     uuid.UUID             `json:"group_id"`
	GroupNumber int                   `json:"group_number"`
	GroupName   string                `json:"group_name"`
	Members     []GroupMemberResponse `json:"members"`
}
