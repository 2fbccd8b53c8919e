package model

import (
	"time"

	"github.com/google/uuid"
)

// GroupModel maps the `groups` table; groups are scoped to a single
// lesson session.
type GroupModel struct {
	ID uuid.UUID `json:"group_id" gorm:"column:group_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	LessonSessionID uuid.UUID `json:"group_lesson_session_id" gorm:"column:group_lesson_session_id;type:uuid;not null;index:idx_groups_session"`

	GroupNumber int    `json:"group_number" gorm:"column:group_number;not null"`
	GroupName   string `json:"group_name" gorm:"column:group_name;type:varchar(120)"`

	CreatedAt time.Time `json:"group_created_at" gorm:"column:group_created_at;not null;autoCreateTime"`
}

func (GroupModel) TableName() string { return "groups" }

// GroupMemberModel maps `group_members`.
type GroupMemberModel struct {
	ID uuid.UUID `json:"group_member_id" gorm:"column:group_member_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	GroupID   uuid.UUID `json:"group_member_group_id" gorm:"column:group_member_group_id;type:uuid;not null;index:idx_group_members_group"`
	StudentID uuid.UUID `json:"group_member_student_id" gorm:"column:group_member_student_id;type:uuid;not null;index:idx_group_members_student"`

	Role string `json:"group_member_role" gorm:"column:group_member_role;type:varchar(64)"`

	CreatedAt time.Time `json:"group_member_created_at" gorm:"column:group_member_created_at;not null;autoCreateTime"`
}

func (GroupMemberModel) TableName() string { return "group_members" }
