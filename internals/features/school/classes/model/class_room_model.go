package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClassRoomModel maps the `class_rooms` table.
type ClassRoomModel struct {
	ID uuid.UUID `json:"class_room_id" gorm:"column:class_room_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	Name        string `json:"class_room_name" gorm:"column:class_room_name;type:varchar(120);not null"`
	Description string `json:"class_room_description" gorm:"column:class_room_description;type:text"`

	CreatedAt time.Time      `json:"class_room_created_at" gorm:"column:class_room_created_at;not null;autoCreateTime"`
	UpdatedAt time.Time      `json:"class_room_updated_at" gorm:"column:class_room_updated_at;not null;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"class_room_deleted_at" gorm:"column:class_room_deleted_at;index"`
}

func (ClassRoomModel) TableName() string { return "class_rooms" }

// ClassTeacherModel maps `class_teachers` (classroom ↔ teacher m2m).
type ClassTeacherModel struct {
	ID uuid.UUID `json:"class_teacher_id" gorm:"column:class_teacher_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	ClassRoomID uuid.UUID `json:"class_teacher_class_room_id" gorm:"column:class_teacher_class_room_id;type:uuid;not null;uniqueIndex:uq_class_teachers_pair,priority:1"`
	UserID      uuid.UUID `json:"class_teacher_user_id" gorm:"column:class_teacher_user_id;type:uuid;not null;uniqueIndex:uq_class_teachers_pair,priority:2"`

	CreatedAt time.Time `json:"class_teacher_created_at" gorm:"column:class_teacher_created_at;not null;autoCreateTime"`
}

func (ClassTeacherModel) TableName() string { return "class_teachers" }

// ClassStudentModel maps `class_students` (classroom ↔ student m2m).
type ClassStudentModel struct {
	ID uuid.UUID `json:"class_student_id" gorm:"column:class_student_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	ClassRoomID uuid.UUID `json:"class_student_class_room_id" gorm:"column:class_student_class_room_id;type:uuid;not null;uniqueIndex:uq_class_students_pair,priority:1"`
	UserID      uuid.UUID `json:"class_student_user_id" gorm:"column:class_student_user_id;type:uuid;not null;uniqueIndex:uq_class_students_pair,priority:2"`

	CreatedAt time.Time `json:"class_student_created_at" gorm:"column:class_student_created_at;not null;autoCreateTime"`
}

func (ClassStudentModel) TableName() string { return "class_students" }
