package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel maps the `users` table. Teachers and students share the
// table; the role column decides which surfaces they may reach.
type UserModel struct {
	ID uuid.UUID `json:"user_id" gorm:"column:user_id;type:uuid;primaryKey;default:gen_random_uuid()"`

	Email    string `json:"user_email" gorm:"column:user_email;type:varchar(255);not null;uniqueIndex:uq_users_email"`
	Password string `json:"-" gorm:"column:user_password;type:varchar(255);not null"`
	FullName string `json:"user_full_name" gorm:"column:user_full_name;type:varchar(120);not null"`

	// teacher | student | admin
	Role string `json:"user_role" gorm:"column:user_role;type:varchar(16);not null;default:student;index:idx_users_role"`

	// Only students carry a student number; it is the ordering key for
	// every class roster and evaluation listing.
	StudentNumber *string `json:"user_student_number" gorm:"column:user_student_number;type:varchar(32);uniqueIndex:uq_users_student_number"`

	// Running overall points (across classes), kept for the dashboards.
	Points int `json:"user_points" gorm:"column:user_points;not null;default:0"`

	IsActive bool `json:"user_is_active" gorm:"column:user_is_active;not null;default:true"`

	CreatedAt time.Time      `json:"user_created_at" gorm:"column:user_created_at;not null;autoCreateTime"`
	UpdatedAt time.Time      `json:"user_updated_at" gorm:"column:user_updated_at;not null;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"user_deleted_at" gorm:"column:user_deleted_at;index"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) IsTeacher() bool { return u.Role == "teacher" || u.Role == "admin" }
func (u *UserModel) IsStudent() bool { return u.Role == "student" }
