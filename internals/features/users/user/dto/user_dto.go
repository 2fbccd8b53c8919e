package dto

/* ===== Requests ===== */

type CreateStudentRequest struct {
	Email         string `json:"email" validate:"required,email"`
	Password      string `json:"password" validate:"required,min=8,max=72"`
	FullName      string `json:"full_name" validate:"required,max=120"`
	StudentNumber string `json:"student_number" validate:"required,max=32"`
}

type UpdateStudentRequest struct {
	FullName      *string `json:"full_name" validate:"omitempty,max=120"`
	StudentNumber *string `json:"student_number" validate:"omitempty,max=32"`
	IsActive      *bool   `json:"is_active"`
}
