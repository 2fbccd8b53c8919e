package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	authDTO "kelasku_backend/internals/features/users/auth/dto"
	dto "kelasku_backend/internals/features/users/user/dto"
	model "kelasku_backend/internals/features/users/user/model"
	helper "kelasku_backend/internals/helpers"
)

// StudentController is the teacher-side management surface for
// student accounts.
type StudentController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, Validator: validator.New()}
}

func mapUserToResponse(u *model.UserModel) authDTO.UserResponse {
	return authDTO.UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		FullName:      u.FullName,
		Role:          u.Role,
		StudentNumber: u.StudentNumber,
		Points:        u.Points,
		IsActive:      u.IsActive,
		CreatedAt:     u.CreatedAt,
	}
}

// POST /students
func (ctl *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	number := strings.TrimSpace(req.StudentNumber)

	var n int64
	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&model.UserModel{}).
		Where("user_email = ? OR user_student_number = ?", email, number).
		Count(&n).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if n > 0 {
		return helper.JsonError(c, fiber.StatusConflict, "Email or student number already used")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, "Could not hash password")
	}

	user := model.UserModel{
		Email:         email,
		Password:      string(hash),
		FullName:      strings.TrimSpace(req.FullName),
		Role:          "student",
		StudentNumber: &number,
		IsActive:      true,
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(&user).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Student created", mapUserToResponse(&user))
}

// GET /students
func (ctl *StudentController) List(c *fiber.Ctx) error {
	page := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).
		Model(&model.UserModel{}).
		Where("user_role = ?", "student")

	if search := strings.TrimSpace(c.Query("q")); search != "" {
		like := "%" + search + "%"
		q = q.Where("user_full_name ILIKE ? OR user_student_number ILIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var rows []model.UserModel
	if err := q.
		Order("user_student_number ASC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&rows).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]authDTO.UserResponse, 0, len(rows))
	for i := range rows {
		out = append(out, mapUserToResponse(&rows[i]))
	}
	return helper.JsonList(c, "ok", out, helper.BuildPaginationFromPage(total, page.Page, page.PerPage))
}

// GET /students/:student_id
func (ctl *StudentController) Detail(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(strings.TrimSpace(c.Params("student_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student ID")
	}

	var user model.UserModel
	err = ctl.DB.WithContext(c.UserContext()).
		Where("user_id = ? AND user_role = ?", studentID, "student").
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", mapUserToResponse(&user))
}

// PATCH /students/:student_id
func (ctl *StudentController) Update(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(strings.TrimSpace(c.Params("student_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student ID")
	}

	var user model.UserModel
	err = ctl.DB.WithContext(c.UserContext()).
		Where("user_id = ? AND user_role = ?", studentID, "student").
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		name := strings.TrimSpace(*req.FullName)
		if name == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "Full name cannot be empty")
		}
		updates["user_full_name"] = name
		user.FullName = name
	}
	if req.StudentNumber != nil {
		number := strings.TrimSpace(*req.StudentNumber)
		if number == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "Student number cannot be empty")
		}
		var n int64
		if err := ctl.DB.WithContext(c.UserContext()).
			Model(&model.UserModel{}).
			Where("user_student_number = ? AND user_id <> ?", number, user.ID).
			Count(&n).Error; err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		if n > 0 {
			return helper.JsonError(c, fiber.StatusConflict, "Student number already used")
		}
		updates["user_student_number"] = number
		user.StudentNumber = &number
	}
	if req.IsActive != nil {
		updates["user_is_active"] = *req.IsActive
		user.IsActive = *req.IsActive
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&model.UserModel{}).
		Where("user_id = ?", user.ID).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Student updated", mapUserToResponse(&user))
}

// DELETE /students/:student_id (soft delete)
func (ctl *StudentController) Delete(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(strings.TrimSpace(c.Params("student_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student ID")
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Where("user_id = ? AND user_role = ?", studentID, "student").
		Delete(&model.UserModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not found")
	}
	return helper.JsonDeleted(c, "Student deleted", fiber.Map{"student_id": studentID})
}
