package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	userModel "kelasku_backend/internals/features/users/user/model"

	dto "kelasku_backend/internals/features/school/classes/dto"
	model "kelasku_backend/internals/features/school/classes/model"
	helper "kelasku_backend/internals/helpers"
)

type ClassRoomController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewClassRoomController(db *gorm.DB) *ClassRoomController {
	return &ClassRoomController{DB: db, Validator: validator.New()}
}

// classForTeacher loads a classroom only when the requesting teacher
// owns it.
func (ctl *ClassRoomController) classForTeacher(c *fiber.Ctx, classID, teacherID uuid.UUID) (*model.ClassRoomModel, error) {
	var room model.ClassRoomModel
	err := ctl.DB.WithContext(c.UserContext()).
		Joins("JOIN class_teachers ON class_teachers.class_teacher_class_room_id = class_rooms.class_room_id").
		Where("class_rooms.class_room_id = ? AND class_teachers.class_teacher_user_id = ?", classID, teacherID).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (ctl *ClassRoomController) mapClassToResponse(c *fiber.Ctx, room *model.ClassRoomModel) (dto.ClassResponse, error) {
	type countRow struct {
		StudentCount int
		SessionCount int
	}
	var counts countRow
	err := ctl.DB.WithContext(c.UserContext()).Raw(`
		SELECT
			(SELECT COUNT(*) FROM class_students WHERE class_student_class_room_id = @cid) AS student_count,
			(SELECT COUNT(*) FROM lesson_sessions WHERE lesson_session_class_room_id = @cid) AS session_count`,
		map[string]interface{}{"cid": room.ID}).
		Scan(&counts).Error
	if err != nil {
		return dto.ClassResponse{}, err
	}
	return dto.ClassResponse{
		ID:           room.ID,
		Name:         room.Name,
		Description:  room.Description,
		StudentCount: counts.StudentCount,
		SessionCount: counts.SessionCount,
		CreatedAt:    room.CreatedAt,
	}, nil
}

// POST /classes
func (ctl *ClassRoomController) Create(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	room := model.ClassRoomModel{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&room).Error; err != nil {
			return err
		}
		// Creator becomes the first teacher of the classroom.
		return tx.Create(&model.ClassTeacherModel{
			ClassRoomID: room.ID,
			UserID:      teacherID,
		}).Error
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp, err := ctl.mapClassToResponse(c, &room)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonCreated(c, "Classroom created", resp)
}

// GET /classes
func (ctl *ClassRoomController) List(c *fiber.Ctx) error {
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var rooms []model.ClassRoomModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Joins("JOIN class_teachers ON class_teachers.class_teacher_class_room_id = class_rooms.class_room_id").
		Where("class_teachers.class_teacher_user_id = ?", teacherID).
		Order("class_rooms.class_room_created_at ASC").
		Find(&rooms).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	out := make([]dto.ClassResponse, 0, len(rooms))
	for i := range rooms {
		resp, err := ctl.mapClassToResponse(c, &rooms[i])
		if err != nil {
			return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
		}
		out = append(out, resp)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /classes/:class_id
func (ctl *ClassRoomController) Detail(c *fiber.Ctx) error {
	classID, err := uuid.Parse(strings.TrimSpace(c.Params("class_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	room, err := ctl.classForTeacher(c, classID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Classroom not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp, err := ctl.mapClassToResponse(c, room)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", resp)
}

// PATCH /classes/:class_id
func (ctl *ClassRoomController) Update(c *fiber.Ctx) error {
	classID, err := uuid.Parse(strings.TrimSpace(c.Params("class_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	room, err := ctl.classForTeacher(c, classID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Classroom not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var req dto.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return helper.JsonError(c, fiber.StatusBadRequest, "Name cannot be empty")
		}
		updates["class_room_name"] = name
		room.Name = name
	}
	if req.Description != nil {
		desc := strings.TrimSpace(*req.Description)
		updates["class_room_description"] = desc
		room.Description = desc
	}
	if len(updates) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, "Nothing to update")
	}

	if err := ctl.DB.WithContext(c.UserContext()).
		Model(&model.ClassRoomModel{}).
		Where("class_room_id = ?", room.ID).
		Updates(updates).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	resp, err := ctl.mapClassToResponse(c, room)
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonUpdated(c, "Classroom updated", resp)
}

// DELETE /classes/:class_id (soft delete)
func (ctl *ClassRoomController) Delete(c *fiber.Ctx) error {
	classID, err := uuid.Parse(strings.TrimSpace(c.Params("class_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	room, err := ctl.classForTeacher(c, classID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Classroom not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	if err := ctl.DB.WithContext(c.UserContext()).
		Delete(&model.ClassRoomModel{}, "class_room_id = ?", room.ID).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonDeleted(c, "Classroom deleted", fiber.Map{"class_room_id": room.ID})
}

// GET /classes/:class_id/students
func (ctl *ClassRoomController) Roster(c *fiber.Ctx) error {
	classID, err := uuid.Parse(strings.TrimSpace(c.Params("class_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	if _, err := ctl.classForTeacher(c, classID, teacherID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Classroom not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var roster []dto.RosterEntry
	err = ctl.DB.WithContext(c.UserContext()).
		Table("class_students").
		Select("users.user_id AS student_id, COALESCE(users.user_student_number, '') AS student_number, users.user_full_name AS full_name, class_students.class_student_created_at AS enrolled_at").
		Joins("JOIN users ON users.user_id = class_students.class_student_user_id").
		Where("class_students.class_student_class_room_id = ? AND users.user_deleted_at IS NULL", classID).
		Order("users.user_student_number ASC").
		Scan(&roster).Error
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	return helper.JsonOK(c, "ok", roster)
}

// POST /classes/:class_id/students
func (ctl *ClassRoomController) Enroll(c *fiber.Ctx) error {
	classID, err := uuid.Parse(strings.TrimSpace(c.Params("class_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	room, err := ctl.classForTeacher(c, classID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Classroom not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	var req dto.EnrollStudentsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.Validator.Struct(&req); err != nil {
		return helper.JsonValidationError(c, err)
	}

	var students []userModel.UserModel
	if err := ctl.DB.WithContext(c.UserContext()).
		Where("user_id IN ? AND user_role = ?", req.StudentIDs, "student").
		Find(&students).Error; err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}
	if len(students) != len(req.StudentIDs) {
		return helper.JsonError(c, fiber.StatusBadRequest, "Unknown student in list")
	}

	added := 0
	err = ctl.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
		for _, s := range students {
			var n int64
			if err := tx.Model(&model.ClassStudentModel{}).
				Where("class_student_class_room_id = ? AND class_student_user_id = ?", room.ID, s.ID).
				Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			if err := tx.Create(&model.ClassStudentModel{
				ClassRoomID: room.ID,
				UserID:      s.ID,
			}).Error; err != nil {
				return err
			}
			added++
		}
		return nil
	})
	if err != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	return helper.JsonCreated(c, "Students enrolled", fiber.Map{"added": added})
}

// DELETE /classes/:class_id/students/:student_id
func (ctl *ClassRoomController) RemoveStudent(c *fiber.Ctx) error {
	classID, err := uuid.Parse(strings.TrimSpace(c.Params("class_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid class ID")
	}
	studentID, err := uuid.Parse(strings.TrimSpace(c.Params("student_id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid student ID")
	}
	teacherID, err := helper.GetUserIDFromToken(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusUnauthorized, "Unauthorized")
	}
	room, err := ctl.classForTeacher(c, classID, teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.JsonError(c, fiber.StatusNotFound, "Classroom not found")
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, err.Error())
	}

	res := ctl.DB.WithContext(c.UserContext()).
		Where("class_student_class_room_id = ? AND class_student_user_id = ?", room.ID, studentID).
		Delete(&model.ClassStudentModel{})
	if res.Error != nil {
		return helper.JsonError(c, fiber.StatusInternalServerError, res.Error.Error())
	}
	if res.RowsAffected == 0 {
		return helper.JsonError(c, fiber.StatusNotFound, "Student not enrolled")
	}
	return helper.JsonDeleted(c, "Student removed", fiber.Map{"student_id": studentID})
}
